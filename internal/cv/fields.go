package cv

import "fmt"

// WithField returns a copy of e with the named field set to value.
func (e Experience) WithField(field, value string) (Experience, error) {
	switch field {
	case "title":
		e.Title = value
	case "summary":
		e.Summary = value
	case "startMonth":
		e.StartMonth = value
	case "startYear":
		e.StartYear = value
	case "endMonth":
		e.EndMonth = value
	case "endYear":
		e.EndYear = value
	default:
		return e, unknownField("experience", field)
	}
	return e, nil
}

// WithField returns a copy of e with the named field set to value.
func (e Education) WithField(field, value string) (Education, error) {
	switch field {
	case "institution":
		e.Institution = value
	case "degree":
		e.Degree = value
	case "grade":
		e.Grade = value
	case "startMonth":
		e.StartMonth = value
	case "startYear":
		e.StartYear = value
	case "endMonth":
		e.EndMonth = value
	case "endYear":
		e.EndYear = value
	default:
		return e, unknownField("education", field)
	}
	return e, nil
}

// WithField returns a copy of e with the named field set to value.
// "description" is accepted for role.
func (e Extracurricular) WithField(field, value string) (Extracurricular, error) {
	switch field {
	case "activity":
		e.Activity = value
	case "role", "description":
		e.Role = value
	default:
		return e, unknownField("extracurricular", field)
	}
	return e, nil
}

func unknownField(kind, field string) error {
	return fmt.Errorf("%w: %s.%s", ErrUnknownField, kind, field)
}
