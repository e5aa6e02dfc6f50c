package cv

import "strings"

// SplitSkills turns the free-text skills input into an ordered list: split on
// commas, trim each token, drop empties. Duplicates are kept.
func SplitSkills(input string) []string {
	return NormalizeSkills(strings.Split(input, ","))
}

// NormalizeSkills trims every skill and drops the blank ones, keeping order
// and duplicates. The result is never nil.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// JoinSkills is the inverse used to refill the free-text input.
func JoinSkills(skills []string) string {
	return strings.Join(skills, ", ")
}
