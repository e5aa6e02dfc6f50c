package preview

import (
	"reflect"
	"strings"
	"testing"

	"cvstudio-backend/internal/coverletter"
	"cvstudio-backend/internal/cv"
)

func TestBuildCVBlankUsesPlaceholders(t *testing.T) {
	v := BuildCV(cv.NewBlank())

	if v.FullName != "John Doe" {
		t.Fatalf("expected placeholder name, got %q", v.FullName)
	}
	if v.Email != PlaceholderEmail || v.Phone != PlaceholderPhone {
		t.Fatalf("expected placeholder contact, got %q %q", v.Email, v.Phone)
	}
	if v.Summary != PlaceholderSummary {
		t.Fatalf("expected placeholder summary")
	}
	if !reflect.DeepEqual(v.Skills, PlaceholderSkills) {
		t.Fatalf("expected default skills, got %v", v.Skills)
	}
	if len(v.Education) != 1 || v.Education[0].Institution != PlaceholderInstitution || v.Education[0].Degree != PlaceholderDegree {
		t.Fatalf("unexpected education view: %+v", v.Education)
	}
	if len(v.Experiences) != 1 || v.Experiences[0].Heading != PlaceholderJobTitle {
		t.Fatalf("unexpected experience view: %+v", v.Experiences)
	}
	if len(v.Extracurricular) != 0 {
		t.Fatalf("blank extracurricular entries must not render, got %v", v.Extracurricular)
	}
}

func TestBuildCVRendersDocumentInOrder(t *testing.T) {
	doc := cv.Document{
		FirstName: "Ada",
		LastName:  "Lovelace",
		City:      "London",
		Country:   "UK",
		Skills:    []string{"Math", "Logic"},
		Experiences: []cv.Experience{
			{Title: "Analyst", Summary: "Wrote notes\n\n  Published the first program  \n", StartMonth: "Jan", StartYear: "1842", EndMonth: "Dec", EndYear: "1843"},
			{Title: "Consultant", StartMonth: "Feb", StartYear: "1844", EndMonth: cv.Present, EndYear: "1999"},
		},
		Education: []cv.Education{
			{Institution: "Home", Degree: "Tutoring", Grade: "4.0"},
		},
		Extracurricular: []cv.Extracurricular{
			{Activity: "Chess club", Role: "Captain"},
			{Activity: "Choir"},
		},
	}

	v := BuildCV(doc)

	if v.FullName != "Ada Lovelace" || v.Location != "London, UK" {
		t.Fatalf("unexpected header: %q %q", v.FullName, v.Location)
	}
	if !reflect.DeepEqual(v.Skills, []string{"Math", "Logic"}) {
		t.Fatalf("unexpected skills: %v", v.Skills)
	}
	if v.Experiences[0].Heading != "Analyst, London" || v.Experiences[1].Heading != "Consultant, London" {
		t.Fatalf("experiences out of order: %+v", v.Experiences)
	}
	if !reflect.DeepEqual(v.Experiences[0].Bullets, []string{"Wrote notes", "Published the first program"}) {
		t.Fatalf("unexpected bullets: %v", v.Experiences[0].Bullets)
	}
	if v.Experiences[0].Period != "Jan 1842 - Dec 1843" {
		t.Fatalf("unexpected period: %q", v.Experiences[0].Period)
	}
	if v.Experiences[1].Period != "Feb 1844 - Present" {
		t.Fatalf("unexpected ongoing period: %q", v.Experiences[1].Period)
	}
	if v.Education[0].Grade != "4.0" {
		t.Fatalf("expected grade, got %q", v.Education[0].Grade)
	}
	if !reflect.DeepEqual(v.Extracurricular, []string{"Chess club, Captain", "Choir"}) {
		t.Fatalf("unexpected extracurricular: %v", v.Extracurricular)
	}
}

func TestPeriodPresentNeverShowsEndYear(t *testing.T) {
	for _, year := range []string{"", "2020", "1999", "anything"} {
		got := Period("Mar", "2018", cv.Present, year)
		if got != "Mar 2018 - Present" {
			t.Fatalf("end year %q leaked: %q", year, got)
		}
		if year != "" && strings.Contains(got, year) {
			t.Fatalf("end year %q rendered in %q", year, got)
		}
	}
	if got := Period("", "", cv.Present, "2020"); got != "Present" {
		t.Fatalf("expected bare Present, got %q", got)
	}
	if got := Period("", "", "", ""); got != "" {
		t.Fatalf("expected empty period, got %q", got)
	}
}

func TestBuildCVToleratesEmptyLists(t *testing.T) {
	v := BuildCV(cv.Document{})
	if len(v.Education) != 0 || len(v.Experiences) != 0 || len(v.Extracurricular) != 0 {
		t.Fatalf("expected empty sections, got %+v", v)
	}
	page, err := RenderCVHTML(v)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(page, "Extracurricular and Service") {
		t.Fatalf("extracurricular heading must be omitted")
	}
}

func TestBuildCoverLetterSplitsParagraphs(t *testing.T) {
	v := BuildCoverLetter(coverletter.Document{
		Company:  "Acme",
		Position: "Engineer",
		Content:  "Dear team,\r\n\r\nI am applying.\nThanks\n   \nRegards",
	})
	if v.Title != "Engineer at Acme" {
		t.Fatalf("unexpected title %q", v.Title)
	}
	if v.Recipient != PlaceholderRecipient {
		t.Fatalf("expected placeholder recipient, got %q", v.Recipient)
	}
	want := [][]string{{"Dear team,"}, {"I am applying.", "Thanks"}, {"Regards"}}
	if !reflect.DeepEqual(v.Paragraphs, want) {
		t.Fatalf("unexpected paragraphs: %#v", v.Paragraphs)
	}
	if v.Blank {
		t.Fatalf("letter with content is not blank")
	}
}

func TestBlankCoverLetterShowsPlaceholder(t *testing.T) {
	v := BuildCoverLetter(coverletter.Document{})
	if !v.Blank {
		t.Fatalf("expected blank flag")
	}
	page, err := RenderLetterHTML(v)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(page, coverletter.Placeholder) {
		t.Fatalf("placeholder missing from page")
	}
	if !strings.Contains(page, `id="letter-preview"`) {
		t.Fatalf("preview element id missing")
	}
}

func TestRenderCVHTMLEscapesInput(t *testing.T) {
	v := BuildCV(cv.Document{FirstName: "<script>", LastName: "X"})
	page, err := RenderCVHTML(v)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(page, "<script>") {
		t.Fatalf("markup was not escaped")
	}
	if !strings.Contains(page, `id="cv-preview"`) {
		t.Fatalf("preview element id missing")
	}
}
