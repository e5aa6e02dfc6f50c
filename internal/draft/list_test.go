package draft

import (
	"errors"
	"reflect"
	"testing"

	"cvstudio-backend/internal/cv"
)

func TestListAddThenRemoveRestoresState(t *testing.T) {
	l := NewList([]cv.Experience{{Title: "Dev"}, {Title: "Lead"}})
	before := l.Items()

	index := l.Add()
	if index != 2 || l.Len() != 3 {
		t.Fatalf("expected new entry at 2, got %d (len %d)", index, l.Len())
	}
	l.Remove(index)

	if !reflect.DeepEqual(l.Items(), before) {
		t.Fatalf("expected %+v, got %+v", before, l.Items())
	}
}

func TestListRemoveShiftsEntries(t *testing.T) {
	l := NewList([]cv.Education{{Institution: "A"}, {Institution: "B"}, {Institution: "C"}})
	l.Remove(0)
	got := l.Items()
	if len(got) != 2 || got[0].Institution != "B" || got[1].Institution != "C" {
		t.Fatalf("unexpected items: %+v", got)
	}
}

func TestListRemoveLastYieldsEmpty(t *testing.T) {
	l := NewList([]cv.Extracurricular{{Activity: "Chess"}})
	l.Remove(0)
	items := l.Items()
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", items)
	}
}

func TestListUpdateOutOfRangePanics(t *testing.T) {
	for _, index := range []int{-1, 1, 5} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic for index %d", index)
				}
			}()
			l := NewList([]cv.Experience{{}})
			_ = l.Update(index, "title", "x")
		}()
	}
}

func TestListUpdateTouchesOneField(t *testing.T) {
	l := NewList([]cv.Experience{{Title: "Dev", StartYear: "2020"}})
	if err := l.Update(0, "summary", "Shipped"); err != nil {
		t.Fatalf("update: %v", err)
	}
	want := cv.Experience{Title: "Dev", StartYear: "2020", Summary: "Shipped"}
	if got := l.Items()[0]; got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestListUpdateFieldsIsAllOrNothing(t *testing.T) {
	l := NewList([]cv.Education{{Institution: "MIT"}})
	err := l.UpdateFields(0, map[string]string{"degree": "BSc", "nope": "x"})
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if got := l.Items()[0]; got.Degree != "" {
		t.Fatalf("entry changed despite error: %+v", got)
	}
}

func TestListItemsIsACopy(t *testing.T) {
	l := NewList([]cv.Experience{{Title: "Dev"}})
	items := l.Items()
	items[0].Title = "changed"
	if l.Items()[0].Title != "Dev" {
		t.Fatalf("Items must not alias internal storage")
	}
}
