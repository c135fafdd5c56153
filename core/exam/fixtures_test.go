package exam

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var (
	mathematics = Subject{ID: "math", Name: "Mathematics"}
	science     = Subject{ID: "sci", Name: "Science"}
	english     = Subject{ID: "eng", Name: "English"}

	testCatalog = Catalog{
		Classes: []Class{
			{ID: "c1", Name: "Grade 7", Section: "A"},
			{ID: "c2", Name: "Grade 7", Section: "B"},
			{ID: "c3", Name: "Grade 8"},
		},
		Subjects: []Subject{mathematics, science, english},
	}

	day1 = NewDate(2024, time.March, 4)
	day2 = NewDate(2024, time.March, 5)
	day3 = NewDate(2024, time.March, 6)
)

// dateComparer lets go-cmp look into Date's unexported field.
var dateComparer = cmp.Comparer(func(a, b Date) bool { return a.Equal(b) })

func mustDiff(t *testing.T, name string, got, want interface{}) {
	t.Helper()
	if diff := cmp.Diff(want, got, dateComparer); diff != "" {
		t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
	}
}

// scheduleWizard walks a wizard to step 6 through valid transitions.
func scheduleWizard(t *testing.T, mode Mode, start, end Date, classIDs []string, subjects ClassSubjects) Wizard {
	t.Helper()
	w := NewWizard(testCatalog, Parameters{MaxMarks: 50})

	step := func(w Wizard, err error) Wizard {
		t.Helper()
		if err != nil {
			t.Fatalf("scheduleWizard() on step %q failed: %v", w.Step(), err)
		}
		return w
	}

	w = step(w.SetParameters(Parameters{Name: "Mid-Term Examination", Term: "Term 1", StartDate: start, EndDate: end, MaxMarks: 50}))
	w = step(w.Next())
	w = step(w.SelectClasses(classIDs))
	w = step(w.Next())
	w = step(w.ChooseMode(mode))
	w = step(w.Next())
	if mode == ModeManual {
		w = step(w.SetSlots(DefaultSlots()))
	}
	w = step(w.Next())
	for _, classID := range classIDs {
		if ids, ok := subjects[classID]; ok {
			w = step(w.SetClassSubjects(classID, ids))
		}
	}
	return step(w.Next())
}
