package exam

import (
	"testing"
)

func scenarioSubjects() ClassSubjects {
	return ClassSubjects{
		"c1": {"math", "sci"},
		"c2": {"math", "sci"},
		"c3": {"math", "sci"},
	}
}

func entry(d Date, slotID, classID string, subj Subject) Entry {
	cls, _ := testCatalog.Class(classID)
	return Entry{
		Date:        d,
		SlotID:      slotID,
		ClassID:     classID,
		SubjectID:   subj.ID,
		ClassName:   cls.DisplayName(),
		SubjectName: subj.Name,
	}
}

func TestAutoSchedule(t *testing.T) {
	classes := []string{"c1", "c2", "c3"}

	tests := []struct {
		name         string
		cs           ClassSubjects
		classIDs     []string
		slots        []TimeSlot
		dates        []Date
		wantSchedule Schedule
		wantUnplaced []string
	}{
		{
			name:     "one subject per day in the first slot",
			cs:       scenarioSubjects(),
			classIDs: classes,
			slots:    DefaultSlots(),
			dates:    []Date{day1, day2},
			wantSchedule: Schedule{
				entry(day1, "1", "c1", mathematics),
				entry(day1, "1", "c2", mathematics),
				entry(day1, "1", "c3", mathematics),
				entry(day2, "1", "c1", science),
				entry(day2, "1", "c2", science),
				entry(day2, "1", "c3", science),
			},
			wantUnplaced: []string{},
		},
		{
			name:     "subjects beyond the dates are reported",
			cs:       scenarioSubjects(),
			classIDs: classes,
			slots:    DefaultSlots(),
			dates:    []Date{day1},
			wantSchedule: Schedule{
				entry(day1, "1", "c1", mathematics),
				entry(day1, "1", "c2", mathematics),
				entry(day1, "1", "c3", mathematics),
			},
			wantUnplaced: []string{"sci"},
		},
		{
			name:     "only classes sitting the subject get an entry",
			cs:       ClassSubjects{"c1": {"math"}, "c2": {"eng", "math"}},
			classIDs: []string{"c1", "c2"},
			slots:    DefaultSlots(),
			dates:    []Date{day1, day2, day3},
			wantSchedule: Schedule{
				entry(day1, "1", "c1", mathematics),
				entry(day1, "1", "c2", mathematics),
				entry(day2, "1", "c2", english),
			},
			wantUnplaced: []string{},
		},
		{
			name:         "unselected classes are ignored",
			cs:           ClassSubjects{"c1": {"math"}, "c2": {"sci"}},
			classIDs:     []string{"c2"},
			slots:        DefaultSlots(),
			dates:        []Date{day1},
			wantSchedule: Schedule{entry(day1, "1", "c2", science)},
			wantUnplaced: []string{},
		},
		{
			name:         "no dates",
			cs:           scenarioSubjects(),
			classIDs:     classes,
			slots:        DefaultSlots(),
			wantSchedule: Schedule{},
			wantUnplaced: []string{"math", "sci"},
		},
		{
			name:         "no slots",
			cs:           scenarioSubjects(),
			classIDs:     classes,
			dates:        []Date{day1, day2},
			wantSchedule: Schedule{},
			wantUnplaced: []string{"math", "sci"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AutoSchedule(tt.cs, tt.classIDs, tt.slots, tt.dates, testCatalog)
			mustDiff(t, "AutoSchedule().Schedule", got.Schedule, tt.wantSchedule)
			mustDiff(t, "AutoSchedule().Unplaced", got.Unplaced, tt.wantUnplaced)
			if got.Complete() != (len(tt.wantUnplaced) == 0) {
				t.Errorf("AutoSchedule().Complete() = %v", got.Complete())
			}
		})
	}
}

func TestAutoSchedule_idempotent(t *testing.T) {
	dates := []Date{day1, day2, day3}
	first := AutoSchedule(scenarioSubjects(), []string{"c1", "c2", "c3"}, DefaultSlots(), dates, testCatalog)
	second := AutoSchedule(scenarioSubjects(), []string{"c1", "c2", "c3"}, DefaultSlots(), dates, testCatalog)
	mustDiff(t, "AutoSchedule() rerun", second, first)
}

func TestAutoSchedule_cellsAreUnique(t *testing.T) {
	cs := ClassSubjects{"c1": {"math", "sci", "eng"}, "c2": {"eng", "sci"}, "c3": {"sci"}}
	res := AutoSchedule(cs, []string{"c1", "c2", "c3"}, DefaultSlots(), []Date{day1, day2, day3}, testCatalog)

	seen := make(map[string]bool)
	for _, e := range res.Schedule {
		if seen[e.Cell().key()] {
			t.Errorf("cell %s is used twice", e.Cell().key())
		}
		seen[e.Cell().key()] = true
		if !cs.Has(e.ClassID, e.SubjectID) {
			t.Errorf("class %s got unselected subject %s", e.ClassID, e.SubjectID)
		}
	}
	if len(res.Schedule) != 6 {
		t.Errorf("len(AutoSchedule().Schedule) = %d, want 6", len(res.Schedule))
	}
}

func TestDistinctSubjects(t *testing.T) {
	cs := ClassSubjects{"c1": {"sci", "math"}, "c2": {"math", "eng"}, "c3": {"art"}}
	mustDiff(t, "DistinctSubjects()", DistinctSubjects(cs, []string{"c2", "c1"}), []string{"math", "eng", "sci"})
}
