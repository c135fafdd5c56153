package exam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssign(t *testing.T) {
	cs := ClassSubjects{"c1": {"math", "sci"}, "c2": {"eng"}}
	cell := Cell{Date: day1, SlotID: "1", ClassID: "c1"}

	s, err := Assign(nil, cs, cell, "math", testCatalog)
	require.NoError(t, err)
	mustDiff(t, "Assign()", s, Schedule{entry(day1, "1", "c1", mathematics)})

	// reassigning the same cell replaces its subject
	s, err = Assign(s, cs, cell, "sci", testCatalog)
	require.NoError(t, err)
	mustDiff(t, "Assign() reassigned", s, Schedule{entry(day1, "1", "c1", science)})

	// a subject the class does not sit is refused
	before := s
	s, err = Assign(s, cs, cell, "eng", testCatalog)
	assert.Equal(t, ErrSubjectNotSelected, err)
	mustDiff(t, "Assign() refused", s, before)

	// other cells are untouched
	other := Cell{Date: day1, SlotID: "1", ClassID: "c2"}
	s, err = Assign(s, cs, other, "eng", testCatalog)
	require.NoError(t, err)
	assert.Len(t, s, 2)
}

func TestClear(t *testing.T) {
	s := Schedule{
		entry(day1, "1", "c1", mathematics),
		entry(day1, "2", "c1", science),
	}
	orig := append(Schedule(nil), s...)

	got := Clear(s, Cell{Date: day1, SlotID: "1", ClassID: "c1"})
	mustDiff(t, "Clear()", got, Schedule{entry(day1, "2", "c1", science)})
	mustDiff(t, "Clear() input", s, orig)

	got = Clear(got, Cell{Date: day2, SlotID: "1", ClassID: "c1"})
	assert.Len(t, got, 1, "clearing an empty cell is a no-op")
}

func TestGrid_Contains(t *testing.T) {
	g := Grid{Dates: []Date{day1, day2}, Slots: DefaultSlots(), Classes: []string{"c1"}}

	tests := []struct {
		name string
		cell Cell
		want bool
	}{
		{name: "inside", cell: Cell{Date: day2, SlotID: "2", ClassID: "c1"}, want: true},
		{name: "date outside", cell: Cell{Date: day3, SlotID: "1", ClassID: "c1"}},
		{name: "unknown slot", cell: Cell{Date: day1, SlotID: "3", ClassID: "c1"}},
		{name: "unselected class", cell: Cell{Date: day1, SlotID: "1", ClassID: "c2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Contains(tt.cell); got != tt.want {
				t.Errorf("Grid.Contains() = %v, want %v", got, tt.want)
			}
		})
	}
	assert.Len(t, g.Cells(), 4)
}

func TestBuildView(t *testing.T) {
	g := Grid{Dates: []Date{day1, day2}, Slots: DefaultSlots(), Classes: []string{"c1", "c3"}}
	cs := ClassSubjects{"c1": {"math", "sci"}, "c3": {"eng"}}
	s := Schedule{entry(day2, "2", "c3", english)}

	view := BuildView(g, s, cs, testCatalog)
	require.Len(t, view.Days, 2)

	for _, day := range view.Days {
		require.Len(t, day.Slots, 2)
		for _, sv := range day.Slots {
			require.Len(t, sv.Cells, 2)
			assert.Equal(t, "Grade 7 A", sv.Cells[0].ClassName)
			assert.Equal(t, []Subject{mathematics, science}, sv.Cells[0].Options)
			assert.Equal(t, []Subject{english}, sv.Cells[1].Options)
		}
	}

	filled := view.Days[1].Slots[1].Cells[1]
	require.NotNil(t, filled.Entry)
	assert.Equal(t, "eng", filled.Entry.SubjectID)
	assert.Nil(t, view.Days[0].Slots[0].Cells[1].Entry)
}

func TestSummarize(t *testing.T) {
	cs := ClassSubjects{"c1": {"math", "sci"}, "c2": {"eng"}}
	s := Schedule{entry(day1, "1", "c1", mathematics), entry(day2, "1", "c2", english)}

	got := Summarize(s, cs, []string{"c1", "c2"}, testCatalog)
	want := []Coverage{
		{ClassID: "c1", ClassName: "Grade 7 A", Selected: 2, Scheduled: 1, Missing: []string{"sci"}},
		{ClassID: "c2", ClassName: "Grade 7 B", Selected: 1, Scheduled: 1, Missing: []string{}},
	}
	mustDiff(t, "Summarize()", got, want)
}
