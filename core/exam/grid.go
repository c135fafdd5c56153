package exam

import "github.com/pkg/errors"

var (
	ErrSubjectNotSelected = errors.New("subject is not selected for this class")
	ErrCellOutOfRange     = errors.New("cell is not part of the exam grid")
)

// Grid is the set of addressable cells: every exam day × every slot × every selected class.
// It is derived from the form, never stored.
type Grid struct {
	Dates   []Date
	Slots   Slots
	Classes []string
}

func (g Grid) Contains(c Cell) bool {
	if _, ok := g.Slots.Find(c.SlotID); !ok {
		return false
	}
	if !containsString(g.Classes, c.ClassID) {
		return false
	}
	return containsDate(g.Dates, c.Date)
}

// Cells lists every cell of the grid, date-major then slot then class.
func (g Grid) Cells() []Cell {
	cells := make([]Cell, 0, len(g.Dates)*len(g.Slots)*len(g.Classes))
	for _, d := range g.Dates {
		for _, s := range g.Slots {
			for _, classID := range g.Classes {
				cells = append(cells, Cell{Date: d, SlotID: s.ID, ClassID: classID})
			}
		}
	}
	return cells
}

// EntryAt returns the entry occupying the cell, if any.
func EntryAt(s Schedule, c Cell) (Entry, bool) {
	key := c.key()
	for _, e := range s {
		if e.Cell().key() == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Assign puts subjectID in the cell, replacing whatever the cell held.
// The subject must be selected for the cell's class; otherwise the schedule is returned unchanged.
func Assign(s Schedule, cs ClassSubjects, c Cell, subjectID string, catalog Catalog) (Schedule, error) {
	if !cs.Has(c.ClassID, subjectID) {
		return s, ErrSubjectNotSelected
	}
	updated := Clear(s, c)
	updated = append(updated, Entry{
		Date:        c.Date,
		SlotID:      c.SlotID,
		ClassID:     c.ClassID,
		SubjectID:   subjectID,
		ClassName:   catalog.className(c.ClassID),
		SubjectName: catalog.subjectName(subjectID),
	})
	return updated, nil
}

// Clear empties the cell. Clearing an empty cell is a no-op.
func Clear(s Schedule, c Cell) Schedule {
	key := c.key()
	updated := make(Schedule, 0, len(s))
	for _, e := range s {
		if e.Cell().key() != key {
			updated = append(updated, e)
		}
	}
	return updated
}

type (
	// View is the calendar rendering of a schedule: days → slots → one cell per class.
	View struct {
		Days []DayView `json:"days"`
	}

	DayView struct {
		Date  Date       `json:"date"`
		Slots []SlotView `json:"slots"`
	}

	SlotView struct {
		Slot  TimeSlot   `json:"slot"`
		Cells []CellView `json:"cells"`
	}

	CellView struct {
		ClassID   string    `json:"class_id"`
		ClassName string    `json:"class_name"`
		Entry     *Entry    `json:"entry"`
		Options   []Subject `json:"options"` // subjects the class may sit in this cell
	}
)

// BuildView renders every grid cell, empty or not.
func BuildView(g Grid, s Schedule, cs ClassSubjects, catalog Catalog) View {
	byCell := make(map[string]Entry, len(s))
	for _, e := range s {
		byCell[e.Cell().key()] = e
	}

	options := make(map[string][]Subject, len(g.Classes))
	for _, classID := range g.Classes {
		opts := make([]Subject, 0, len(cs[classID]))
		for _, subjectID := range cs[classID] {
			if subj, ok := catalog.Subject(subjectID); ok {
				opts = append(opts, subj)
			} else {
				opts = append(opts, Subject{ID: subjectID})
			}
		}
		options[classID] = opts
	}

	view := View{Days: make([]DayView, 0, len(g.Dates))}
	for _, d := range g.Dates {
		day := DayView{Date: d, Slots: make([]SlotView, 0, len(g.Slots))}
		for _, slot := range g.Slots {
			sv := SlotView{Slot: slot, Cells: make([]CellView, 0, len(g.Classes))}
			for _, classID := range g.Classes {
				cv := CellView{
					ClassID:   classID,
					ClassName: catalog.className(classID),
					Options:   options[classID],
				}
				if e, ok := byCell[Cell{Date: d, SlotID: slot.ID, ClassID: classID}.key()]; ok {
					e := e
					cv.Entry = &e
				}
				sv.Cells = append(sv.Cells, cv)
			}
			day.Slots = append(day.Slots, sv)
		}
		view.Days = append(view.Days, day)
	}
	return view
}

// Coverage tells, for one class, which of its selected subjects have an exam.
type Coverage struct {
	ClassID   string   `json:"class_id"`
	ClassName string   `json:"class_name"`
	Selected  int      `json:"selected"`
	Scheduled int      `json:"scheduled"`
	Missing   []string `json:"missing"`
}

// Summarize reports per-class coverage, in class order.
func Summarize(s Schedule, cs ClassSubjects, classIDs []string, catalog Catalog) []Coverage {
	scheduled := make(map[string]map[string]bool, len(classIDs))
	for _, e := range s {
		if scheduled[e.ClassID] == nil {
			scheduled[e.ClassID] = make(map[string]bool)
		}
		scheduled[e.ClassID][e.SubjectID] = true
	}

	summary := make([]Coverage, 0, len(classIDs))
	for _, classID := range classIDs {
		cov := Coverage{
			ClassID:   classID,
			ClassName: catalog.className(classID),
			Missing:   make([]string, 0),
		}
		for _, subjectID := range uniqueStrings(cs[classID]) {
			cov.Selected++
			if scheduled[classID][subjectID] {
				cov.Scheduled++
			} else {
				cov.Missing = append(cov.Missing, subjectID)
			}
		}
		summary = append(summary, cov)
	}
	return summary
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func uniqueStrings(list []string) []string {
	seen := make(map[string]bool, len(list))
	unique := make([]string, 0, len(list))
	for _, s := range list {
		if !seen[s] {
			seen[s] = true
			unique = append(unique, s)
		}
	}
	return unique
}
