package exam

import (
	"fmt"

	"github.com/volatiletech/null/v8"
)

// Exam names offered by the wizard. Any other non-blank label is accepted as a custom name.
var NameCatalogue = []string{
	"Mid-Term Examination",
	"End of Term Examination",
	"Final Examination",
	"Unit Test",
	"Mock Examination",
}

const fallbackMaxMarks = 100

type Class struct {
	ID      string `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Section string `json:"section" db:"section"`
}

// DisplayName is "<name> <section>", or just the name when there is no section.
func (c Class) DisplayName() string {
	if c.Section == "" {
		return c.Name
	}
	return c.Name + " " + c.Section
}

type Subject struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Catalog holds the selectable classes and subjects, in the order the datastore lists them.
type Catalog struct {
	Classes  []Class   `json:"classes"`
	Subjects []Subject `json:"subjects"`
}

func (c Catalog) Class(id string) (Class, bool) {
	for _, cls := range c.Classes {
		if cls.ID == id {
			return cls, true
		}
	}
	return Class{}, false
}

func (c Catalog) Subject(id string) (Subject, bool) {
	for _, subj := range c.Subjects {
		if subj.ID == id {
			return subj, true
		}
	}
	return Subject{}, false
}

func (c Catalog) SubjectIDs() []string {
	ids := make([]string, 0, len(c.Subjects))
	for _, subj := range c.Subjects {
		ids = append(ids, subj.ID)
	}
	return ids
}

func (c Catalog) className(id string) string {
	if cls, ok := c.Class(id); ok {
		return cls.DisplayName()
	}
	return ""
}

func (c Catalog) subjectName(id string) string {
	if subj, ok := c.Subject(id); ok {
		return subj.Name
	}
	return ""
}

// Parameters are the exam session parameters collected in step 1.
type Parameters struct {
	Name          string  `json:"name" yaml:"name" validate:"omitempty,notblank,max=120"`
	Term          string  `json:"term" yaml:"term" validate:"omitempty,notblank,max=60"`
	StartDate     Date    `json:"start_date" yaml:"start_date"`
	EndDate       Date    `json:"end_date" yaml:"end_date"`
	MaxMarks      int     `json:"max_marks" yaml:"max_marks" validate:"omitempty,gt=0"`
	DurationHours float64 `json:"duration_hours" yaml:"duration_hours" validate:"omitempty,gt=0"`
}

// IsComplete reports whether the parameters allow leaving step 1.
func (p Parameters) IsComplete() bool {
	return p.Name != "" && p.Term != "" &&
		!p.StartDate.IsZero() && !p.EndDate.IsZero() &&
		!p.EndDate.Before(p.StartDate)
}

// Dates returns the exam days, start and end inclusive.
func (p Parameters) Dates() []Date {
	return DateRange(p.StartDate, p.EndDate)
}

// Title is the name every committed exam record carries.
func (p Parameters) Title() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Term)
}

// MaxMarksOrDefault falls back to 100 when no positive default was set.
func (p Parameters) MaxMarksOrDefault() int {
	if p.MaxMarks > 0 {
		return p.MaxMarks
	}
	return fallbackMaxMarks
}

// TimeSlot is a named interval of an exam day, shared by all classes.
type TimeSlot struct {
	ID        string `json:"id" yaml:"id"`
	Label     string `json:"label" yaml:"label" validate:"required,notblank"`
	StartTime string `json:"start_time" yaml:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" yaml:"end_time" validate:"required,hhmm"`
}

// Period is rendered as "<start> - <end>".
func (s TimeSlot) Period() string {
	return s.StartTime + " - " + s.EndTime
}

// DefaultSlots seeds step 4 when auto mode is chosen with no slots yet.
func DefaultSlots() []TimeSlot {
	return []TimeSlot{
		{ID: "1", Label: "Morning Session", StartTime: "09:30", EndTime: "11:30"},
		{ID: "2", Label: "Afternoon Session", StartTime: "13:00", EndTime: "15:00"},
	}
}

type Slots []TimeSlot

func (ss Slots) Find(id string) (TimeSlot, bool) {
	for _, s := range ss {
		if s.ID == id {
			return s, true
		}
	}
	return TimeSlot{}, false
}

// ClassSubjects maps a class ID to the IDs of the subjects it sits exams for.
type ClassSubjects map[string][]string

// Has reports whether subjectID is selected for classID.
func (cs ClassSubjects) Has(classID, subjectID string) bool {
	for _, id := range cs[classID] {
		if id == subjectID {
			return true
		}
	}
	return false
}

// AnyNonEmpty reports whether at least one of the classes has a subject.
func (cs ClassSubjects) AnyNonEmpty(classIDs []string) bool {
	for _, id := range classIDs {
		if len(cs[id]) > 0 {
			return true
		}
	}
	return false
}

func (cs ClassSubjects) clone() ClassSubjects {
	if cs == nil {
		return nil
	}
	c := make(ClassSubjects, len(cs))
	for k, v := range cs {
		c[k] = append([]string(nil), v...)
	}
	return c
}

// Cell addresses one (date, slot, class) position of the grid.
type Cell struct {
	Date    Date   `json:"date"`
	SlotID  string `json:"slot_id"`
	ClassID string `json:"class_id"`
}

func (c Cell) key() string {
	return c.Date.String() + "|" + c.SlotID + "|" + c.ClassID
}

// Entry assigns a subject exam to a grid cell.
type Entry struct {
	Date        Date   `json:"date"`
	SlotID      string `json:"slot_id"`
	ClassID     string `json:"class_id"`
	SubjectID   string `json:"subject_id"`
	ClassName   string `json:"class_name"`
	SubjectName string `json:"subject_name"`
}

func (e Entry) Cell() Cell {
	return Cell{Date: e.Date, SlotID: e.SlotID, ClassID: e.ClassID}
}

// Schedule is the set of entries of one exam session.
// No two entries share the same Cell.
type Schedule []Entry

func (s Schedule) clone() Schedule {
	if s == nil {
		return nil
	}
	return append(Schedule(nil), s...)
}

// Record is an exam row ready to be inserted by the Repository.
type Record struct {
	Name      string      `json:"name" db:"name"`
	ExamDate  Date        `json:"exam_date" db:"exam_date"`
	ExamTime  null.String `json:"exam_time" db:"exam_time"`
	MaxMarks  int         `json:"max_marks" db:"max_marks"`
	ClassID   string      `json:"class_id" db:"class_id"`
	SubjectID string      `json:"subject_id" db:"subject_id"`
}
