package exam

import (
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

var ErrNothingToSchedule = errors.New("nothing to schedule")

// BuildRecords flattens a schedule into one exam record per entry.
// exam_time is NULL when the entry's slot no longer exists.
func BuildRecords(s Schedule, p Parameters, slots Slots) ([]Record, error) {
	if len(s) == 0 {
		return nil, ErrNothingToSchedule
	}
	title := p.Title()
	maxMarks := p.MaxMarksOrDefault()

	records := make([]Record, 0, len(s))
	for _, e := range s {
		var examTime null.String
		if slot, ok := slots.Find(e.SlotID); ok {
			examTime = null.StringFrom(slot.Period())
		}
		records = append(records, Record{
			Name:      title,
			ExamDate:  e.Date,
			ExamTime:  examTime,
			MaxMarks:  maxMarks,
			ClassID:   e.ClassID,
			SubjectID: e.SubjectID,
		})
	}
	return records, nil
}
