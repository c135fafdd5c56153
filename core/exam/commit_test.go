package exam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func TestBuildRecords(t *testing.T) {
	params := Parameters{Name: "Mid-Term Examination", Term: "Term 1", StartDate: day1, EndDate: day2, MaxMarks: 80}

	t.Run("nothing to schedule", func(t *testing.T) {
		records, err := BuildRecords(Schedule{}, params, DefaultSlots())
		assert.Equal(t, ErrNothingToSchedule, err)
		assert.Nil(t, records)
	})

	t.Run("one record per entry", func(t *testing.T) {
		s := Schedule{
			entry(day1, "1", "c1", mathematics),
			entry(day2, "2", "c2", science),
			entry(day2, "gone", "c3", english),
		}
		records, err := BuildRecords(s, params, DefaultSlots())
		require.NoError(t, err)

		want := []Record{
			{Name: "Mid-Term Examination (Term 1)", ExamDate: day1, ExamTime: null.StringFrom("09:30 - 11:30"), MaxMarks: 80, ClassID: "c1", SubjectID: "math"},
			{Name: "Mid-Term Examination (Term 1)", ExamDate: day2, ExamTime: null.StringFrom("13:00 - 15:00"), MaxMarks: 80, ClassID: "c2", SubjectID: "sci"},
			{Name: "Mid-Term Examination (Term 1)", ExamDate: day2, ExamTime: null.String{}, MaxMarks: 80, ClassID: "c3", SubjectID: "eng"},
		}
		mustDiff(t, "BuildRecords()", records, want)
	})

	t.Run("max marks fallback", func(t *testing.T) {
		p := params
		p.MaxMarks = 0
		records, err := BuildRecords(Schedule{entry(day1, "1", "c1", mathematics)}, p, DefaultSlots())
		require.NoError(t, err)
		assert.Equal(t, 100, records[0].MaxMarks)
	})
}
