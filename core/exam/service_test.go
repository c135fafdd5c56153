package exam_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mitihani/core"
	"github.com/trezcool/mitihani/core/exam"
	"github.com/trezcool/mitihani/tests"
)

var operator = core.Operator{ID: "7", Username: "principal", Email: "principal@test.cd"}

// walk drives the session to step 6 in the given mode.
func walk(t *testing.T, svc *exam.Service, id string, mode exam.Mode, start, end string) exam.Wizard {
	t.Helper()
	check := func(w exam.Wizard, err error) exam.Wizard {
		t.Helper()
		require.NoError(t, err)
		return w
	}
	params := exam.Parameters{
		Name:      "Mid-Term Examination",
		Term:      "Term 1",
		StartDate: testutil.Date(t, start),
		EndDate:   testutil.Date(t, end),
		MaxMarks:  60,
	}
	check(svc.SetParameters(id, params))
	check(svc.Next(id))
	check(svc.SelectClasses(id, []string{"c1", "c2"}))
	check(svc.Next(id))
	check(svc.ChooseMode(id, mode))
	check(svc.Next(id))
	if mode == exam.ModeManual {
		check(svc.SetSlots(id, exam.DefaultSlots()))
	}
	check(svc.Next(id))
	check(svc.SetClassSubjects(id, "c1", []string{"s1", "s3"}))
	check(svc.SetClassSubjects(id, "c2", []string{"s1"}))
	return check(svc.Next(id))
}

func TestService_Open(t *testing.T) {
	db := testutil.PrepareDB(t)
	svc, _ := testutil.NewService(db, testutil.Config())

	id, w, err := svc.Open(context.Background(), operator)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, exam.StepParameters, w.Step())
	assert.Equal(t, testutil.Catalog(), w.Catalog())
	assert.Equal(t, 100, w.Form().Parameters.MaxMarks, "max marks default comes from the config")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = svc.Open(ctx, operator)
	assert.Error(t, err)
}

func TestService_SetParameters_validation(t *testing.T) {
	db := testutil.PrepareDB(t)
	svc, _ := testutil.NewService(db, testutil.Config())
	id, _, err := svc.Open(context.Background(), operator)
	require.NoError(t, err)

	tests := []struct {
		name       string
		params     exam.Parameters
		wantFields []string
	}{
		{name: "blank name", params: exam.Parameters{Name: "   "}, wantFields: []string{"name"}},
		{name: "inverted dates", params: exam.Parameters{StartDate: testutil.Date(t, "2024-03-05"), EndDate: testutil.Date(t, "2024-03-04")}, wantFields: []string{"end_date"}},
		{name: "negative max marks", params: exam.Parameters{MaxMarks: -1}, wantFields: []string{"max_marks"}},
		{name: "partial draft is fine", params: exam.Parameters{Name: "Unit Test"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SetParameters(id, tt.params)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			require.True(t, core.IsValidationError(err), "want a validation error, got %v", err)
			vErr := errors.Cause(err).(*core.ValidationError)
			fields := make([]string, 0, len(vErr.Fields))
			for _, f := range vErr.Fields {
				fields = append(fields, f.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestService_SetSlots_validation(t *testing.T) {
	db := testutil.PrepareDB(t)
	svc, sessions := testutil.NewService(db, testutil.Config())
	id, _, err := svc.Open(context.Background(), operator)
	require.NoError(t, err)

	_, err = svc.SetSlots(id, []exam.TimeSlot{{Label: "Late", StartTime: "25:00", EndTime: "26:00"}})
	assert.True(t, core.IsValidationError(err))

	_, err = svc.SetSlots(id, []exam.TimeSlot{{Label: "Backwards", StartTime: "11:00", EndTime: "10:00"}})
	assert.True(t, core.IsValidationError(err))

	// valid slots on the wrong step
	_, err = svc.SetSlots(id, exam.DefaultSlots())
	assert.Equal(t, exam.ErrWrongStep, errors.Cause(err))
	assert.Equal(t, 1, sessions.Len())
}

func TestService_autoCommit(t *testing.T) {
	db := testutil.PrepareDB(t)
	svc, sessions := testutil.NewService(db, testutil.Config())

	var hooked []exam.Record
	svc.OnCommit(func(_ string, op core.Operator, records []exam.Record) {
		assert.Equal(t, operator, op)
		hooked = records
	})

	id, _, err := svc.Open(context.Background(), operator)
	require.NoError(t, err)
	walk(t, svc, id, exam.ModeAuto, "2024-03-04", "2024-03-08")

	w, res, err := svc.Generate(id)
	require.NoError(t, err)
	assert.True(t, res.Complete())
	// s1 for c1 & c2 on day 1, s3 for c1 on day 2
	assert.Len(t, w.Schedule(), 3)

	records, err := svc.Commit(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, records, db.Exams())
	assert.Equal(t, records, hooked)

	want := exam.Record{
		Name:      "Mid-Term Examination (Term 1)",
		ExamDate:  testutil.Date(t, "2024-03-04"),
		ExamTime:  null.StringFrom("09:30 - 11:30"),
		MaxMarks:  60,
		ClassID:   "c1",
		SubjectID: "s1",
	}
	assert.Equal(t, want, records[0])

	assert.Zero(t, sessions.Len(), "the wizard closes after commit")
	_, err = svc.Get(id)
	assert.Equal(t, exam.ErrSessionNotFound, err)
}

func TestService_manualCommit(t *testing.T) {
	db := testutil.PrepareDB(t)
	svc, _ := testutil.NewService(db, testutil.Config())

	id, _, err := svc.Open(context.Background(), operator)
	require.NoError(t, err)
	walk(t, svc, id, exam.ModeManual, "2024-03-04", "2024-03-05")

	// nothing placed yet
	_, err = svc.Commit(context.Background(), id)
	assert.Equal(t, exam.ErrNothingToSchedule, errors.Cause(err))
	assert.Zero(t, db.InsertCalls(), "no datastore call without entries")

	cell := exam.Cell{Date: testutil.Date(t, "2024-03-05"), SlotID: "2", ClassID: "c2"}
	_, err = svc.Assign(id, cell, "s1")
	require.NoError(t, err)

	records, err := svc.Commit(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "13:00 - 15:00", records[0].ExamTime.String)
}

func TestService_Commit_failure(t *testing.T) {
	db := testutil.PrepareDB(t)
	svc, sessions := testutil.NewService(db, testutil.Config())

	id, _, err := svc.Open(context.Background(), operator)
	require.NoError(t, err)
	walk(t, svc, id, exam.ModeAuto, "2024-03-04", "2024-03-08")
	_, _, err = svc.Generate(id)
	require.NoError(t, err)

	dbErr := errors.New("connection reset")
	db.FailInserts(dbErr)
	_, err = svc.Commit(context.Background(), id)
	assert.Equal(t, dbErr, errors.Cause(err))
	assert.Empty(t, db.Exams())

	// the wizard is kept as it was and can be committed again
	w, err := svc.Get(id)
	require.NoError(t, err)
	assert.Equal(t, exam.StepSchedule, w.Step())
	assert.Len(t, w.Schedule(), 3)
	assert.Equal(t, 1, sessions.Len())

	db.FailInserts(nil)
	records, err := svc.Commit(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestService_Close(t *testing.T) {
	db := testutil.PrepareDB(t)
	svc, _ := testutil.NewService(db, testutil.Config())

	id, _, err := svc.Open(context.Background(), operator)
	require.NoError(t, err)
	require.NoError(t, svc.Close(id))
	assert.Equal(t, exam.ErrSessionNotFound, svc.Close(id))

	_, err = svc.Next(id)
	assert.Equal(t, exam.ErrSessionNotFound, err)
}

func TestService_Commit_context(t *testing.T) {
	t.Run("cancelled before the commit starts", func(t *testing.T) {
		db := testutil.PrepareDB(t)
		svc, sessions := testutil.NewService(db, testutil.Config())
		id, _, err := svc.Open(context.Background(), operator)
		require.NoError(t, err)
		walk(t, svc, id, exam.ModeAuto, "2024-03-04", "2024-03-05")
		_, _, err = svc.Generate(id)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = svc.Commit(ctx, id)
		assert.Equal(t, context.Canceled, err)
		assert.Zero(t, db.InsertCalls())
		assert.Equal(t, 1, sessions.Len(), "the wizard is kept for a retry")
	})

	t.Run("caller goes away mid-commit", func(t *testing.T) {
		db := testutil.PrepareDB(t)
		svc, sessions := testutil.NewService(db, testutil.Config())
		id, _, err := svc.Open(context.Background(), operator)
		require.NoError(t, err)
		walk(t, svc, id, exam.ModeAuto, "2024-03-04", "2024-03-05")
		_, _, err = svc.Generate(id)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		db.OnInsert(cancel)

		records, err := svc.Commit(ctx, id)
		require.NoError(t, err)
		assert.Len(t, db.Exams(), len(records))
		assert.Zero(t, sessions.Len())
	})
}
