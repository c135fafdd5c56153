package sqlxrepos

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/mitihani/core"
	"github.com/trezcool/mitihani/core/exam"
)

var (
	classOrderingFields   = []string{"name", "section", "created_at"}
	subjectOrderingFields = []string{"name", "created_at"}

	defaultClassOrdering   = []core.DBOrdering{{Field: "name", Ascending: true}, {Field: "section", Ascending: true}}
	defaultSubjectOrdering = []core.DBOrdering{{Field: "name", Ascending: true}}
)

const insertExamQuery = `
	INSERT INTO exams (name, exam_date, exam_time, max_marks, class_id, subject_id)
	VALUES (:name, :exam_date, :exam_time, :max_marks, :class_id, :subject_id)`

type examRepository struct {
	db core.DB
}

var _ exam.Repository = (*examRepository)(nil) // interface compliance check

func NewExamRepository(db core.DB) exam.Repository {
	return &examRepository{db: db}
}

func orderBy(orderings []core.DBOrdering, fallback []core.DBOrdering, allowed ...string) string {
	orderings = core.FilterOrderings(orderings, allowed...)
	if len(orderings) == 0 {
		orderings = fallback
	}
	clauses := make([]string, 0, len(orderings)+1)
	for _, ord := range orderings {
		clauses = append(clauses, ord.String())
	}
	clauses = append(clauses, "id ASC")
	return " ORDER BY " + strings.Join(clauses, ", ")
}

func (repo examRepository) ListClasses(ctx context.Context, ordering ...core.DBOrdering) ([]exam.Class, error) {
	q := "SELECT id, name, section FROM classes" + orderBy(ordering, defaultClassOrdering, classOrderingFields...)
	classes := make([]exam.Class, 0)
	if err := repo.db.SelectContext(ctx, &classes, q); err != nil {
		return nil, errors.Wrap(err, "selecting classes")
	}
	return classes, nil
}

func (repo examRepository) ListSubjects(ctx context.Context, ordering ...core.DBOrdering) ([]exam.Subject, error) {
	q := "SELECT id, name FROM subjects" + orderBy(ordering, defaultSubjectOrdering, subjectOrderingFields...)
	subjects := make([]exam.Subject, 0)
	if err := repo.db.SelectContext(ctx, &subjects, q); err != nil {
		return nil, errors.Wrap(err, "selecting subjects")
	}
	return subjects, nil
}

// InsertExams inserts all records in one transaction.
func (repo examRepository) InsertExams(ctx context.Context, records []exam.Record) (err error) {
	if len(records) == 0 {
		return nil
	}
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareNamedContext(ctx, insertExamQuery)
	if err != nil {
		return errors.Wrap(err, "preparing exam insert")
	}
	defer func() { _ = stmt.Close() }()

	for i, rec := range records {
		if _, err = stmt.ExecContext(ctx, rec); err != nil {
			return errors.Wrapf(err, "inserting exam %d of %d", i+1, len(records))
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "committing exams")
	}
	return nil
}
