package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/mitihani/core"
	"github.com/trezcool/mitihani/core/exam"
)

type examRepository struct {
	db *DB
}

var _ exam.Repository = (*examRepository)(nil) // interface compliance check

func NewExamRepository(db *DB) exam.Repository {
	return &examRepository{db: db}
}

func (repo *examRepository) ListClasses(ctx context.Context, ordering ...core.DBOrdering) ([]exam.Class, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.class.RLock()
	defer repo.db.class.RUnlock()

	classes := append(make([]exam.Class, 0, len(repo.db.class.rows)), repo.db.class.rows...)
	ordering = core.FilterOrderings(ordering, "name", "section")
	if len(ordering) > 0 {
		sort.SliceStable(classes, func(i, j int) bool {
			for _, ord := range ordering {
				a, b := classes[i].Name, classes[j].Name
				if ord.Field == "section" {
					a, b = classes[i].Section, classes[j].Section
				}
				if c := strings.Compare(a, b); c != 0 {
					return (c < 0) == ord.Ascending
				}
			}
			return false
		})
	}
	return classes, nil
}

func (repo *examRepository) ListSubjects(ctx context.Context, ordering ...core.DBOrdering) ([]exam.Subject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.subject.RLock()
	defer repo.db.subject.RUnlock()

	subjects := append(make([]exam.Subject, 0, len(repo.db.subject.rows)), repo.db.subject.rows...)
	if ordering = core.FilterOrderings(ordering, "name"); len(ordering) > 0 {
		asc := ordering[0].Ascending
		sort.SliceStable(subjects, func(i, j int) bool {
			if asc {
				return subjects[i].Name < subjects[j].Name
			}
			return subjects[i].Name > subjects[j].Name
		})
	}
	return subjects, nil
}

// InsertExams appends all records, or none when inserts are set to fail.
func (repo *examRepository) InsertExams(ctx context.Context, records []exam.Record) error {
	repo.db.exam.Lock()
	defer repo.db.exam.Unlock()

	repo.db.exam.calls++
	if repo.db.exam.onInsert != nil {
		repo.db.exam.onInsert()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if repo.db.exam.failErr != nil {
		return repo.db.exam.failErr
	}
	repo.db.exam.rows = append(repo.db.exam.rows, records...)
	return nil
}
