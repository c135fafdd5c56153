package dummydb

import (
	"sync"

	"github.com/trezcool/mitihani/core/exam"
)

type (
	DB struct {
		class   *classTable
		subject *subjectTable
		exam    *examTable
	}

	classTable struct {
		sync.RWMutex
		rows []exam.Class
	}

	subjectTable struct {
		sync.RWMutex
		rows []exam.Subject
	}

	examTable struct {
		sync.RWMutex
		rows     []exam.Record
		failErr  error  // returned by the next inserts while set
		calls    int    // InsertExams calls, successful or not
		onInsert func() // run at the start of every InsertExams call
	}
)

func Open() (*DB, error) {
	db := &DB{
		class:   &classTable{rows: make([]exam.Class, 0)},
		subject: &subjectTable{rows: make([]exam.Subject, 0)},
		exam:    &examTable{rows: make([]exam.Record, 0)},
	}
	return db, nil
}

// Seed replaces the catalogue tables.
func (db *DB) Seed(catalog exam.Catalog) {
	db.class.Lock()
	db.class.rows = append([]exam.Class(nil), catalog.Classes...)
	db.class.Unlock()

	db.subject.Lock()
	db.subject.rows = append([]exam.Subject(nil), catalog.Subjects...)
	db.subject.Unlock()
}

// FailInserts makes exam inserts fail with err until called again with nil.
func (db *DB) FailInserts(err error) {
	db.exam.Lock()
	defer db.exam.Unlock()
	db.exam.failErr = err
}

// Exams returns a copy of the stored exam records.
func (db *DB) Exams() []exam.Record {
	db.exam.RLock()
	defer db.exam.RUnlock()
	return append([]exam.Record(nil), db.exam.rows...)
}

// OnInsert runs fn at the start of every exam insert. Pass nil to remove it.
func (db *DB) OnInsert(fn func()) {
	db.exam.Lock()
	defer db.exam.Unlock()
	db.exam.onInsert = fn
}

// InsertCalls counts the exam inserts attempted so far.
func (db *DB) InsertCalls() int {
	db.exam.RLock()
	defer db.exam.RUnlock()
	return db.exam.calls
}
