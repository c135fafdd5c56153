package testutil

import (
	"testing"
	"time"

	"github.com/trezcool/mitihani/core"
	"github.com/trezcool/mitihani/core/exam"
	logsvc "github.com/trezcool/mitihani/services/logger"
	"github.com/trezcool/mitihani/storage/database/dummy"
)

// Catalog is the classes & subjects fixture every test database is seeded with.
func Catalog() exam.Catalog {
	return exam.Catalog{
		Classes: []exam.Class{
			{ID: "c1", Name: "Grade 7", Section: "A"},
			{ID: "c2", Name: "Grade 7", Section: "B"},
			{ID: "c3", Name: "Grade 8"},
		},
		Subjects: []exam.Subject{
			{ID: "s1", Name: "Mathematics"},
			{ID: "s2", Name: "English"},
			{ID: "s3", Name: "Science"},
		},
	}
}

// Config returns a TEST configuration without reading the environment.
func Config() *core.Config {
	return &core.Config{
		Env:       "TEST",
		TestMode:  true,
		AppName:   "Mitihani",
		Build:     "test",
		SecretKey: "secret",
		Server: core.ServerConfig{
			JWTExpirationDelta: 10 * time.Minute,
			DisableReqLogs:     true,
		},
		Wizard: core.WizardConfig{
			SessionTTL:      time.Hour,
			JanitorInterval: time.Minute,
			CommitTimeout:   5 * time.Second,
			DefaultMaxMarks: 100,
		},
	}
}

// PrepareDB opens a dummy database seeded with Catalog.
func PrepareDB(t *testing.T) *dummydb.DB {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	db.Seed(Catalog())
	return db
}

// NewService builds an exam.Service on top of db, logging nowhere.
func NewService(db *dummydb.DB, conf *core.Config) (*exam.Service, *exam.Sessions) {
	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	exam.InitValidators(validate, translator)

	sessions := exam.NewSessions(conf.Wizard.SessionTTL)
	svc := exam.NewService(
		dummydb.NewExamRepository(db),
		sessions,
		validate,
		translator,
		logsvc.NewNopLogger(),
		conf,
	)
	return svc, sessions
}

// Date parses a YYYY-MM-DD date or fails the test.
func Date(t *testing.T, s string) exam.Date {
	d, err := exam.ParseDate(s)
	if err != nil {
		t.Fatalf("Date(%q) failed: %v", s, err)
	}
	return d
}
