package main

import (
	"context"
	"log"
	"os"

	"github.com/trezcool/mitihani/core"
	"github.com/trezcool/mitihani/core/exam"
	logsvc "github.com/trezcool/mitihani/services/logger"
	"github.com/trezcool/mitihani/storage/database"
	sqlxrepos "github.com/trezcool/mitihani/storage/database/sqlx"
)

func main() {
	stdLogger := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	logger, err := logsvc.New(conf)
	if err != nil {
		stdLogger.Fatal(err)
	}

	// set up DB
	db, err := database.Open(context.Background(), conf)
	if err != nil {
		stdLogger.Fatal(err)
	}

	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	exam.InitValidators(validate, translator)

	examSvc := exam.NewService(
		sqlxrepos.NewExamRepository(db),
		exam.NewSessions(conf.Wizard.SessionTTL),
		validate,
		translator,
		logger,
		conf,
	)

	// start CLI
	cli := commandLine{
		db:       db,
		examSvc:  examSvc,
		operator: core.Operator{ID: "admin-cli", Username: os.Getenv("USER")},
		out:      os.Stdout,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			stdLogger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
