package logsvc

import (
	"log"
	"os"

	"github.com/trezcool/mitihani/core"
)

// New picks the logger for the environment: Rollbar in QA and PROD, zap everywhere else.
func New(conf *core.Config) (core.Logger, error) {
	switch conf.Env {
	case "QA", "PROD":
		std := log.New(os.Stdout, conf.AppName+" : ", log.LstdFlags|log.LUTC|log.Lshortfile)
		return NewRollbarLogger(std, conf), nil
	default:
		return NewZapLogger(conf)
	}
}
