package logsvc

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trezcool/mitihani/core"
)

// ZapLogger is the structured console logger used outside of QA and PROD.
type ZapLogger struct {
	z *zap.Logger
}

var _ core.Logger = (*ZapLogger)(nil)

func NewZapLogger(conf *core.Config) (*ZapLogger, error) {
	zc := zap.NewDevelopmentConfig()
	if conf.TestMode {
		zc = zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	} else if !conf.Debug {
		zc.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	z, err := zc.Build(zap.AddCallerSkip(1), zap.Fields(zap.String("env", conf.Env)))
	if err != nil {
		return nil, err
	}
	return &ZapLogger{z: z}, nil
}

// NewNopLogger discards everything. Handy in tests.
func NewNopLogger() *ZapLogger {
	return &ZapLogger{z: zap.NewNop()}
}

// fields maps the core.Logger args (error, map[string]interface{}, core.Operator) to zap fields.
func fields(args []interface{}) []zap.Field {
	flds := make([]zap.Field, 0, len(args))
	for i, arg := range args {
		switch a := arg.(type) {
		case error:
			flds = append(flds, zap.Error(a))
		case map[string]interface{}:
			for k, v := range a {
				flds = append(flds, zap.Any(k, v))
			}
		case core.Operator:
			flds = append(flds, zap.String("operator_id", a.ID), zap.String("operator", a.Username))
		default:
			flds = append(flds, zap.Any(fmt.Sprintf("arg%d", i), a))
		}
	}
	return flds
}

func (l ZapLogger) Debug(msg string, args ...interface{}) { l.z.Debug(msg, fields(args)...) }
func (l ZapLogger) Info(msg string, args ...interface{})  { l.z.Info(msg, fields(args)...) }
func (l ZapLogger) Warn(msg string, args ...interface{})  { l.z.Warn(msg, fields(args)...) }
func (l ZapLogger) Error(msg string, args ...interface{}) { l.z.Error(msg, fields(args)...) }
func (l ZapLogger) Fatal(msg string, args ...interface{}) { l.z.Fatal(msg, fields(args)...) }

func (l ZapLogger) Sync() error {
	return l.z.Sync()
}
