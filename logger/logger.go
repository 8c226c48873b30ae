package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"maternal-health-backend/config"
)

// RequestIDKey is the context and gin key under which the request id travels.
const RequestIDKey = "request_id"

type Fields = logrus.Fields

// New builds the process logger. Outside the test environment log lines are
// also written to a rotating file under cfg.Logging.FileDir.
func New(cfg *config.Config) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	log.SetFormatter(&formatter.Formatter{
		NoColors:        cfg.IsProduction(),
		TimestampFormat: "02 Jan 06 - 15:04:05",
		HideKeys:        false,
		CallerFirst:     true,
		CustomCallerFormatter: func(f *runtime.Frame) string {
			s := strings.Split(f.Function, ".")
			funcName := s[len(s)-1]
			return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, funcName)
		},
	})

	writers := []io.Writer{os.Stderr}
	if cfg.Environment != "test" && cfg.Logging.FileDir != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Logging.FileDir, fmt.Sprintf("app-%s.log", time.Now().Format("2006-01-02"))),
			LocalTime:  true,
			Compress:   true,
			MaxSize:    100,
			MaxAge:     7,
			MaxBackups: 3,
		})
	}

	log.SetOutput(io.MultiWriter(writers...))
	log.SetReportCaller(true)

	return log
}

type requestIDCtxKey struct{}

// ContextWithRequestID stores the request id so services can tag their logs.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDCtxKey{}, id)
}

// RequestIDFrom returns the id stored by ContextWithRequestID, or "unknown".
func RequestIDFrom(ctx context.Context) string {
	if ctx != nil {
		if id, ok := ctx.Value(requestIDCtxKey{}).(string); ok && id != "" {
			return id
		}
	}
	return "unknown"
}

// WithRequestID returns an entry tagged with the request id stored in ctx.
func WithRequestID(log logrus.FieldLogger, ctx context.Context) *logrus.Entry {
	return log.WithField(RequestIDKey, RequestIDFrom(ctx))
}
