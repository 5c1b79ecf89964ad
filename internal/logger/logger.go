package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Init configures the package logger with JSON output at the given level.
// An unknown level falls back to info.
func Init(level ...string) {
	lvl := logrus.InfoLevel
	if len(level) > 0 {
		if parsed, err := logrus.ParseLevel(level[0]); err == nil {
			lvl = parsed
		}
	}

	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(lvl)
}

// SetOutput redirects log output, mostly for tests.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	return nil
}

// fields turns a flat key/value list into logrus fields. A trailing key
// without a value is kept under "!BADKEY".
func fields(kv []any) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i < len(kv); i += 2 {
		if i+1 >= len(kv) {
			f["!BADKEY"] = kv[i]
			break
		}
		key := fmt.Sprint(kv[i])
		if err, ok := kv[i+1].(error); ok {
			f[key] = err.Error()
			continue
		}
		f[key] = kv[i+1]
	}
	return f
}

func Info(msg string, kv ...any) {
	log.WithFields(fields(kv)).Info(msg)
}

func Warn(msg string, kv ...any) {
	log.WithFields(fields(kv)).Warn(msg)
}

func Error(msg string, kv ...any) {
	log.WithFields(fields(kv)).Error(msg)
}

func Errorf(format string, v ...any) {
	log.Errorf(format, v...)
}

func Debug(msg string, kv ...any) {
	log.WithFields(fields(kv)).Debug(msg)
}

func Fatalf(format string, v ...any) {
	log.Fatalf(format, v...)
}
