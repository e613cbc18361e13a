package utils

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger = logrus.New()

// appHook tags every entry with the service name. Text output gets a
// "[name]" prefix, JSON output an "app" field that log shippers can index.
type appHook struct {
	name string
	json bool
}

func (h *appHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *appHook) Fire(entry *logrus.Entry) error {
	if h.json {
		entry.Data["app"] = h.name
		return nil
	}
	entry.Message = "[" + h.name + "] " + entry.Message
	return nil
}

// InitLogger configures the shared logger from LOG_LEVEL (default info)
// and LOG_FORMAT ("text" or "json", default text).
func InitLogger(appName string) {
	configureLogger(Logger, appName, os.Stdout, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

func configureLogger(l *logrus.Logger, appName string, out io.Writer, levelStr, format string) {
	l.SetOutput(out)
	l.ReplaceHooks(make(logrus.LevelHooks))

	levelStr = strings.ToLower(strings.TrimSpace(levelStr))
	if levelStr == "" {
		levelStr = "info"
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		l.Warnf("Invalid LOG_LEVEL '%s', defaulting to INFO", levelStr)
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	asJSON := strings.EqualFold(strings.TrimSpace(format), "json")
	if asJSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	l.AddHook(&appHook{name: appName, json: asJSON})
}
