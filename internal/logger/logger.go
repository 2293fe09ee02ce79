package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

func New() *logrus.Logger {
	return NewWithOutput(os.Stdout)
}

// NewWithOutput reads LOG_LEVEL and GO_ENV; development gets a readable text format.
func NewWithOutput(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)

	if os.Getenv("GO_ENV") == "development" {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	return l
}
