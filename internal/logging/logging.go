package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a JSON logger tagged with the service name. Unknown levels fall back to info.
func New(level, service string) *logrus.Entry {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	return l.WithField("service", service)
}
