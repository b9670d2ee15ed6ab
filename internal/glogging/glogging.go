// Package glogging wires the collection pipeline to logrus directly,
// the same way services/sanity and services/journal call the package
// logger rather than threading a logging interface through every
// function. No wrapper interface, no dependency injection: just a
// shared *logrus.Logger constructed once at startup.
package glogging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logrus.Logger configured the way the CLI entry point
// wants it: text output, RFC3339 timestamps, and — when logPath is
// non-empty — a second destination, the file at logPath, so both the
// console and that file see every line. This logger is not written into
// an archive output's GetThis.log entry, which holds only the lines the
// archive sink itself records.
func New(logPath string) (*logrus.Logger, *os.File, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.InfoLevel)

	if logPath == "" {
		return log, nil, nil
	}

	f, err := os.Create(logPath)
	if err != nil {
		return nil, nil, err
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	return log, f, nil
}
