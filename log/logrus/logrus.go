package logrus

import (
	"github.com/harborvale/offcache"
	"github.com/sirupsen/logrus"
)

type LogrusLogger struct{ E *logrus.Entry }

var _ offcache.Logger = LogrusLogger{}

func (l LogrusLogger) Debug(msg string, f offcache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}
func (l LogrusLogger) Info(msg string, f offcache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Info(msg)
}
func (l LogrusLogger) Warn(msg string, f offcache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Warn(msg)
}
func (l LogrusLogger) Error(msg string, f offcache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
