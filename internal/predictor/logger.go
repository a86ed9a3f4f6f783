package predictor

import "github.com/sirupsen/logrus"

// Logger is the subset of logrus that the predictor uses. A *logrus.Logger
// satisfies it directly.
type Logger interface {
	Printf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	WithError(err error) *logrus.Entry
}
