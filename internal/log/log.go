package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

func InitLogs(level logrus.Level) *logrus.Logger {
	log := logrus.New()

	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	log.SetReportCaller(level >= logrus.DebugLevel)

	return log
}
