// Package logging configures the process-wide logrus logger.
package logging

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

func init() {
	logrus.SetOutput(os.Stdout)
	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat:        time.RFC3339Nano,
		DisableColors:          true,
		DisableLevelTruncation: true,
		ForceQuote:             true,
		FullTimestamp:          true,
	})
}

// SetLevel parses and applies a log level name such as "debug".
func SetLevel(level string) (err error) {
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return
	}
	logrus.SetLevel(logLevel)
	logrus.Debugf("log level set to: %s", level)
	return
}
