// Package main is the entry point for the standalone translation dispatcher
// web server.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

// those variables will be set by the build script to the correct values
var (
	version = "v0.0.0"
	commit  = "none"
)

func main() {
	Root.Version = version + "-" + commit
	if err := Root.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
