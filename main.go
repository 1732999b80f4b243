package main

import (
	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/imagerefresh/cmd"
)

// init configures the initial logging level for imagerefresh.
//
// It sets logrus to InfoLevel by default, ensuring basic operational logs
// are visible unless overridden by flags like --log-level in cmd.
func init() {
	logrus.SetLevel(logrus.InfoLevel)
}

// main serves as the entry point for the imagerefresh application.
//
// It delegates execution to the cmd package, which handles CLI setup,
// flag parsing, and the image refresh workflow.
func main() {
	cmd.Execute()
}
