// Command aro is the CLI entrypoint wiring the runtime core together
// (§6: "CLI integration is out of scope except for two contracts the
// core relies on"). A bare shim around a cobra root command, process
// tuning applied once before Execute.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"go.uber.org/automaxprocs/maxprocs"
)

func main() {
	if _, err := maxprocs.Set(maxprocs.Logger(func(f string, a ...any) {
		logrus.WithField("component", "maxprocs").Debugf(f, a...)
	})); err != nil {
		logrus.WithError(err).Warn("failed to set GOMAXPROCS")
	}

	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
