package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/clinisearch/go-context-search/internal/cli"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := cli.Execute(); err != nil {
		logrus.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}
