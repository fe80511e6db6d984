// cmd/shopctl/main.go
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.WithError(err).Error("shopctl failed")
		os.Exit(1)
	}
}
