// Command kiptrack runs one-off ledger maintenance against the configured backend.
package main

import (
	"os"

	"github.com/cnds86/kiptrack/internal/logger"
)

func main() {
	logger.Init(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	if err := newRootCmd(openFromEnv).Execute(); err != nil {
		logger.Get().Errorf("kiptrack: %v", err)
		os.Exit(1)
	}
}
