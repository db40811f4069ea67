package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/callsight-lab/callsight/pkg/cli"
	"github.com/callsight-lab/callsight/pkg/utils/logging"
)

var version = "dev"

func main() {
	// A missing .env file is fine; flags and the environment still apply
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logging.Default().Warn("failed to load .env file", "error", err.Error())
	}

	if err := cli.Run(context.Background(), os.Args, version); err != nil {
		os.Exit(1)
	}
}
