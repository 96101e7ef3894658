package main

import (
	"os"

	"mod-manifest-resolver/cmd"
	"mod-manifest-resolver/logger"

	_ "go.uber.org/automaxprocs/maxprocs"
)

func main() {
	logger.InitLogger(os.Getenv("LOG_FILE")) // Initialize the logger first
	defer logger.Sync()                      // Ensure logs are flushed on exit
	cmd.Execute()
}
