package main

import (
	"github.com/joho/godotenv"

	"hubsync/internal/cli"
)

func main() {
	// Optional .env for local runs. Missing file is fine, real deployments
	// pass HUBSYNC_* through the environment.
	_ = godotenv.Load()
	cli.Execute()
}
