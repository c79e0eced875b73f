// ABOUTME: CLI entrypoint for kanband, the kanban stage-transition board service.
// ABOUTME: Loads .env, then dispatches to the cobra command tree.
package main

import (
	"log"
	"os"

	"github.com/2389-research/kanban/server"
)

var version = "dev"

func main() {
	if err := server.LoadDotEnv(".env"); err != nil {
		log.Printf("component=cli action=dotenv_failed err=%v", err)
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
