package main

import (
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/kiosk404/bioagent/internal/bioagent/cmd"
)

func main() {
	command := cmd.NewBioAgentCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
