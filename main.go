// main is the entry point of the ce CLI.
package main

import (
	"github.com/jblievremont/sonarqube/cmd"
	"github.com/jblievremont/sonarqube/internal/contract"
)

func main() {
	err := cmd.Execute()
	if shutdownErr := cmd.Shutdown(); shutdownErr != nil {
		contract.LogWarn("Shutdown failed", shutdownErr)
	}
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
