package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/gitree/internal/cli"
	"github.com/temirov/gitree/internal/utils"
)

// main is the entry point for the gitree command.
func main() {
	logLevel := zap.NewAtomicLevelAt(zap.InfoLevel)
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(logLevel)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(loggerInstance, logLevel); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage, zap.Error(applicationExecutionError))
	}
}
