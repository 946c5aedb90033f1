// main.go

package main

import (
	"fmt"
	"os"

	"github.com/connectorops/noticesync/cmd"
	"github.com/connectorops/noticesync/pkg/logger"
	"github.com/connectorops/noticesync/pkg/telemetry"
)

func main() {
	logger.Initialize()

	if err := telemetry.Init("noticesync"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: telemetry disabled: %v\n", err)
	}

	cmd.Execute()
}
