// Jira Notify - daily reminder to book working hours in Tempo.
//
// Build with version information:
//
//	go build -ldflags "-X github.com/keepgenius/jira-notify/internal/version.Version=v0.3.0 \
//	  -X github.com/keepgenius/jira-notify/internal/version.BuildTime=$(date -u +%Y-%m-%d)"
package main

import (
	"fmt"
	"os"

	"github.com/keepgenius/jira-notify/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
