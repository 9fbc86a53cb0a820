package main

import (
	"fmt"
	"os"
	"time"

	"github.com/LeeDigitalWorks/filegate/cmd"

	"github.com/getsentry/sentry-go"
)

func main() {
	// DSN, environment and release come from SENTRY_DSN, SENTRY_ENVIRONMENT
	// and SENTRY_RELEASE. Without a DSN the client drops every event.
	err := sentry.Init(sentry.ClientOptions{
		SampleRate:       1.0,
		EnableTracing:    true,
		TracesSampleRate: 0.1,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "sentry.Init: %v", err)
	}
	// Flush buffered events before the program terminates.
	defer sentry.Flush(2 * time.Second)

	cmd.Execute()
}
