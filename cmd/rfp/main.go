// rfp evaluates industrial cable RFPs: qualification, technical matching,
// pricing and advisory, ending in a consolidated bid.
//
// Usage:
//
//	rfp evaluate testdata/rfps/RFP-GOV-2025-001.yaml
//	rfp batch 'inbox/**/*.yaml' --workers 8
//	rfp resume <run-id>
//	rfp bids --outcome Escalated
//	rfp serve --addr :8080
//	rfp rates --watch
//	rfp catalog
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
