package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/graham-riches/nhl-stats-analysis/app/stats"
)

// CommonOpts contains information that is common for all commands.
type CommonOpts struct {
	Version string
}

// Set sets the common options.
func (c *CommonOpts) Set(cc CommonOpts) {
	c.Version = cc.Version
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(context.Background())
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() { // catch signal and invoke graceful termination
		defer signal.Stop(stop)
		select {
		case sig := <-stop:
			log.Printf("[WARN] caught signal: %s", sig)
			cancel(fmt.Errorf("caught signal: %s", sig))
		case <-ctx.Done():
		}
	}()
	return ctx, func() { cancel(context.Canceled) }
}

// logDiagnostics logs every diagnostic at the given level.
func logDiagnostics(level string, diags stats.Diagnostics) {
	for _, d := range diags {
		log.Printf("[%s] %s", level, d)
	}
}
