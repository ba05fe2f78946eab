// Command widget runs the appointment booking screen in a terminal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wolfman30/clinic-booking-widget/internal/app/bootstrap"
	appconfig "github.com/wolfman30/clinic-booking-widget/internal/config"
	"github.com/wolfman30/clinic-booking-widget/internal/prompt"
	"github.com/wolfman30/clinic-booking-widget/internal/widget"
	"github.com/wolfman30/clinic-booking-widget/pkg/logging"
)

// interruptGrace bounds how long an interrupted session may take to unwind
// when a confirmation prompt is still waiting on stdin.
const interruptGrace = 500 * time.Millisecond

func main() {
	cfg := appconfig.Load()

	// stdout belongs to the prompts
	logger := logging.NewWithWriter(cfg.LogLevel, "text", os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	blobs, closeBlobs, err := bootstrap.BuildBlobStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build snapshot store", "error", err)
		os.Exit(1)
	}
	defer closeBlobs()

	svc := bootstrap.BuildBookingService(ctx, cfg, blobs, logger)
	term := prompt.NewTerminal(os.Stdin, os.Stdout)
	w := widget.New(svc, term, cfg.Doctors, logger)

	if err := runUntilInterrupted(ctx, stop, func() error { return w.Run(ctx, term, os.Stdout) }); err != nil {
		logger.Error("widget stopped", "error", err)
		closeBlobs()
		os.Exit(1)
	}
}

// runUntilInterrupted runs the session and returns once it finishes or ctx
// is done. After the first interrupt the default signal handling is
// restored, so a second one kills the process.
func runUntilInterrupted(ctx context.Context, stop func(), run func() error) error {
	done := make(chan error, 1)
	go func() { done <- run() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
	}
	stop()
	select {
	case err := <-done:
		return err
	case <-time.After(interruptGrace):
		return nil
	}
}
