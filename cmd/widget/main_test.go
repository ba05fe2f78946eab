package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunUntilInterruptedReturnsSessionError(t *testing.T) {
	want := errors.New("boom")
	stopped := false
	err := runUntilInterrupted(context.Background(), func() { stopped = true }, func() error { return want })
	assert.ErrorIs(t, err, want)
	assert.False(t, stopped)
}

func TestRunUntilInterruptedGivesUpOnStuckSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	release := make(chan struct{})
	defer close(release)
	stopped := false

	start := time.Now()
	err := runUntilInterrupted(ctx, func() { stopped = true }, func() error {
		<-release
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, stopped, "default signal handling is restored")
	assert.Less(t, time.Since(start), interruptGrace+time.Second)
}
