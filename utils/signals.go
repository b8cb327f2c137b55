package utils

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func Wait() {
	exitChan := make(chan os.Signal, 1)
	signal.Notify(exitChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(exitChan)
	<-exitChan
}

// SignalContext is cancelled on interrupt or termination.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
