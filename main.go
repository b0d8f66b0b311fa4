package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"subito-tracker/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		utils.NewLogger().Error("%v", err)
		stop()
		os.Exit(1)
	}
}
