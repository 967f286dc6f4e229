package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"inventory-api/internal/cli"
	"inventory-api/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	cmd := cli.NewRootCommand(config.Load())
	err := cmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
