// Package main starts the funeral-services admin dashboard and handles
// termination.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	dashboardcmd "github.com/chistayaaa/afs-dashboard/internal/cmd/dashboard"
	"github.com/chistayaaa/afs-dashboard/internal/platform/config"
)

func main() {
	cfg, err := dashboardcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	config.ExitOnError(err, "parse flags")
	log.SetPrefix("[DASHBOARD] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dashboardcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
