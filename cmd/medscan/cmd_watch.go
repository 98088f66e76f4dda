// This file provides the watch command: run the scan-file drop
// directory watcher until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"medscan/internal/intake"
)

var watchDir string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a drop directory and ingest scan files as they arrive",
	Long: `Watches the configured drop directory for *.txt scan files written
by scanner stations. Each file is ingested once its writes settle and
then renamed with a .done suffix. Files already present at startup
are ingested first. Runs until SIGINT/SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		dir := cfg.Watch.Dir
		if watchDir != "" {
			dir = watchDir
		}

		svc := intake.NewService(st, logger, cfg.WorkerCount())
		w, err := intake.NewWatcher(dir, svc, logger, cfg.DebounceDuration())
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()

		fmt.Printf("Watching %s for scan files (Ctrl-C to stop)\n", dir)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case <-sigCh:
		case <-ctx.Done():
		}
		fmt.Println("Stopping watcher")
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "override the drop directory")
	rootCmd.AddCommand(watchCmd)
}
