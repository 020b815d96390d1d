package main

import (
	"errors"
	"gsuitetool/internal/cron"
	"gsuitetool/internal/report"
	"gsuitetool/internal/worker"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the configured uploads on their cron schedules",
		Long: `Run every entry of the uploads list on its cron schedule until interrupted.

Schedules take six fields with seconds first ("0 30 8 * * *") or a descriptor
such as "@daily". With --once every upload runs a single time and the command exits.`,
		Args: cobra.NoArgs,
		RunE: runSchedule,
	}
	cmd.Flags().Bool("run-now", false, "also run every upload once at startup")
	cmd.Flags().Bool("once", false, "run every upload once and exit")
	return cmd
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	runNow, _ := cmd.Flags().GetBool("run-now")
	once, _ := cmd.Flags().GetBool("once")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if len(a.cfg.Uploads) == 0 {
		return errors.New("no uploads configured")
	}

	svc, err := a.drive(cmd.Context())
	if err != nil {
		return err
	}

	var recorder worker.Recorder
	if a.cfg.Report.SpreadsheetId != "" {
		client, err := a.sheets(cmd.Context())
		if err != nil {
			return err
		}
		repo := report.NewRepositoryReport(a.logger, a.cfg.Report, client)
		recorder = report.NewServiceReport(a.logger, repo)
	}
	w := worker.NewWorker(a.logger, svc, recorder, a.cfg)

	if once {
		return w.ProcessAllUploads(cmd.Context())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := cron.NewScheduler(a.logger, w)
	if err := s.Start(ctx, runNow); err != nil {
		return err
	}

	<-ctx.Done()
	a.logger.Info("Shutting down", zap.Error(ctx.Err()))
	s.Stop()
	return nil
}
