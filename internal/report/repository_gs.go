package report

import (
	"context"
	"fmt"
	"gsuitetool/config"
	"time"

	"go.uber.org/zap"
)

const (
	statusOK     = "ok"
	statusFailed = "failed"
)

// Appender is the part of the spreadsheet client the repository writes through.
type Appender interface {
	AppendRows(ctx context.Context, spreadsheetID, r string, values [][]interface{}) error
}

type RepositoryReport struct {
	logger *zap.Logger
	cfg    config.Report
	client Appender
}

func NewRepositoryReport(logger *zap.Logger, cfg config.Report, client Appender) *RepositoryReport {
	return &RepositoryReport{
		logger: logger,
		cfg:    cfg,
		client: client,
	}
}

// AppendUpload writes rec as one row: time, job, status, name, file ID, link, error.
func (r *RepositoryReport) AppendUpload(ctx context.Context, rec Record) error {
	status, errText := statusOK, ""
	if rec.Err != nil {
		status, errText = statusFailed, rec.Err.Error()
	}

	values := [][]interface{}{{
		rec.Time.Format(time.RFC3339),
		rec.Job,
		status,
		rec.Name,
		rec.FileID,
		rec.Link,
		errText,
	}}

	if err := r.client.AppendRows(ctx, r.cfg.SpreadsheetId, r.cfg.Range, values); err != nil {
		return fmt.Errorf("unable to write upload report: %w", err)
	}

	r.logger.Debug("successfully wrote upload report", zap.String("job", rec.Job))
	return nil
}
