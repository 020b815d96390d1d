package report

import (
	"context"
	"gsuitetool/internal/gdrive"
	"time"

	"go.uber.org/zap"
)

type ServiceReport struct {
	logger     *zap.Logger
	repository Repository
	now        func() time.Time
}

func NewServiceReport(logger *zap.Logger, repository Repository) *ServiceReport {
	return &ServiceReport{
		logger:     logger,
		repository: repository,
		now:        time.Now,
	}
}

// RecordUpload stores the outcome of one scheduled upload. uploadErr is the upload's own
// failure, if any; the returned error is about writing the record.
func (s *ServiceReport) RecordUpload(ctx context.Context, job string, info gdrive.FileInfo, uploadErr error) error {
	s.logger.Debug("recording upload", zap.String("service", "report"), zap.String("job", job))

	rec := Record{
		Time:   s.now().UTC(),
		Job:    job,
		Name:   info.Name,
		FileID: info.ID,
		Link:   info.WebViewLink,
		Err:    uploadErr,
	}
	if err := s.repository.AppendUpload(ctx, rec); err != nil {
		s.logger.Error("Failed to record upload", zap.Error(err))
		return err
	}
	return nil
}
