package worker

import (
	"context"
	"errors"
	"fmt"
	"gsuitetool/config"
	"gsuitetool/internal/gdrive"

	"go.uber.org/zap"
)

type Uploader interface {
	UploadFile(ctx context.Context, filePath, fileName, parentID string) (gdrive.FileInfo, error)
}

// Recorder keeps a log of finished uploads.
type Recorder interface {
	RecordUpload(ctx context.Context, job string, info gdrive.FileInfo, uploadErr error) error
}

type Worker struct {
	logger   *zap.Logger
	uploader Uploader
	recorder Recorder
	uploads  []config.Upload
}

// NewWorker builds a worker for cfg.Uploads. recorder may be nil.
func NewWorker(
	logger *zap.Logger,
	uploader Uploader,
	recorder Recorder,
	cfg config.Config,
) *Worker {
	return &Worker{
		logger:   logger,
		uploader: uploader,
		recorder: recorder,
		uploads:  cfg.Uploads,
	}
}

func (w *Worker) Jobs() []config.Upload {
	return w.uploads
}

// Process uploads one configured file. A job without a folder URL goes to the
// uploader's default folder.
func (w *Worker) Process(ctx context.Context, job config.Upload) error {
	var parentID string
	if job.FolderUrl != "" {
		id, err := gdrive.URLToID(job.FolderUrl)
		if err != nil {
			return fmt.Errorf("upload %q: %w", job.Name, err)
		}
		parentID = id
	}

	info, err := w.uploader.UploadFile(ctx, job.FilePath, job.FileName, parentID)
	w.record(ctx, job, info, err)
	if err != nil {
		return fmt.Errorf("upload %q: %w", job.Name, err)
	}

	w.logger.Info("Upload finished",
		zap.String("job", job.Name),
		zap.String("id", info.ID),
		zap.String("name", info.Name),
	)
	return nil
}

// ProcessAllUploads runs every job once, continuing past failures. The returned error
// joins every failure.
func (w *Worker) ProcessAllUploads(ctx context.Context) error {
	var errs []error
	for _, job := range w.uploads {
		w.logger.Info("Processing upload", zap.String("name", job.Name))

		if err := w.Process(ctx, job); err != nil {
			w.logger.Error("Failed to upload", zap.String("job", job.Name), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// record failures are logged only; the upload outcome stands.
func (w *Worker) record(ctx context.Context, job config.Upload, info gdrive.FileInfo, uploadErr error) {
	if w.recorder == nil {
		return
	}
	if err := w.recorder.RecordUpload(ctx, job.Name, info, uploadErr); err != nil {
		w.logger.Warn("Upload not recorded", zap.String("job", job.Name), zap.Error(err))
	}
}
