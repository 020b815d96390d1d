package report

import (
	"context"
	"time"
)

// Record is one finished scheduled upload.
type Record struct {
	Time   time.Time
	Job    string
	Name   string
	FileID string
	Link   string
	Err    error
}

type Repository interface {
	AppendUpload(ctx context.Context, rec Record) error
}
