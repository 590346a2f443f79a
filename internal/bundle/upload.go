package bundle

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Record is the document appended to the remote bundles collection.
type Record struct {
	Date time.Time `json:"date"`
	File []byte    `json:"file"`
}

// Pusher appends one document to a remote append-only collection.
type Pusher interface {
	Push(ctx context.Context, doc any) error
}

// Uploader reads a prepared archive and pushes it as a Record.
type Uploader struct {
	fs     afero.Fs
	pusher Pusher
	now    func() time.Time
	log    *zap.Logger
}

// UploaderOption configures an Uploader.
type UploaderOption func(*Uploader)

// WithClock overrides the time source used for Record.Date.
func WithClock(now func() time.Time) UploaderOption {
	return func(u *Uploader) {
		u.now = now
	}
}

// WithLogger sets the logger used for upload diagnostics.
func WithLogger(l *zap.Logger) UploaderOption {
	return func(u *Uploader) {
		u.log = l
	}
}

// NewUploader creates an Uploader reading archives from fsys.
func NewUploader(fsys afero.Fs, pusher Pusher, opts ...UploaderOption) *Uploader {
	u := &Uploader{
		fs:     fsys,
		pusher: pusher,
		now:    time.Now,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload pushes the archive at archivePath once. There is no retry.
func (u *Uploader) Upload(ctx context.Context, archivePath string) (*Record, error) {
	data, err := afero.ReadFile(u.fs, archivePath)
	if err != nil {
		return nil, fmt.Errorf("reading bundle %s: %w", archivePath, err)
	}

	rec := &Record{
		Date: u.now(),
		File: data,
	}

	start := time.Now()
	if err := u.pusher.Push(ctx, rec); err != nil {
		return nil, fmt.Errorf("pushing bundle: %w", err)
	}
	u.log.Debug("bundle pushed",
		zap.String("archive", archivePath),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return rec, nil
}
