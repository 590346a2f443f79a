package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/jsdb-labs/jsdb/internal/branding"
	"github.com/spf13/afero"
)

// MissingPathError reports a bundle path that does not exist.
type MissingPathError struct {
	Path string
}

func (e *MissingPathError) Error() string {
	return fmt.Sprintf("Folder %s doesn't exist.", e.Path)
}

// DeployOptions control a single deploy run.
type DeployOptions struct {
	// BundlePath is the project folder to pack (usually <cwd>/.jsdb).
	BundlePath string
	// ArchivePath is where the temporary zip is written.
	ArchivePath string
	// KeepArchive leaves the zip on disk after the upload.
	KeepArchive bool
}

// Deploy packs opts.BundlePath and uploads it. Progress lines go to w.
// The archive is removed after the upload attempt unless KeepArchive is set.
func Deploy(ctx context.Context, fsys afero.Fs, opts DeployOptions, up *Uploader, w io.Writer) (err error) {
	if _, statErr := fsys.Stat(opts.BundlePath); statErr != nil {
		if errors.Is(statErr, fs.ErrNotExist) {
			return &MissingPathError{Path: opts.BundlePath}
		}
		return fmt.Errorf("checking %s: %w", opts.BundlePath, statErr)
	}

	fmt.Fprintf(w, "Bundling %s folder.\n", branding.ProjectDir())
	size, err := Archive(ctx, fsys, opts.BundlePath, opts.ArchivePath)
	if err != nil {
		return fmt.Errorf("bundling %s: %w", opts.BundlePath, err)
	}
	fmt.Fprintf(w, "Bundled %d total bytes.\n", size)

	if !opts.KeepArchive {
		defer func() {
			if rmErr := fsys.Remove(opts.ArchivePath); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) && err == nil {
				err = fmt.Errorf("removing %s: %w", opts.ArchivePath, rmErr)
			}
		}()
	}

	fmt.Fprintln(w, "Deploying Bundle.")
	if _, err := up.Upload(ctx, opts.ArchivePath); err != nil {
		return err
	}
	fmt.Fprintln(w, "Done.")
	return nil
}
