package bundle

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
)

// Archive writes a zip of src's full contents to dest at maximum compression
// and returns the size of the archive on disk.
//
// Entry names are relative to src; src itself is not part of the names.
// The size is taken after the file has been synced and closed, so callers
// never observe a truncated archive. On failure the partial archive is removed.
func Archive(ctx context.Context, fsys afero.Fs, src, dest string) (int64, error) {
	info, err := fsys.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", src, err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%s is not a directory", src)
	}

	f, err := fsys.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("creating archive %s: %w", dest, err)
	}

	if err := writeArchive(ctx, fsys, src, dest, f); err != nil {
		f.Close()
		_ = fsys.Remove(dest)
		return 0, err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		_ = fsys.Remove(dest)
		return 0, fmt.Errorf("flushing archive %s: %w", dest, err)
	}
	if err := f.Close(); err != nil {
		_ = fsys.Remove(dest)
		return 0, fmt.Errorf("closing archive %s: %w", dest, err)
	}

	out, err := fsys.Stat(dest)
	if err != nil {
		return 0, fmt.Errorf("reading archive size: %w", err)
	}
	return out.Size(), nil
}

func writeArchive(ctx context.Context, fsys afero.Fs, src, dest string, w io.Writer) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	destAbs, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("resolving archive path %s: %w", dest, err)
	}

	err = afero.Walk(fsys, src, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("walking %s: %w", path, walkErr)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == src {
			return nil
		}
		// The archive may be written inside the tree it packs.
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", path, err)
		}
		if abs == destAbs {
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("relativizing %s: %w", path, err)
		}
		name := filepath.ToSlash(rel)

		switch {
		case info.IsDir():
			return addDir(zw, name, info)
		case info.Mode().IsRegular():
			return addFile(fsys, zw, path, name, info)
		default:
			// Symlinks and special files are not bundled.
			return nil
		}
	})
	if err != nil {
		zw.Close()
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	return nil
}

func addDir(zw *zip.Writer, name string, info os.FileInfo) error {
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("building header for %s: %w", name, err)
	}
	hdr.Name = name + "/"
	hdr.Method = zip.Store
	if _, err := zw.CreateHeader(hdr); err != nil {
		return fmt.Errorf("adding directory %s: %w", name, err)
	}
	return nil
}

func addFile(fsys afero.Fs, zw *zip.Writer, path, name string, info os.FileInfo) error {
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("building header for %s: %w", name, err)
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	entry, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("adding %s: %w", name, err)
	}

	in, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer in.Close()

	if _, err := io.Copy(entry, in); err != nil {
		return fmt.Errorf("compressing %s: %w", name, err)
	}
	return nil
}
