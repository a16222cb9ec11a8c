package processor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/acrelle/dataproc/internal/domain"
)

// ErrNotDirectory indicates that a scan target does not exist or is not a
// directory.
var ErrNotDirectory = errors.New("path is not a directory")

// ScanDirectory recursively walks dir and returns the number of regular
// files found. A missing path or a path that is not a directory returns an
// error wrapping ErrNotDirectory.
func (p *Processor) ScanDirectory(ctx context.Context, dir string) (int, error) {
	info, err := os.Stat(dir)
	if err != nil {
		p.logger.Error("failed to stat scan target",
			"error", err,
			"path", dir)
		wrapped := fmt.Errorf("%w: %s", ErrNotDirectory, dir)
		p.recordFailure(ctx, domain.OperationDirectory, wrapped)
		return 0, wrapped
	}
	if !info.IsDir() {
		p.logger.Error("scan target is not a directory", "path", dir)
		wrapped := fmt.Errorf("%w: %s", ErrNotDirectory, dir)
		p.recordFailure(ctx, domain.OperationDirectory, wrapped)
		return 0, wrapped
	}

	count := 0
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.Type().IsRegular() {
			p.logger.Debug("found file", "path", path)
			count++
		}
		return nil
	})
	if err != nil {
		p.logger.Error("directory scan failed",
			"error", err,
			"path", dir)
		wrapped := NewProcessorError("scan_directory", fmt.Sprintf("failed to walk %s", dir), err)
		p.recordFailure(ctx, domain.OperationDirectory, wrapped)
		return 0, wrapped
	}

	p.logger.Info("scanned directory",
		"path", dir,
		"file_count", count)
	p.recordSuccess(ctx, domain.OperationDirectory,
		fmt.Sprintf("scanned %s: %d files", dir, count))

	return count, nil
}
