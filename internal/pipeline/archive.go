package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// moveToArchived moves a processed input into the archived folder. An
// existing file of the same name is kept and the new one gets a timestamp.
func (p *implPipeline) moveToArchived(ctx context.Context, path string) (string, error) {
	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return "", fmt.Errorf("create archived dir: %w", err)
	}

	filename := filepath.Base(path)
	destPath := filepath.Join(p.cfg.Paths.Archived, filename)
	if _, err := os.Stat(destPath); err == nil {
		ext := filepath.Ext(filename)
		stamp := time.Now().Format("20060102-150405")
		destPath = filepath.Join(p.cfg.Paths.Archived, strings.TrimSuffix(filename, ext)+"-"+stamp+ext)
	}

	p.logger.Info(ctx, "Moving to archived folder: %s -> %s", path, destPath)

	if err := os.Rename(path, destPath); err != nil {
		return "", fmt.Errorf("move to archived: %w", err)
	}
	return destPath, nil
}

// cleanupTemp removes a temporary file or directory, logs warning if fails
func (p *implPipeline) cleanupTemp(ctx context.Context, filePath string) {
	if err := os.RemoveAll(filePath); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}
