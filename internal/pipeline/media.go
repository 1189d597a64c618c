package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var mediaExts = []string{".mp3", ".wav", ".m4a", ".mp4", ".mov", ".mkv", ".webm"}

func (p *implPipeline) isMedia(path string) bool {
	if !p.cfg.Media.Enabled {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range mediaExts {
		if ext == e {
			return true
		}
	}
	return false
}

// transcribeMedia extracts 16 kHz mono audio with ffmpeg and runs whisper.cpp
// on it. It returns the SRT path inside a temp directory the caller removes.
func (p *implPipeline) transcribeMedia(ctx context.Context, mediaPath string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "digest-media-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	audioPath := filepath.Join(tmpDir, base+".wav")
	done := false
	defer func() {
		if !done {
			p.cleanupTemp(ctx, tmpDir)
		}
	}()

	p.logger.Info(ctx, "Extracting audio: %s", mediaPath)
	args := []string{
		"-i", mediaPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		audioPath,
	}
	if _, err := p.executor.Execute(ctx, p.cfg.Media.FFmpegBinary, args...); err != nil {
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	outputPrefix := strings.TrimSuffix(audioPath, ".wav")
	p.logger.Info(ctx, "Transcribing with %d threads: %s", p.cfg.Media.Threads, audioPath)
	args = []string{
		"-m", p.cfg.Media.ModelPath,
		"-f", audioPath,
		"-osrt",
		"-l", p.cfg.Media.Language,
		"-t", strconv.Itoa(p.cfg.Media.Threads),
		"--output-file", outputPrefix,
	}
	if p.cfg.Media.Prompt != "" {
		args = append(args, "--prompt", p.cfg.Media.Prompt)
	}
	if _, err := p.executor.Execute(ctx, p.cfg.Media.WhisperBinary, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}

	srtPath := outputPrefix + ".srt"
	done = true
	p.logger.Info(ctx, "Transcription completed: %s", srtPath)
	return srtPath, nil
}
