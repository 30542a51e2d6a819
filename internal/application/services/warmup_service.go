package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// WarmupService runs the one-shot startup cache warm-up in the background
// so the first interactive request is not blocked on the initial load. The
// outcome is reported through a status file rather than shared session
// state; the interactive layer reads it once and deletes it.
type WarmupService struct {
	datasets   *DatasetService
	statusFile string
}

// NewWarmupService creates a new warmup service
func NewWarmupService(datasets *DatasetService, statusFile string) *WarmupService {
	return &WarmupService{datasets: datasets, statusFile: statusFile}
}

// Start launches the warm-up goroutine and returns immediately
func (s *WarmupService) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *WarmupService) run(ctx context.Context) {
	log.Info().Msg("starting background data warm-up")

	loaded := s.datasets.Preload(ctx)
	if len(loaded) == 0 {
		s.writeStatus("❌ Data loading process failed: no datasets could be loaded")
		return
	}
	s.writeStatus(fmt.Sprintf("✅ Data loading complete: %d datasets loaded and cached", len(loaded)))
}

func (s *WarmupService) writeStatus(msg string) {
	if s.statusFile == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.statusFile), 0o755); err != nil {
		log.Warn().Err(err).Msg("failed to create status file directory")
		return
	}
	if err := os.WriteFile(s.statusFile, []byte(msg), 0o644); err != nil {
		log.Warn().Err(err).Str("path", s.statusFile).Msg("failed to write warm-up status file")
		return
	}
	log.Info().Str("status", msg).Msg("warm-up finished")
}

// ConsumeStatus reads the status line once and removes the file.
// Returns ("", false) when no status is pending.
func (s *WarmupService) ConsumeStatus() (string, bool) {
	if s.statusFile == "" {
		return "", false
	}
	data, err := os.ReadFile(s.statusFile)
	if err != nil {
		return "", false
	}
	// Deletion failure is harmless, the file is a convenience artifact
	_ = os.Remove(s.statusFile)
	return string(data), true
}
