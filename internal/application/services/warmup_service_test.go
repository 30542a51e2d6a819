package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarmupWritesSuccessStatus(t *testing.T) {
	reader := &countingReader{}
	svc, _, _, _ := newTestDatasetService(t, reader)
	statusFile := filepath.Join(t.TempDir(), "status", "data_auto_update_status.txt")

	warmup := NewWarmupService(svc, statusFile)
	warmup.run(context.Background())

	data, err := os.ReadFile(statusFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "✅")
}

func TestWarmupWritesFailureStatus(t *testing.T) {
	reader := &countingReader{fail: true}
	svc, _, _, _ := newTestDatasetService(t, reader)
	statusFile := filepath.Join(t.TempDir(), "status.txt")

	warmup := NewWarmupService(svc, statusFile)
	warmup.run(context.Background())

	data, err := os.ReadFile(statusFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "❌")
}

func TestWarmupConsumeStatusIsOneShot(t *testing.T) {
	reader := &countingReader{}
	svc, _, _, _ := newTestDatasetService(t, reader)
	statusFile := filepath.Join(t.TempDir(), "status.txt")

	warmup := NewWarmupService(svc, statusFile)
	warmup.run(context.Background())

	msg, ok := warmup.ConsumeStatus()
	assert.True(t, ok)
	assert.NotEmpty(t, msg)

	_, ok = warmup.ConsumeStatus()
	assert.False(t, ok)
}

func TestWarmupStartIsAsynchronous(t *testing.T) {
	reader := &countingReader{}
	svc, _, _, _ := newTestDatasetService(t, reader)
	statusFile := filepath.Join(t.TempDir(), "status.txt")

	warmup := NewWarmupService(svc, statusFile)
	warmup.Start(context.Background())

	assert.Eventually(t, func() bool {
		_, err := os.Stat(statusFile)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
}
