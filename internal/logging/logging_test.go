package logging

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/models"
	"github.com/stretchr/testify/require"
)

func TestToEntry(t *testing.T) {
	record := slog.NewRecord(time.Now(), slog.LevelError, "unhandled server error", 0)
	record.AddAttrs(
		slog.String("request_id", "req-1"),
		slog.String("method", "PUT"),
		slog.String("path", "/listings/abc"),
		slog.String("error", "boom"),
		slog.Float64("latency_ms", 12.6),
		slog.String("listing_id", "abc"),
	)

	entry := toEntry(record, []slog.Attr{slog.String("user_id", "u-1")})

	require.Equal(t, "ERROR", entry.Level)
	require.Equal(t, "unhandled server error", entry.Message)
	require.Equal(t, "req-1", entry.RequestID)
	require.Equal(t, "PUT", entry.Method)
	require.Equal(t, "/listings/abc", entry.Path)
	require.Equal(t, "boom", entry.Error)
	require.Equal(t, 13, entry.LatencyMs)
	require.NotNil(t, entry.UserID)
	require.Equal(t, "u-1", *entry.UserID)
	require.JSONEq(t, `{"listing_id":"abc"}`, string(entry.Extra))
}

type captured struct {
	mu      sync.Mutex
	batches [][]models.SystemLog
}

func (c *captured) write(batch []models.SystemLog) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches = append(c.batches, batch)
	return nil
}

func (c *captured) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, b := range c.batches {
		n += len(b)
	}
	return n
}

func TestPGHandler_OnlyErrorsAndFlushOnStop(t *testing.T) {
	sink := &captured{}
	h := newPGHandler(sink.write, 10, time.Hour)
	logger := slog.New(h)

	logger.Info("ignored")
	logger.Warn("ignored too")
	logger.Error("kept", "error", "x")
	logger.With("request_id", "r").Error("kept with attrs")

	require.False(t, h.Enabled(context.Background(), slog.LevelWarn))
	h.Stop()
	require.Equal(t, 2, sink.total())
	require.Equal(t, "r", sink.batches[0][1].RequestID)
}

func TestPGHandler_FlushesFullBatch(t *testing.T) {
	sink := &captured{}
	h := newPGHandler(sink.write, 3, time.Hour)
	defer h.Stop()
	logger := slog.New(h)

	for i := 0; i < 3; i++ {
		logger.Error("boom")
	}
	require.Eventually(t, func() bool { return sink.total() == 3 }, time.Second, 10*time.Millisecond)
}

type stubHandler struct {
	level   slog.Level
	err     error
	handled int
}

func (s *stubHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= s.level }
func (s *stubHandler) Handle(context.Context, slog.Record) error {
	s.handled++
	return s.err
}
func (s *stubHandler) WithAttrs([]slog.Attr) slog.Handler { return s }
func (s *stubHandler) WithGroup(string) slog.Handler      { return s }

func TestMultiHandler(t *testing.T) {
	failing := &stubHandler{level: slog.LevelInfo, err: errors.New("disk full")}
	errorsOnly := &stubHandler{level: slog.LevelError}
	m := NewMultiHandler(failing, errorsOnly)

	require.NoError(t, m.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelDebug, "x", 0)))

	err := m.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelError, "x", 0))
	require.ErrorContains(t, err, "disk full")
	require.Equal(t, 1, failing.handled)
	require.Equal(t, 1, errorsOnly.handled)

	require.True(t, m.Enabled(context.Background(), slog.LevelInfo))
	require.False(t, m.Enabled(context.Background(), slog.LevelDebug))
}
