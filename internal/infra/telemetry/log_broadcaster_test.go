package telemetry

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogBroadcasterPublishesEntries(t *testing.T) {
	b := NewLogBroadcaster(zapcore.InfoLevel)
	logger := zap.New(b.Core()).Named("ui").With(SessionIDField("s1"))

	ctx, cancel := context.WithCancel(context.Background())
	ch := b.Subscribe(ctx)

	logger.Debug("hidden")
	logger.Info("catalog loaded", EventField(EventCatalogLoaded))

	select {
	case entry := <-ch:
		require.Equal(t, "ui", entry.Logger)
		require.Equal(t, "info", entry.Level)
		var data struct {
			Message string         `json:"message"`
			Fields  map[string]any `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(entry.Data, &data))
		require.Equal(t, "catalog loaded", data.Message)
		require.Equal(t, "s1", data.Fields[FieldSessionID])
		require.Equal(t, EventCatalogLoaded, data.Fields[FieldEvent])
	case <-time.After(time.Second):
		t.Fatal("no log entry")
	}

	cancel()
	require.Eventually(t, func() bool {
		_, ok := <-ch
		return !ok
	}, time.Second, 10*time.Millisecond)
}
