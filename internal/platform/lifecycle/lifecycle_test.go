package lifecycle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCoordinator() *Coordinator {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestStart_SetsReadyAfterHooks(t *testing.T) {
	c := newCoordinator()
	var ran atomic.Int32
	c.OnStartup("gazetteer", func(context.Context) error { ran.Add(1); return nil })
	c.OnStartup("policy", func(context.Context) error { ran.Add(1); return errors.New("missing file") })

	assert.False(t, c.Ready())
	c.Start()

	assert.True(t, c.Ready(), "failed hooks do not block readiness")
	assert.Equal(t, int32(2), ran.Load())
}

func TestShutdown_ReverseOrderAndFirstError(t *testing.T) {
	c := newCoordinator()
	var order []string
	c.OnShutdown("redis", func(context.Context) error { order = append(order, "redis"); return nil })
	c.OnShutdown("audit", func(context.Context) error { order = append(order, "audit"); return errors.New("flush failed") })

	err := c.Shutdown(time.Second)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "audit")
	assert.Equal(t, []string{"audit", "redis"}, order)
	assert.Error(t, c.Context().Err())
	assert.False(t, c.Ready())
}
