package monitorService

import (
	"DrowsyGuard/internal/api/monitor"
	"DrowsyGuard/internal/entity"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	mu       sync.Mutex
	statuses []entity.Status
	closed   bool
}

func (r *fakeRedis) PublishStatus(ctx context.Context, status entity.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
	return nil
}

func (r *fakeRedis) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeRedis) Texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var texts []string
	for _, s := range r.statuses {
		texts = append(texts, s.Text)
	}
	return texts
}

func TestServiceStartFormatsPhone(t *testing.T) {
	f := newFixture()
	svc := NewMonitorService(quietLogger(), f.loop, nil)

	status, err := svc.Start(context.Background(), "(987) 654-3210")
	require.NoError(t, err)
	assert.Equal(t, entity.Contact("+919876543210"), status.Contact)
	assert.Equal(t, entity.LoopRunning, status.State)

	status = svc.Stop(context.Background())
	assert.Equal(t, entity.LoopIdle, status.State)
}

func TestServiceStartRejectsShortNumber(t *testing.T) {
	f := newFixture()
	svc := NewMonitorService(quietLogger(), f.loop, nil)

	status, err := svc.Start(context.Background(), "98765")
	assert.ErrorIs(t, err, monitor.ErrInvalidContact)
	assert.Equal(t, entity.LoopIdle, status.State)
	assert.Equal(t, entity.StatusIdle, status.Text)
}

func TestServiceRelaysStatusToRedis(t *testing.T) {
	f := newFixture()
	rdb := &fakeRedis{}
	svc := NewMonitorService(quietLogger(), f.loop, rdb)

	_, err := svc.Start(context.Background(), "9876543210")
	require.NoError(t, err)
	f.advance(t, 1)

	require.NoError(t, svc.Shutdown(context.Background()))

	texts := rdb.Texts()
	require.NotEmpty(t, texts)
	assert.Equal(t, entity.StatusScanning, texts[0])
	assert.Contains(t, texts, string(entity.VerdictDrowsy))
}

func TestServiceShutdownWhileIdle(t *testing.T) {
	f := newFixture()
	svc := NewMonitorService(quietLogger(), f.loop, &fakeRedis{})

	assert.NoError(t, svc.Shutdown(context.Background()))
	assert.Equal(t, entity.LoopIdle, svc.Status(context.Background()).State)
}
