package poller

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/road_incident_system/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLister отдаёт заранее подготовленные ответы по очереди
type stubLister struct {
	mu        sync.Mutex
	responses []listResponse
	calls     int
}

type listResponse struct {
	incidents []*models.Incident
	err       error
}

func (s *stubLister) ListIncidents(ctx context.Context, activeOnly bool) ([]*models.Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp := s.responses[len(s.responses)-1]
	if s.calls < len(s.responses) {
		resp = s.responses[s.calls]
	}
	s.calls++
	return resp.incidents, resp.err
}

func (s *stubLister) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return logger
}

func TestPoller_ReplacesSnapshotWholesale(t *testing.T) {
	first := []*models.Incident{{ID: uuid.New(), Type: models.TypeCollision}}
	second := []*models.Incident{
		{ID: uuid.New(), Type: models.TypeFlooding},
		{ID: uuid.New(), Type: models.TypeRoadClosure},
	}
	lister := &stubLister{responses: []listResponse{
		{incidents: first},
		{incidents: second},
	}}

	p := New(lister, testLogger(), 20*time.Millisecond, false)
	p.Start(context.Background())
	defer p.Stop()

	// Первый опрос выполняется сразу
	require.Eventually(t, func() bool {
		return len(p.Snapshot().Incidents) == 1
	}, time.Second, 5*time.Millisecond)

	// Второй опрос целиком замещает список
	require.Eventually(t, func() bool {
		return len(p.Snapshot().Incidents) == 2
	}, time.Second, 5*time.Millisecond)

	snap := p.Snapshot()
	assert.False(t, snap.Stale)
	assert.NoError(t, snap.LastErr)
	assert.Equal(t, second[0].ID, snap.Incidents[0].ID)
}

func TestPoller_KeepsStaleSnapshotOnError(t *testing.T) {
	incidents := []*models.Incident{{ID: uuid.New(), Type: models.TypeCollision}}
	pollError := errors.New("connection refused")
	lister := &stubLister{responses: []listResponse{
		{incidents: incidents},
		{err: pollError},
	}}

	p := New(lister, testLogger(), 20*time.Millisecond, false)
	p.Start(context.Background())
	defer p.Stop()

	require.Eventually(t, func() bool {
		return p.Snapshot().Stale
	}, time.Second, 5*time.Millisecond)

	// Предыдущий список сохранён, но помечен как устаревший
	snap := p.Snapshot()
	assert.Len(t, snap.Incidents, 1)
	assert.True(t, snap.Stale)
	assert.ErrorIs(t, snap.LastErr, pollError)
}

func TestPoller_RecoversAfterError(t *testing.T) {
	recovered := []*models.Incident{{ID: uuid.New(), Type: models.TypePublicEvent}}
	lister := &stubLister{responses: []listResponse{
		{err: errors.New("timeout")},
		{incidents: recovered},
	}}

	p := New(lister, testLogger(), 20*time.Millisecond, false)
	p.Start(context.Background())
	defer p.Stop()

	require.Eventually(t, func() bool {
		snap := p.Snapshot()
		return !snap.Stale && len(snap.Incidents) == 1
	}, time.Second, 5*time.Millisecond)

	snap := p.Snapshot()
	assert.NoError(t, snap.LastErr)
	assert.Equal(t, recovered[0].ID, snap.Incidents[0].ID)
}

func TestPoller_StopTerminatesLoop(t *testing.T) {
	lister := &stubLister{responses: []listResponse{{incidents: nil}}}

	p := New(lister, testLogger(), 10*time.Millisecond, false)
	p.Start(context.Background())

	require.Eventually(t, func() bool {
		return lister.callCount() >= 2
	}, time.Second, 5*time.Millisecond)

	p.Stop()
	callsAfterStop := lister.callCount()

	// Новых запросов после остановки нет
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, callsAfterStop, lister.callCount())

	// Повторная остановка безопасна
	p.Stop()
}

func TestPoller_ContextCancelTerminatesLoop(t *testing.T) {
	lister := &stubLister{responses: []listResponse{{incidents: nil}}}
	ctx, cancel := context.WithCancel(context.Background())

	p := New(lister, testLogger(), 10*time.Millisecond, false)
	p.Start(ctx)

	require.Eventually(t, func() bool {
		return lister.callCount() >= 1
	}, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case <-p.doneCh:
	case <-time.After(time.Second):
		t.Fatal("poller goroutine did not exit after context cancel")
	}
}
