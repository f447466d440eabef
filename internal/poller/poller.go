package poller

import (
	"context"
	"sync"
	"time"

	"github.com/shenikar/road_incident_system/internal/models"
	"github.com/sirupsen/logrus"
)

// Lister возвращает актуальный список инцидентов.
// Реализуется HTTP-клиентом API (pkg/apiclient).
type Lister interface {
	ListIncidents(ctx context.Context, activeOnly bool) ([]*models.Incident, error)
}

// Snapshot - последнее известное состояние коллекции инцидентов.
// При ошибке опроса предыдущий список сохраняется как устаревший,
// а не отбрасывается.
type Snapshot struct {
	Incidents []*models.Incident
	UpdatedAt time.Time
	Stale     bool
	LastErr   error
}

// Poller периодически запрашивает полный список инцидентов и целиком
// замещает им локальную копию. Дельта-синхронизация не используется:
// сервер отдаёт весь список, клиент его принимает как есть.
type Poller struct {
	lister     Lister
	logger     *logrus.Logger
	interval   time.Duration
	activeOnly bool

	mu       sync.RWMutex
	snapshot Snapshot

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func New(lister Lister, logger *logrus.Logger, interval time.Duration, activeOnly bool) *Poller {
	return &Poller{
		lister:     lister,
		logger:     logger,
		interval:   interval,
		activeOnly: activeOnly,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start запускает цикл опроса в отдельной горутине.
// Первый запрос выполняется сразу, не дожидаясь первого тика.
func (p *Poller) Start(ctx context.Context) {
	go p.run(ctx)
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.doneCh)

	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Poller stopped: context cancelled")
			return
		case <-p.stopCh:
			p.logger.Info("Poller stopped")
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	incidents, err := p.lister.ListIncidents(ctx, p.activeOnly)
	if err != nil {
		p.logger.WithError(err).Warn("Failed to poll incidents, keeping previous snapshot")
		p.mu.Lock()
		p.snapshot.Stale = true
		p.snapshot.LastErr = err
		p.mu.Unlock()
		return
	}

	// Полное замещение: пропущенный цикл ничего не теряет,
	// следующий успешный ответ сходится к состоянию сервера
	p.mu.Lock()
	p.snapshot = Snapshot{
		Incidents: incidents,
		UpdatedAt: time.Now(),
	}
	p.mu.Unlock()
}

// Snapshot возвращает последнее известное состояние
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// Stop останавливает цикл опроса и дожидается завершения горутины.
// Повторный вызов безопасен.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})
	<-p.doneCh
}
