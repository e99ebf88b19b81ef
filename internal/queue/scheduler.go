package queue

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/agrilens/backend/internal/logging"
)

// Scheduler triggers sync passes in the background: once at startup and then
// periodically. Outcomes are logged; the service's own guard makes overlap
// with manually triggered passes harmless.
type Scheduler struct {
	svc      *Service
	interval time.Duration
	log      *zap.SugaredLogger

	stopCh chan struct{}
	wg     sync.WaitGroup

	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a Scheduler over the given service.
func NewScheduler(svc *Service, interval time.Duration, log *zap.SugaredLogger) *Scheduler {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Scheduler{
		svc:      svc,
		interval: interval,
		log:      log,
	}
}

// Start launches the background loop. Calling Start on a running scheduler
// is a no-op; a stopped scheduler can be started again.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	// Fresh channel per run so Stop/Start cycles work.
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop(ctx, stopCh)
}

// Stop stops the background loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	stopCh := s.stopCh
	s.mu.Unlock()

	close(stopCh)
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, stopCh <-chan struct{}) {
	defer s.wg.Done()

	// Startup pass, matching the app-launch hook of the capture UI.
	s.runPass(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			s.runPass(ctx)
		}
	}
}

func (s *Scheduler) runPass(ctx context.Context) {
	outcome, err := s.svc.SyncAll(ctx)
	if err != nil {
		s.log.Errorw("scheduled sync pass failed", "error", err)
		return
	}
	s.log.Infow("scheduled sync pass", "message", outcome.Message,
		"success", outcome.Success, "failed", outcome.Failed)
}
