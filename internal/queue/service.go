// Package queue implements the offline media queue: the durable collection of
// pending capture records and the best-effort sync pass that reconciles them.
package queue

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/agrilens/backend/internal/errors"
	"github.com/agrilens/backend/internal/kv"
	"github.com/agrilens/backend/internal/logging"
	"github.com/agrilens/backend/internal/models"
	"github.com/agrilens/backend/internal/uuid"
)

// storeKey is the single entry the whole queue lives under.
const storeKey = "pending_media"

// RemoteProcessor is the external analysis/upload collaborator invoked for
// each unsynced record during a sync pass.
type RemoteProcessor interface {
	Process(ctx context.Context, rec *models.PendingMedia) error
}

// Config holds service configuration.
type Config struct {
	// UploadTimeout bounds each remote processing attempt. A timed-out
	// attempt counts as a failure for that record only.
	UploadTimeout time.Duration
	Logger        *zap.SugaredLogger
}

// DefaultConfig returns the default service configuration.
func DefaultConfig() *Config {
	return &Config{
		UploadTimeout: 30 * time.Second,
		Logger:        logging.Nop(),
	}
}

// Service owns the durable queue of pending media records. One instance
// should exist per process; two instances over the same store would race on
// the read-modify-write cycle.
type Service struct {
	store         kv.Store
	processor     RemoteProcessor
	log           *zap.SugaredLogger
	uploadTimeout time.Duration

	mu      sync.Mutex
	ready   bool
	syncing bool

	// writeMu serializes the read-modify-write cycle of every mutation.
	// Without it two concurrent writers would read the same list snapshot
	// and the later PutStringList would drop the earlier writer's change.
	writeMu sync.Mutex
}

// NewService creates a Service over the given store and remote processor.
func NewService(store kv.Store, processor RemoteProcessor, cfg *Config) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	timeout := cfg.UploadTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{
		store:         store,
		processor:     processor,
		log:           log,
		uploadTimeout: timeout,
	}
}

// Init verifies the store is reachable. It is idempotent and safe to call
// concurrently; a failed Init does not latch, the next call probes again.
// Every other operation ensures initialization before acting.
func (s *Service) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}
	if _, err := s.store.GetStringList(ctx, storeKey); err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, "store probe failed", err)
	}
	s.ready = true
	return nil
}

// ListAll returns every stored record, newest first. Malformed stored entries
// are skipped with a warning; one corrupt entry must not hide the rest.
func (s *Service) ListAll(ctx context.Context) ([]*models.PendingMedia, error) {
	raw, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]*models.PendingMedia, 0, len(raw))
	for _, entry := range raw {
		rec, err := models.DecodeRecord(entry)
		if err != nil {
			s.log.Warnw("skipping malformed queue entry", "error", err)
			continue
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt > records[j].CreatedAt
	})
	return records, nil
}

// Count returns the number of decodable records in the queue.
func (s *Service) Count(ctx context.Context) (int, error) {
	records, err := s.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// UnsyncedCount returns the number of records still awaiting sync.
func (s *Service) UnsyncedCount(ctx context.Context) (int, error) {
	records, err := s.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, rec := range records {
		if !rec.IsSynced {
			count++
		}
	}
	return count, nil
}

// Enqueue appends the record to the store. No duplicate-id check is made;
// records arriving without an id get a UUID, and a zero CreatedAt is stamped
// with the current time.
func (s *Service) Enqueue(ctx context.Context, rec *models.PendingMedia) error {
	if rec == nil {
		return apperrors.New(apperrors.ErrInvalid, "record is nil")
	}
	if rec.ID == "" {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().UnixMilli()
	}

	encoded, err := rec.Encode()
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	raw, err := s.readAll(ctx)
	if err != nil {
		return err
	}
	raw = append(raw, encoded)
	if err := s.store.PutStringList(ctx, storeKey, raw); err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, "write queue", err)
	}

	s.log.Debugw("enqueued pending media", "id", rec.ID, "kind", rec.MediaKind)
	return nil
}

// MarkSynced sets the sync flag on the record with the given id. Absent ids
// are a no-op, not an error. Every other entry, including undecodable ones,
// is preserved in its storage position.
func (s *Service) MarkSynced(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	raw, err := s.readAll(ctx)
	if err != nil {
		return err
	}

	found := false
	for i, entry := range raw {
		rec, err := models.DecodeRecord(entry)
		if err != nil {
			continue
		}
		if rec.ID != id {
			continue
		}
		encoded, err := rec.WithSynced(true).Encode()
		if err != nil {
			return err
		}
		raw[i] = encoded
		found = true
		break
	}
	if !found {
		return nil
	}

	if err := s.store.PutStringList(ctx, storeKey, raw); err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, "write queue", err)
	}
	return nil
}

// Delete removes the record with the given id; a no-op when absent.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	raw, err := s.readAll(ctx)
	if err != nil {
		return err
	}

	found := false
	kept := make([]string, 0, len(raw))
	for _, entry := range raw {
		rec, err := models.DecodeRecord(entry)
		if err == nil && rec.ID == id {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	if !found {
		return nil
	}

	if err := s.store.PutStringList(ctx, storeKey, kept); err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, "write queue", err)
	}
	return nil
}

// Clear removes all records unconditionally.
func (s *Service) Clear(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.ensureInit(ctx); err != nil {
		return err
	}
	if err := s.store.DeleteKey(ctx, storeKey); err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, "clear queue", err)
	}
	return nil
}

// IsSyncing reports whether a sync pass is currently running.
func (s *Service) IsSyncing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncing
}

// SyncAll runs one synchronization pass: every unsynced record is handed to
// the remote processor sequentially, successes are marked synced, failures
// are counted and never abort the batch. A second concurrent call returns
// immediately with a zero-effect outcome.
func (s *Service) SyncAll(ctx context.Context) (models.SyncOutcome, error) {
	if err := s.ensureInit(ctx); err != nil {
		return models.SyncOutcome{}, err
	}

	s.mu.Lock()
	if s.syncing {
		s.mu.Unlock()
		return models.SyncOutcome{Message: models.MessageSyncInProgress}, nil
	}
	s.syncing = true
	s.mu.Unlock()

	// Released unconditionally so a failed pass cannot wedge future syncs.
	defer func() {
		s.mu.Lock()
		s.syncing = false
		s.mu.Unlock()
	}()

	records, err := s.ListAll(ctx)
	if err != nil {
		return models.SyncOutcome{}, err
	}

	var unsynced []*models.PendingMedia
	for _, rec := range records {
		if !rec.IsSynced {
			unsynced = append(unsynced, rec)
		}
	}
	if len(unsynced) == 0 {
		return models.SyncOutcome{Message: models.MessageNothingToSync}, nil
	}

	s.log.Infow("starting sync pass", "pending", len(unsynced))

	success, failed := 0, 0
	for i, rec := range unsynced {
		if ctx.Err() != nil {
			failed += len(unsynced) - i
			s.log.Warnw("sync pass cancelled", "remaining", len(unsynced)-i)
			break
		}

		if err := s.processRecord(ctx, rec); err != nil {
			failed++
			s.log.Warnw("record sync failed", "id", rec.ID, "error", err)
			continue
		}
		if err := s.MarkSynced(ctx, rec.ID); err != nil {
			failed++
			s.log.Errorw("failed to mark record synced", "id", rec.ID, "error", err)
			continue
		}
		success++
	}

	outcome := models.NewSyncOutcome(success, failed)
	s.log.Infow("sync pass finished", "success", success, "failed", failed)
	return outcome, nil
}

// processRecord runs one bounded remote processing attempt.
func (s *Service) processRecord(ctx context.Context, rec *models.PendingMedia) error {
	attemptCtx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	if err := s.processor.Process(attemptCtx, rec); err != nil {
		if attemptCtx.Err() == context.DeadlineExceeded {
			return apperrors.Wrap(apperrors.ErrRemoteTimeout, "processing attempt timed out", err)
		}
		return apperrors.Wrap(apperrors.ErrRemoteFailed, "remote processing failed", err)
	}
	return nil
}

// readAll returns the raw stored entries after ensuring initialization.
func (s *Service) readAll(ctx context.Context) ([]string, error) {
	if err := s.ensureInit(ctx); err != nil {
		return nil, err
	}
	raw, err := s.store.GetStringList(ctx, storeKey)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, "read queue", err)
	}
	return raw, nil
}

func (s *Service) ensureInit(ctx context.Context) error {
	s.mu.Lock()
	ready := s.ready
	s.mu.Unlock()
	if ready {
		return nil
	}
	return s.Init(ctx)
}
