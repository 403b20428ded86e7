package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"entitlement-service/internal/domain/entitlement"
	"entitlement-service/internal/pkg/clock"
	"entitlement-service/internal/pkg/errs"
	"entitlement-service/internal/usecase/shared"
)

const defaultReconcileTimeout = 10 * time.Second

// EntitlementStore owns the single authoritative snapshot of what one user can
// use right now and keeps it consistent with the ledger. All recomputation is
// serialized through one reconciliation loop: at most one fetch of the ledger
// is in flight at any time, and requests arriving mid-flight are coalesced
// into a single follow-up pass that starts after they were made.
type EntitlementStore struct {
	userID  uuid.UUID
	gateway shared.LedgerGateway
	repo    shared.SnapshotRepository // optional; nil keeps snapshots in memory only
	catalog *entitlement.Catalog
	clock   clock.Clock
	logger  *slog.Logger
	timeout time.Duration

	mu           sync.Mutex
	snapshot     entitlement.Snapshot
	pending      []chan error
	inFlight     bool
	started      bool
	cancelListen context.CancelFunc
	listenerDone chan struct{}
	subs         map[int]chan entitlement.Snapshot
	nextSubID    int
}

func NewEntitlementStore(
	userID uuid.UUID,
	gateway shared.LedgerGateway,
	repo shared.SnapshotRepository,
	catalog *entitlement.Catalog,
	clk clock.Clock,
	logger *slog.Logger,
	reconcileTimeout time.Duration,
) *EntitlementStore {
	if reconcileTimeout <= 0 {
		reconcileTimeout = defaultReconcileTimeout
	}
	return &EntitlementStore{
		userID:   userID,
		gateway:  gateway,
		repo:     repo,
		catalog:  catalog,
		clock:    clk,
		logger:   logger,
		timeout:  reconcileTimeout,
		snapshot: entitlement.EmptySnapshot(),
		subs:     make(map[int]chan entitlement.Snapshot),
	}
}

// Start begins listening to the ledger update stream and schedules one initial
// reconciliation. Calling Start on a started store is a no-op.
func (s *EntitlementStore) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	listenCtx, cancel := context.WithCancel(context.Background())
	s.cancelListen = cancel
	s.listenerDone = make(chan struct{})
	done := s.listenerDone
	s.mu.Unlock()

	s.seedFromRepository(ctx)

	go s.listen(listenCtx, done)
	s.requestReconcile()
}

// Stop cancels the update-stream listener and waits for it to exit. The store
// returns to its not-started state and may be started again. A reconciliation
// already in flight is allowed to finish; its result still publishes through
// the monotonic guard.
func (s *EntitlementStore) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	cancel := s.cancelListen
	done := s.listenerDone
	s.cancelListen = nil
	s.listenerDone = nil
	s.mu.Unlock()

	cancel()
	<-done
}

func (s *EntitlementStore) Listening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Current returns the snapshot readers gate on. It never blocks on I/O.
func (s *EntitlementStore) Current() entitlement.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Subscribe registers an observer of snapshot publications. The channel keeps
// only the latest snapshot when the observer lags. The returned cancel
// function releases the subscription.
func (s *EntitlementStore) Subscribe() (<-chan entitlement.Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	ch := make(chan entitlement.Snapshot, 1)
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
}

// Refresh awaits a reconciliation that started at or after this call. If one
// is already in flight the request is coalesced into the follow-up pass, so N
// concurrent callers cost at most two ledger fetches.
func (s *EntitlementStore) Refresh(ctx context.Context) error {
	done := s.requestReconcile()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *EntitlementStore) requestReconcile() <-chan error {
	s.mu.Lock()
	ch := make(chan error, 1)
	s.pending = append(s.pending, ch)
	if s.inFlight {
		s.mu.Unlock()
		return ch
	}
	s.inFlight = true
	s.mu.Unlock()

	go s.reconcileLoop()
	return ch
}

func (s *EntitlementStore) reconcileLoop() {
	for {
		s.mu.Lock()
		waiters := s.pending
		s.pending = nil
		s.mu.Unlock()

		err := s.reconcileOnce()
		for _, ch := range waiters {
			ch <- err
		}

		s.mu.Lock()
		if len(s.pending) == 0 {
			s.inFlight = false
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
	}
}

// reconcileOnce recomputes the snapshot from a full ledger fetch. Failure
// keeps the previous snapshot untouched: stale-but-consistent beats torn.
func (s *EntitlementStore) reconcileOnce() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	records, err := s.gateway.FetchOwnedRecords(ctx, s.userID)
	if err != nil {
		s.logger.Warn("entitlement reconciliation failed, keeping previous snapshot",
			"user_id", s.userID, "error", err.Error())
		return errs.Mark(err, shared.ErrLedgerUnavailable)
	}

	isSubscribed := false
	var ownedUnits []entitlement.UnitID
	for _, record := range records {
		if !record.Verified() {
			// Unverified signals never elevate privilege. Fail closed.
			s.logger.Warn("ignoring unverified entitlement record",
				"user_id", s.userID, "product_id", record.ProductID, "reason", record.TrustReason)
			continue
		}
		switch grant := s.catalog.GrantFor(record); grant.Kind {
		case entitlement.KindSubscription:
			isSubscribed = true
		case entitlement.KindUnit:
			ownedUnits = append(ownedUnits, grant.Unit)
		}
	}

	s.publish(entitlement.NewSnapshot(isSubscribed, ownedUnits, s.clock.Now()))
	return nil
}

// publish replaces the stored snapshot and notifies observers exactly once,
// after the write. A snapshot that is not strictly newer is discarded: even if
// two fetches ever overlap at the boundary, completion order cannot move the
// observable state backwards.
func (s *EntitlementStore) publish(next entitlement.Snapshot) {
	s.mu.Lock()
	if !s.snapshot.ObservedAt().IsZero() && !next.NewerThan(s.snapshot) {
		s.mu.Unlock()
		return
	}
	s.snapshot = next
	for _, ch := range s.subs {
		select {
		case ch <- next:
		default:
			// Drop the stale buffered snapshot so the observer sees the latest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- next:
			default:
			}
		}
	}
	s.mu.Unlock()

	s.persist(next)
}

func (s *EntitlementStore) persist(snapshot entitlement.Snapshot) {
	if s.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.repo.Save(ctx, s.userID, snapshot); err != nil {
		s.logger.Warn("failed to persist entitlement snapshot",
			"user_id", s.userID, "error", err.Error())
	}
}

// seedFromRepository restores the last persisted snapshot so gating works
// before the first reconciliation completes. The first fresh reconciliation
// replaces it through the normal monotonic path.
func (s *EntitlementStore) seedFromRepository(ctx context.Context) {
	if s.repo == nil {
		return
	}
	persisted, err := s.repo.Load(ctx, s.userID)
	if err != nil {
		if !errs.Is(err, shared.ErrSnapshotNotFound) {
			s.logger.Warn("failed to load persisted entitlement snapshot",
				"user_id", s.userID, "error", err.Error())
		}
		return
	}

	s.mu.Lock()
	if s.snapshot.ObservedAt().IsZero() {
		s.snapshot = persisted
	}
	s.mu.Unlock()
}

// listen drives the live update stream. Every delivered record triggers a full
// reconciliation (the full fetch is the only source of truth for revocation
// and cross-device effects) and is finalized afterwards whether or not the
// record itself was trusted.
func (s *EntitlementStore) listen(ctx context.Context, done chan struct{}) {
	defer close(done)

	stream, err := s.gateway.SubscribeToUpdates(ctx, s.userID)
	if err != nil {
		s.logger.Error("failed to subscribe to ledger updates", "user_id", s.userID, "error", err.Error())
		return
	}
	defer func() {
		if err := stream.Close(); err != nil {
			s.logger.Warn("failed to close ledger update stream", "user_id", s.userID, "error", err.Error())
		}
	}()

	for {
		record, err := stream.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Error("ledger update stream terminated", "user_id", s.userID, "error", err.Error())
			return
		}

		if record.Verified() {
			s.logger.Info("received verified transaction update",
				"user_id", s.userID, "product_id", record.ProductID)
		} else {
			s.logger.Warn("received unverified transaction update",
				"user_id", s.userID, "product_id", record.ProductID, "reason", record.TrustReason)
		}

		if err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
			s.logger.Warn("stream-triggered reconciliation failed",
				"user_id", s.userID, "error", err.Error())
		}
		if ctx.Err() != nil {
			return
		}
		if err := stream.Ack(ctx, record); err != nil && ctx.Err() == nil {
			s.logger.Warn("failed to finalize transaction update",
				"user_id", s.userID, "transaction_id", record.TransactionID, "error", err.Error())
		}
	}
}
