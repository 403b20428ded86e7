//go:build unit

package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"entitlement-service/internal/domain/entitlement"
	"entitlement-service/internal/domain/ledger"
	"entitlement-service/internal/domain/purchase"
	"entitlement-service/internal/pkg/clock"
	"entitlement-service/internal/pkg/errs"
	"entitlement-service/internal/usecase"
	"entitlement-service/internal/usecase/shared"
	"entitlement-service/tests/common/builder"
	sharedmock "entitlement-service/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeStream delivers records pushed through the updates channel and records
// every acknowledgement.
type fakeStream struct {
	updates chan ledger.Record

	mu    sync.Mutex
	acked []ledger.Record
}

func newFakeStream() *fakeStream {
	return &fakeStream{updates: make(chan ledger.Record, 16)}
}

func (s *fakeStream) Next(ctx context.Context) (ledger.Record, error) {
	select {
	case record := <-s.updates:
		return record, nil
	case <-ctx.Done():
		return ledger.Record{}, ctx.Err()
	}
}

func (s *fakeStream) Ack(_ context.Context, record ledger.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acked = append(s.acked, record)
	return nil
}

func (s *fakeStream) Close() error { return nil }

func (s *fakeStream) ackedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.acked)
}

// fakeGateway serves a mutable record set and lets tests block fetches to
// observe coalescing.
type fakeGateway struct {
	mu         sync.Mutex
	records    []ledger.Record
	fetchErr   error
	fetchCalls int

	blockFetch   chan struct{} // fetch waits for close when non-nil
	fetchStarted chan struct{} // receives one signal per fetch when non-nil

	stream *fakeStream
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{stream: newFakeStream()}
}

func (g *fakeGateway) setRecords(records ...ledger.Record) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.records = records
}

func (g *fakeGateway) setFetchErr(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fetchErr = err
}

func (g *fakeGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fetchCalls
}

func (g *fakeGateway) FetchOwnedRecords(ctx context.Context, _ uuid.UUID) ([]ledger.Record, error) {
	g.mu.Lock()
	g.fetchCalls++
	records := append([]ledger.Record(nil), g.records...)
	err := g.fetchErr
	started := g.fetchStarted
	block := g.blockFetch
	g.mu.Unlock()

	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (g *fakeGateway) FetchProducts(_ context.Context, _ []ledger.ProductID) ([]ledger.ProductMetadata, error) {
	return nil, nil
}

func (g *fakeGateway) Purchase(_ context.Context, _ uuid.UUID, _ ledger.ProductID) (purchase.RawResult, error) {
	return purchase.RawResult{}, errors.New("not implemented")
}

func (g *fakeGateway) SubscribeToUpdates(_ context.Context, _ uuid.UUID) (shared.UpdateStream, error) {
	return g.stream, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T, gw *fakeGateway, repo shared.SnapshotRepository, clk clock.Clock) *usecase.EntitlementStore {
	t.Helper()
	return usecase.NewEntitlementStore(
		uuid.New(), gw, repo, entitlement.DefaultCatalog(), clk, discardLogger(), 2*time.Second,
	)
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		if cond() {
			return
		}
		select {
		case <-deadline:
			t.Fatal(msg)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestEntitlementStoreReconcile(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("検証済みレコードからスナップショットを構築する", func(t *testing.T) {
		gw := newFakeGateway()
		gw.setRecords(
			builder.NewRecordBuilder().WithProduct("pro.month").Build(),
			builder.NewRecordBuilder().WithProduct("unit.move").Build(),
		)
		store := newTestStore(t, gw, nil, clock.NewMockClock(base))

		require.NoError(t, store.Refresh(context.Background()))

		snapshot := store.Current()
		assert.True(t, snapshot.IsSubscribed())
		assert.True(t, snapshot.Owns("unit.move"))
		assert.Equal(t, base, snapshot.ObservedAt())
	})

	t.Run("未検証レコードは権利を付与しない", func(t *testing.T) {
		gw := newFakeGateway()
		gw.setRecords(
			builder.NewRecordBuilder().WithProduct("pro.month").WithUnverified("signature mismatch").Build(),
			builder.NewRecordBuilder().WithProduct("unit.family").Build(),
		)
		store := newTestStore(t, gw, nil, clock.NewMockClock(base))

		require.NoError(t, store.Refresh(context.Background()))

		snapshot := store.Current()
		assert.False(t, snapshot.IsSubscribed())
		assert.True(t, snapshot.Owns("unit.family"))
	})

	t.Run("取り消し済みレコードは除外される", func(t *testing.T) {
		gw := newFakeGateway()
		gw.setRecords(
			builder.NewRecordBuilder().WithProduct("pro.year").WithRevokedAt(base.Add(-time.Hour)).Build(),
			builder.NewRecordBuilder().WithProduct("unit.workstyle").Build(),
		)
		store := newTestStore(t, gw, nil, clock.NewMockClock(base))

		require.NoError(t, store.Refresh(context.Background()))

		snapshot := store.Current()
		assert.False(t, snapshot.IsSubscribed())
		assert.True(t, snapshot.Owns("unit.workstyle"))
	})

	t.Run("同一レコードの再適用は結果を変えない", func(t *testing.T) {
		record := builder.NewRecordBuilder().WithProduct("unit.move").Build()
		gw := newFakeGateway()
		gw.setRecords(record, record, record)
		clk := clock.NewMockClock(base)
		store := newTestStore(t, gw, nil, clk)

		require.NoError(t, store.Refresh(context.Background()))
		first := store.Current()

		clk.Add(time.Second)
		require.NoError(t, store.Refresh(context.Background()))
		second := store.Current()

		assert.True(t, first.SameGrants(second))
		assert.Equal(t, []entitlement.UnitID{"unit.move"}, second.OwnedUnits())
	})

	t.Run("フェッチ失敗時は直前のスナップショットを保持する", func(t *testing.T) {
		gw := newFakeGateway()
		gw.setRecords(builder.NewRecordBuilder().WithProduct("pro.month").Build())
		clk := clock.NewMockClock(base)
		store := newTestStore(t, gw, nil, clk)

		require.NoError(t, store.Refresh(context.Background()))
		require.True(t, store.Current().IsSubscribed())

		gw.setFetchErr(errors.New("connection refused"))
		clk.Add(time.Second)
		err := store.Refresh(context.Background())
		require.Error(t, err)
		assert.True(t, errs.Is(err, shared.ErrLedgerUnavailable))

		assert.True(t, store.Current().IsSubscribed(), "failed reconciliation must not clear entitlements")
	})

	t.Run("古い観測時刻のスナップショットで巻き戻らない", func(t *testing.T) {
		gw := newFakeGateway()
		gw.setRecords(builder.NewRecordBuilder().WithProduct("pro.month").Build())
		clk := clock.NewMockClock(base)
		store := newTestStore(t, gw, nil, clk)

		require.NoError(t, store.Refresh(context.Background()))

		// Same clock reading: the second pass is not strictly newer and must be
		// discarded even though the record set changed.
		gw.setRecords()
		require.NoError(t, store.Refresh(context.Background()))
		assert.True(t, store.Current().IsSubscribed())

		clk.Add(time.Second)
		require.NoError(t, store.Refresh(context.Background()))
		assert.False(t, store.Current().IsSubscribed())
	})
}

func TestEntitlementStoreCoalescing(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	gw := newFakeGateway()
	gw.setRecords(builder.NewRecordBuilder().WithProduct("pro.month").Build())
	gw.blockFetch = make(chan struct{})
	gw.fetchStarted = make(chan struct{}, 16)
	store := newTestStore(t, gw, nil, clock.NewMockClock(base))

	results := make(chan error, 6)
	go func() { results <- store.Refresh(context.Background()) }()

	// First fetch is in flight and blocked.
	<-gw.fetchStarted

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.Refresh(context.Background())
		}()
	}
	// Give the concurrent callers time to register as pending waiters.
	time.Sleep(50 * time.Millisecond)

	close(gw.blockFetch)
	wg.Wait()

	for i := 0; i < 6; i++ {
		require.NoError(t, <-results)
	}
	assert.LessOrEqual(t, gw.calls(), 2, "6 concurrent refreshes must coalesce into at most 2 fetches")
	assert.GreaterOrEqual(t, gw.calls(), 1)
}

func TestEntitlementStoreSubscribe(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("publishes after the snapshot is readable", func(t *testing.T) {
		gw := newFakeGateway()
		gw.setRecords(builder.NewRecordBuilder().WithProduct("unit.move").Build())
		store := newTestStore(t, gw, nil, clock.NewMockClock(base))

		snapshots, cancel := store.Subscribe()
		defer cancel()

		require.NoError(t, store.Refresh(context.Background()))

		select {
		case published := <-snapshots:
			assert.True(t, published.Owns("unit.move"))
			// Publication happens after the write: Current agrees already.
			assert.True(t, store.Current().SameGrants(published))
		case <-time.After(time.Second):
			t.Fatal("no snapshot published")
		}
	})

	t.Run("lagging observer keeps only the latest snapshot", func(t *testing.T) {
		gw := newFakeGateway()
		gw.setRecords(builder.NewRecordBuilder().WithProduct("unit.move").Build())
		clk := clock.NewMockClock(base)
		store := newTestStore(t, gw, nil, clk)

		snapshots, cancel := store.Subscribe()
		defer cancel()

		require.NoError(t, store.Refresh(context.Background()))
		clk.Add(time.Second)
		gw.setRecords(
			builder.NewRecordBuilder().WithProduct("unit.move").Build(),
			builder.NewRecordBuilder().WithProduct("pro.month").Build(),
		)
		require.NoError(t, store.Refresh(context.Background()))

		select {
		case published := <-snapshots:
			assert.True(t, published.IsSubscribed(), "buffered stale snapshot should have been replaced")
		case <-time.After(time.Second):
			t.Fatal("no snapshot published")
		}
	})

	t.Run("cancel closes the subscription channel", func(t *testing.T) {
		gw := newFakeGateway()
		store := newTestStore(t, gw, nil, clock.NewMockClock(base))

		snapshots, cancel := store.Subscribe()
		cancel()

		_, open := <-snapshots
		assert.False(t, open)
	})
}

func TestEntitlementStoreStream(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	gw := newFakeGateway()
	gw.setRecords(builder.NewRecordBuilder().WithProduct("pro.month").Build())
	clk := clock.NewMockClock(base)
	store := newTestStore(t, gw, nil, clk)

	store.Start(context.Background())
	defer store.Stop()

	waitFor(t, func() bool { return store.Current().IsSubscribed() }, "initial reconciliation did not complete")
	initialCalls := gw.calls()

	// A pushed update triggers a full reconciliation and is acknowledged even
	// though the pushed record itself is untrusted.
	clk.Add(time.Second)
	update := builder.NewRecordBuilder().WithProduct("unit.move").WithUnverified("unchecked").Build()
	gw.setRecords(
		builder.NewRecordBuilder().WithProduct("pro.month").Build(),
		builder.NewRecordBuilder().WithProduct("unit.move").Build(),
	)
	gw.stream.updates <- update

	waitFor(t, func() bool { return store.Current().Owns("unit.move") }, "stream update did not trigger reconciliation")
	waitFor(t, func() bool { return gw.stream.ackedCount() == 1 }, "stream update was not acknowledged")
	assert.Greater(t, gw.calls(), initialCalls)
}

func TestEntitlementStoreLifecycle(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("Start is idempotent", func(t *testing.T) {
		gw := newFakeGateway()
		store := newTestStore(t, gw, nil, clock.NewMockClock(base))

		store.Start(context.Background())
		store.Start(context.Background())
		defer store.Stop()

		assert.True(t, store.Listening())
	})

	t.Run("Stop waits for the listener and allows restart", func(t *testing.T) {
		gw := newFakeGateway()
		store := newTestStore(t, gw, nil, clock.NewMockClock(base))

		store.Start(context.Background())
		store.Stop()
		assert.False(t, store.Listening())

		store.Start(context.Background())
		defer store.Stop()
		assert.True(t, store.Listening())
	})

	t.Run("Refresh honors caller context cancellation", func(t *testing.T) {
		gw := newFakeGateway()
		gw.blockFetch = make(chan struct{})
		defer close(gw.blockFetch)
		store := newTestStore(t, gw, nil, clock.NewMockClock(base))

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()

		err := store.Refresh(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestEntitlementStoreSeeding(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("永続化済みスナップショットを初期値として読み込む", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := sharedmock.NewMockSnapshotRepository(ctrl)
		persisted := entitlement.NewSnapshot(true, nil, base.Add(-time.Hour))
		repo.EXPECT().Load(gomock.Any(), gomock.Any()).Return(persisted, nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		gw := newFakeGateway()
		gw.setFetchErr(errors.New("ledger down"))
		store := newTestStore(t, gw, repo, clock.NewMockClock(base))

		store.Start(context.Background())
		defer store.Stop()

		// Reconciliation fails, so gating falls back to the persisted state.
		waitFor(t, func() bool { return store.Current().IsSubscribed() }, "persisted snapshot was not loaded")
	})

	t.Run("missing persisted snapshot is not an error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := sharedmock.NewMockSnapshotRepository(ctrl)
		repo.EXPECT().Load(gomock.Any(), gomock.Any()).
			Return(entitlement.Snapshot{}, errs.Mark(errors.New("no rows"), shared.ErrSnapshotNotFound))
		repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		gw := newFakeGateway()
		gw.setRecords(builder.NewRecordBuilder().WithProduct("pro.month").Build())
		store := newTestStore(t, gw, repo, clock.NewMockClock(base))

		store.Start(context.Background())
		defer store.Stop()

		waitFor(t, func() bool { return store.Current().IsSubscribed() }, "initial reconciliation did not complete")
	})
}
