package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/gnames/gncat/internal/ioremote"
	"github.com/gnames/gncat/pkg/blob"
	"github.com/gnames/gncat/pkg/config"
	"github.com/gnames/gncat/pkg/record"
	"github.com/gnames/gncat/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type events struct {
	mu  sync.Mutex
	all []store.SyncEvent
}

func (e *events) add(ev store.SyncEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.all = append(e.all, ev)
}

func (e *events) list() []store.SyncEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]store.SyncEvent(nil), e.all...)
}

func remoteStore(
	t *testing.T,
	mem *ioremote.Memory,
	opts ...store.Option,
) (*store.Store, *memLocal, *events) {
	t.Helper()
	ev := &events{}
	local := &memLocal{}
	opts = append([]store.Option{
		store.OptRemote(blob.NewClient(mem)),
		store.OptMode(config.StorageRemote),
		store.OptSyncNotifier(ev.add),
	}, opts...)
	s := store.New(local, opts...)
	s.Initialize(context.Background(), store.InitOptions{UseRemote: true})
	return s, local, ev
}

func remoteIDs(t *testing.T, mem *ioremote.Memory) []string {
	t.Helper()
	recs, err := record.UnmarshalList(mem.Data())
	require.NoError(t, err)
	return ids(recs)
}

// TestRemoteWrite verifies mutations are pushed in the background when
// the mode is remote.
func TestRemoteWrite(t *testing.T) {
	ctx := context.Background()
	mem := ioremote.NewMemory()
	s, local, ev := remoteStore(t, mem)

	require.NoError(t, s.Add(ctx, rec("M-1")))
	require.NoError(t, s.Add(ctx, rec("M-2")))
	s.Wait()

	assert.Equal(t, []string{"M-1", "M-2"}, remoteIDs(t, mem))
	assert.Equal(t, []string{"M-1", "M-2"}, ids(local.records(t)))
	last := s.LastSync()
	assert.True(t, last.OK())
	assert.Equal(t, store.OpPush, last.Operation)
	assert.NotEmpty(t, ev.list())
}

// TestRemoteLocalMode verifies nothing is pushed in local mode.
func TestRemoteLocalMode(t *testing.T) {
	ctx := context.Background()
	mem := ioremote.NewMemory()
	s, _, _ := remoteStore(t, mem, store.OptMode(config.StorageLocal))

	require.NoError(t, s.Add(ctx, rec("M-1")))
	s.Wait()
	assert.Equal(t, 0, mem.Puts())
}

// TestRemoteNoCredential verifies nothing is pushed without a credential.
func TestRemoteNoCredential(t *testing.T) {
	ctx := context.Background()
	mem := ioremote.NewMemory()
	mem.SetCredential(false)
	s, _, _ := remoteStore(t, mem)

	require.NoError(t, s.Add(ctx, rec("M-1")))
	s.Wait()
	assert.Equal(t, 0, mem.Puts())
}

// TestRemoteFailure verifies a failed remote write does not fail the
// mutation, and the failure is reported.
func TestRemoteFailure(t *testing.T) {
	ctx := context.Background()
	mem := ioremote.NewMemory()
	s, local, ev := remoteStore(t, mem)
	require.NoError(t, s.Add(ctx, complete("M-1")))
	s.Wait()

	mem.FailNext(ioremote.ErrInjected)
	err := s.Update(ctx, "M-1", rec("M-1", record.Genus, "Vulpes"))
	require.NoError(t, err)

	r, ok := s.GetByCatalog("M-1")
	require.True(t, ok)
	assert.Equal(t, "Vulpes", r.Get(record.Genus).String())
	assert.Equal(t, "Vulpes", local.records(t)[0].Get(record.Genus).String())

	s.Wait()
	last := s.LastSync()
	assert.False(t, last.OK())
	assert.NotEmpty(t, last.Error)
	evs := ev.list()
	assert.False(t, evs[len(evs)-1].OK())
}

// TestRemoteConflict verifies a concurrent writer is detected and an
// explicit push overwrites the remote file.
func TestRemoteConflict(t *testing.T) {
	ctx := context.Background()
	mem := ioremote.NewMemory()
	mem.Seed([]byte(`[{"Catalog #":"R-1"}]`))

	a, _, _ := remoteStore(t, mem)
	b, _, _ := remoteStore(t, mem)

	require.NoError(t, b.Add(ctx, rec("B-1")))
	b.Wait()
	require.True(t, b.LastSync().OK())

	require.NoError(t, a.Add(ctx, rec("A-1")))
	a.Wait()
	last := a.LastSync()
	assert.False(t, last.OK())
	assert.True(t, last.Conflict)
	assert.ErrorIs(t, last.Err, blob.ErrConflict)
	assert.Equal(t, []string{"R-1", "B-1"}, remoteIDs(t, mem))

	require.NoError(t, a.PushRemote(ctx))
	assert.Equal(t, []string{"R-1", "A-1"}, remoteIDs(t, mem))
}

// TestPullRemote verifies pull adopts the remote list and caches it.
func TestPullRemote(t *testing.T) {
	ctx := context.Background()
	mem := ioremote.NewMemory()
	mem.Seed([]byte(`[{"Catalog #":"R-1"}]`))
	s, local, _ := remoteStore(t, mem)

	mem.Seed([]byte(`[{"Catalog #":"R-1"},{"Catalog #":"R-2"}]`))
	require.NoError(t, s.PullRemote(ctx))
	assert.Equal(t, []string{"R-1", "R-2"}, ids(s.GetAll()))
	assert.Equal(t, []string{"R-1", "R-2"}, ids(local.records(t)))
	assert.Equal(t, store.OpPull, s.LastSync().Operation)
}

// TestSyncNotConfigured verifies explicit sync without a remote client.
func TestSyncNotConfigured(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	assert.Error(t, s.PullRemote(ctx))
	assert.Error(t, s.PushRemote(ctx))
}

// TestPushUninitialized verifies push initializes the client and fails
// cleanly when the remote is unreachable.
func TestPushUninitialized(t *testing.T) {
	ctx := context.Background()
	mem := ioremote.NewMemory()
	client := blob.NewClient(mem)
	s := store.New(&memLocal{}, store.OptRemote(client))
	s.Initialize(ctx, store.InitOptions{})
	require.NoError(t, s.Add(ctx, rec("M-1")))

	mem.FailNext(ioremote.ErrInjected)
	err := s.PushRemote(ctx)
	assert.ErrorIs(t, err, blob.ErrNotInitialized)

	require.NoError(t, s.PushRemote(ctx))
	assert.Equal(t, []string{"M-1"}, remoteIDs(t, mem))
}

// TestConcurrentMutations verifies concurrent writers keep the list
// consistent and the remote ends with the newest snapshot.
func TestConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	mem := ioremote.NewMemory()
	s, _, _ := remoteStore(t, mem)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := string(rune('a' + i))
			assert.NoError(t, s.Add(ctx, rec(id)))
			_ = s.GetAll()
			_ = s.GetSummaryStats()
		}()
	}
	wg.Wait()
	s.Wait()

	assert.Equal(t, 20, s.Len())
	assert.Len(t, remoteIDs(t, mem), 20)
}

// TestPullMissing verifies pulling a missing remote file keeps local
// records.
func TestPullMissing(t *testing.T) {
	ctx := context.Background()
	mem := ioremote.NewMemory()
	s, local, _ := remoteStore(t, mem, store.OptMode(config.StorageLocal))
	require.NoError(t, s.Add(ctx, rec("M-1")))

	err := s.PullRemote(ctx)
	require.Error(t, err)
	assert.Equal(t, []string{"M-1"}, ids(s.GetAll()))
	assert.Equal(t, []string{"M-1"}, ids(local.records(t)))
	assert.False(t, s.LastSync().OK())
}
