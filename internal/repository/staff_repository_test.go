package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/staff-directory/internal/domain"
	"github.com/spec-kit/staff-directory/internal/persistence"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func setupRepo(t *testing.T, kv persistence.KeyValue) (*kvStaffRepository, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}
	seq := 0
	var mu sync.Mutex
	repo := &kvStaffRepository{
		kv:  kv,
		now: clock.Now,
		newID: func() string {
			mu.Lock()
			defer mu.Unlock()
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	}
	return repo, clock
}

func mustPatch(t *testing.T, body string) domain.StaffPatch {
	t.Helper()
	var raw any
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	p, err := domain.NormalizeStaff(raw)
	require.NoError(t, err)
	return p
}

func mustPartial(t *testing.T, body string) domain.StaffPatch {
	t.Helper()
	var raw any
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	p, err := domain.NormalizeStaffPatch(raw)
	require.NoError(t, err)
	return p
}

func indexOf(t *testing.T, kv persistence.KeyValue) []string {
	t.Helper()
	raw, found, err := kv.Get(context.Background(), IndexKey)
	require.NoError(t, err)
	if !found {
		return nil
	}
	var ids []string
	require.NoError(t, json.Unmarshal([]byte(raw), &ids))
	return ids
}

func TestCreate_ThenListReturnsItOnce(t *testing.T) {
	kv := persistence.NewMemoryKV("test")
	repo, _ := setupRepo(t, kv)
	ctx := context.Background()

	created, err := repo.Create(ctx, mustPatch(t, `{"name":"Ana","years":5}`))
	require.NoError(t, err)
	assert.Equal(t, "id-1", created.ID)
	assert.Equal(t, "2026-10-18T09:00:00.000Z", created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Equal(t, domain.StaffStatusAvailable, created.Status)
	assert.Equal(t, []string{}, created.Skills)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, *created, items[0])
	assert.Equal(t, []string{"id-1"}, indexOf(t, kv))
}

func TestCreate_WritesRecordBeforeIndex(t *testing.T) {
	kv := &recordingKV{KeyValue: persistence.NewMemoryKV("test")}
	repo, _ := setupRepo(t, kv)

	_, err := repo.Create(context.Background(), mustPatch(t, `{"name":"Ana"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"put staff_id-1", "get staff_index", "put staff_index"}, kv.ops)
}

func TestCreate_IndexFailureLeavesReachableOrphan(t *testing.T) {
	mem := persistence.NewMemoryKV("test")
	kv := &failingKV{KeyValue: mem, failPut: IndexKey}
	repo, _ := setupRepo(t, kv)
	ctx := context.Background()

	_, err := repo.Create(ctx, mustPatch(t, `{"name":"Ana"}`))
	require.Error(t, err)

	// The record exists and is reachable directly; the index never points at nothing.
	got, err := repo.Get(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	// The next write to the id repairs membership.
	kv.failPut = ""
	_, err = repo.Update(ctx, "id-1", mustPartial(t, `{"bio":"hi"}`))
	require.NoError(t, err)
	items, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "hi", items[0].Bio)
}

func TestList_SortOrder(t *testing.T) {
	kv := persistence.NewMemoryKV("test")
	repo, clock := setupRepo(t, kv)
	ctx := context.Background()

	_, err := repo.Create(ctx, mustPatch(t, `{"name":"low-old","sortOrder":1}`))
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = repo.Create(ctx, mustPatch(t, `{"name":"high","sortOrder":5}`))
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = repo.Create(ctx, mustPatch(t, `{"name":"low-new","sortOrder":1}`))
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = repo.Create(ctx, mustPatch(t, `{"name":"negative","sortOrder":-2}`))
	require.NoError(t, err)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(items))
	for _, s := range items {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"high", "low-new", "low-old", "negative"}, names)
}

func TestList_ToleratesDrift(t *testing.T) {
	kv := persistence.NewMemoryKV("test")
	repo, _ := setupRepo(t, kv)
	ctx := context.Background()

	_, err := repo.Create(ctx, mustPatch(t, `{"name":"Ana"}`))
	require.NoError(t, err)
	require.NoError(t, kv.Put(ctx, IndexKey, `["ghost","id-1",42,"id-1","corrupt"]`))
	require.NoError(t, kv.Put(ctx, StaffKey("corrupt"), `not json`))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "id-1", items[0].ID)
}

func TestList_MalformedOrMissingIndex(t *testing.T) {
	kv := persistence.NewMemoryKV("test")
	repo, _ := setupRepo(t, kv)
	ctx := context.Background()

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, kv.Put(ctx, IndexKey, `{"not":"an array"}`))
	items, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	// A create overwrites the malformed index with a valid one.
	_, err = repo.Create(ctx, mustPatch(t, `{"name":"Ana"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"id-1"}, indexOf(t, kv))
}

func TestList_SurfacesBackendErrors(t *testing.T) {
	boom := errors.New("backend down")
	repo, _ := setupRepo(t, &failingKV{KeyValue: persistence.NewMemoryKV("test"), getErr: boom})

	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestUpdate_MergesAndStamps(t *testing.T) {
	kv := persistence.NewMemoryKV("test")
	repo, clock := setupRepo(t, kv)
	ctx := context.Background()

	created, err := repo.Create(ctx, mustPatch(t, `{"name":"Ana","area":"Ops","skills":["Go"],"years":3}`))
	require.NoError(t, err)
	clock.Advance(time.Minute)

	updated, err := repo.Update(ctx, created.ID, mustPartial(t, `{"status":"busy"}`))
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Ana", updated.Name)
	assert.Equal(t, "Ops", updated.Area)
	assert.Equal(t, []string{"Go"}, updated.Skills)
	assert.Equal(t, 3, updated.Years)
	assert.Equal(t, domain.StaffStatusBusy, updated.Status)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "2026-10-18T09:01:00.000Z", updated.UpdatedAt)

	stored, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestUpdate_FullPatchOverwritesEverything(t *testing.T) {
	repo, _ := setupRepo(t, persistence.NewMemoryKV("test"))
	ctx := context.Background()

	created, err := repo.Create(ctx, mustPatch(t, `{"name":"Ana","area":"Ops","status":"busy"}`))
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, mustPatch(t, `{"name":"Bea"}`))
	require.NoError(t, err)
	assert.Equal(t, "Bea", updated.Name)
	assert.Equal(t, "", updated.Area)
	assert.Equal(t, domain.StaffStatusAvailable, updated.Status)
}

func TestUpdate_UpdatedAtNeverMovesBackwards(t *testing.T) {
	repo, clock := setupRepo(t, persistence.NewMemoryKV("test"))
	ctx := context.Background()

	created, err := repo.Create(ctx, mustPatch(t, `{"name":"Ana"}`))
	require.NoError(t, err)
	clock.Advance(-time.Hour)

	updated, err := repo.Update(ctx, created.ID, mustPartial(t, `{"bio":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, created.UpdatedAt, updated.UpdatedAt)
	assert.GreaterOrEqual(t, updated.UpdatedAt, updated.CreatedAt)
}

func TestUpdate_NotFound(t *testing.T) {
	kv := persistence.NewMemoryKV("test")
	repo, _ := setupRepo(t, kv)

	_, err := repo.Update(context.Background(), "nope", mustPartial(t, `{"bio":"x"}`))
	assert.ErrorIs(t, err, ErrStaffNotFound)
	assert.Zero(t, kv.Len())
}

func TestUpdate_RepairsIndex(t *testing.T) {
	kv := persistence.NewMemoryKV("test")
	repo, _ := setupRepo(t, kv)
	ctx := context.Background()

	created, err := repo.Create(ctx, mustPatch(t, `{"name":"Ana"}`))
	require.NoError(t, err)
	require.NoError(t, kv.Put(ctx, IndexKey, `[]`))

	_, err = repo.Update(ctx, created.ID, mustPartial(t, `{"years":2}`))
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID}, indexOf(t, kv))
}

func TestDelete(t *testing.T) {
	kv := persistence.NewMemoryKV("test")
	repo, _ := setupRepo(t, kv)
	ctx := context.Background()

	a, err := repo.Create(ctx, mustPatch(t, `{"name":"Ana"}`))
	require.NoError(t, err)
	b, err := repo.Create(ctx, mustPatch(t, `{"name":"Bea"}`))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, a.ID))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, []string{b.ID}, indexOf(t, kv))

	_, err = repo.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrStaffNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), ErrStaffNotFound)
}

func TestDelete_MissingRecordSkipsIndex(t *testing.T) {
	mem := persistence.NewMemoryKV("test")
	kv := &recordingKV{KeyValue: mem}
	repo, _ := setupRepo(t, kv)
	ctx := context.Background()
	require.NoError(t, mem.Put(ctx, IndexKey, `["ghost"]`))

	assert.ErrorIs(t, repo.Delete(ctx, "ghost"), ErrStaffNotFound)
	assert.Equal(t, []string{"delete staff_ghost"}, kv.ops)
	assert.Equal(t, []string{"ghost"}, indexOf(t, mem))
}

// TestConcurrentCreates_LostIndexUpdateHeals simulates two creates whose index
// read-modify-write steps interleave: B completes entirely between A's index
// read and A's index write, so A's write drops B's id.
func TestConcurrentCreates_LostIndexUpdateHeals(t *testing.T) {
	mem := persistence.NewMemoryKV("test")
	kv := &interleavingKV{KeyValue: mem}
	repo, _ := setupRepo(t, kv)
	ctx := context.Background()

	var createdB *domain.Staff
	kv.onIndexRead = func() {
		var err error
		createdB, err = repo.Create(ctx, mustPatch(t, `{"name":"B"}`))
		require.NoError(t, err)
	}

	createdA, err := repo.Create(ctx, mustPatch(t, `{"name":"A"}`))
	require.NoError(t, err)
	require.NotNil(t, createdB)

	// B's index entry was lost, but B's record is intact and reachable.
	assert.Equal(t, []string{createdA.ID}, indexOf(t, mem))
	gotB, err := repo.Get(ctx, createdB.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", gotB.Name)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	// The next write to B restores it.
	_, err = repo.Update(ctx, createdB.ID, mustPartial(t, `{"status":"busy"}`))
	require.NoError(t, err)
	items, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.ElementsMatch(t, []string{createdA.ID, createdB.ID}, indexOf(t, mem))
}

func TestConcurrentCreates_RecordsNeverLost(t *testing.T) {
	mem := persistence.NewMemoryKV("test")
	repo, _ := setupRepo(t, mem)
	ctx := context.Background()

	const n = 20
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := repo.Create(ctx, mustPatch(t, fmt.Sprintf(`{"name":"staff-%d"}`, i)))
			if assert.NoError(t, err) {
				ids[i] = s.ID
			}
		}()
	}
	wg.Wait()

	for _, id := range ids {
		_, err := repo.Get(ctx, id)
		assert.NoError(t, err)
	}

	// Touch every record once; afterwards the index is complete.
	for _, id := range ids {
		_, err := repo.Update(ctx, id, mustPartial(t, `{}`))
		require.NoError(t, err)
	}
	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, n)
}

func TestNewStaffRepository_UsesUUIDs(t *testing.T) {
	repo := NewStaffRepository(persistence.NewMemoryKV("test"))
	a, err := repo.Create(context.Background(), mustPatch(t, `{"name":"A"}`))
	require.NoError(t, err)
	b, err := repo.Create(context.Background(), mustPatch(t, `{"name":"B"}`))
	require.NoError(t, err)

	assert.Len(t, a.ID, 36)
	assert.NotEqual(t, a.ID, b.ID)
}

type recordingKV struct {
	persistence.KeyValue
	mu  sync.Mutex
	ops []string
}

func (k *recordingKV) record(op string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.ops = append(k.ops, op)
}

func (k *recordingKV) Get(ctx context.Context, key string) (string, bool, error) {
	k.record("get " + key)
	return k.KeyValue.Get(ctx, key)
}

func (k *recordingKV) Put(ctx context.Context, key, value string) error {
	k.record("put " + key)
	return k.KeyValue.Put(ctx, key, value)
}

func (k *recordingKV) Delete(ctx context.Context, key string) (bool, error) {
	k.record("delete " + key)
	return k.KeyValue.Delete(ctx, key)
}

type failingKV struct {
	persistence.KeyValue
	failPut string
	getErr  error
}

func (k *failingKV) Get(ctx context.Context, key string) (string, bool, error) {
	if k.getErr != nil {
		return "", false, k.getErr
	}
	return k.KeyValue.Get(ctx, key)
}

func (k *failingKV) Put(ctx context.Context, key, value string) error {
	if key == k.failPut {
		return errors.New("put failed")
	}
	return k.KeyValue.Put(ctx, key, value)
}

// interleavingKV runs onIndexRead once, after the first index read has
// captured its value and before that value is returned.
type interleavingKV struct {
	persistence.KeyValue
	onIndexRead func()
	fired       bool
}

func (k *interleavingKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, found, err := k.KeyValue.Get(ctx, key)
	if key == IndexKey && !k.fired && k.onIndexRead != nil {
		k.fired = true
		k.onIndexRead()
	}
	return val, found, err
}
