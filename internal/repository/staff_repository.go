package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/staff-directory/internal/domain"
	"github.com/spec-kit/staff-directory/internal/persistence"
)

// IndexKey holds the JSON array of live staff ids.
const IndexKey = "staff_index"

// listFetchConcurrency bounds parallel record reads in List.
const listFetchConcurrency = 8

// ErrStaffNotFound is returned for operations on an id with no record.
var ErrStaffNotFound = errors.New("staff not found")

// StaffKey is the storage key of one record.
func StaffKey(id string) string {
	return "staff_" + id
}

// StaffRepository persists staff records plus the id index.
type StaffRepository interface {
	List(ctx context.Context) ([]domain.Staff, error)
	Get(ctx context.Context, id string) (*domain.Staff, error)
	Create(ctx context.Context, patch domain.StaffPatch) (*domain.Staff, error)
	Update(ctx context.Context, id string, patch domain.StaffPatch) (*domain.Staff, error)
	Delete(ctx context.Context, id string) error
}

// kvStaffRepository keeps each record under StaffKey(id) and the id set under
// IndexKey. It is the only writer of either.
//
// The backend has no multi-key atomicity, so every write is two steps: the
// record key first, then a read-modify-write of the index. Consequences:
//
//   - A crash between the steps leaves an orphan record reachable by id but
//     not listed; never an index entry pointing at nothing.
//   - Two concurrent index edits can race and one is lost. A created id may be
//     missing from List, or a deleted id may linger (List skips it).
//
// Both are accepted. Create and Update re-add their id and Delete removes its
// id, so the next write to an id repairs that id's membership. No lock is
// taken because the backend cannot provide one across processes.
type kvStaffRepository struct {
	kv    persistence.KeyValue
	now   func() time.Time
	newID func() string
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(kv persistence.KeyValue) StaffRepository {
	return &kvStaffRepository{kv: kv, now: time.Now, newID: uuid.NewString}
}

func (r *kvStaffRepository) List(ctx context.Context) ([]domain.Staff, error) {
	ids, err := r.readIndex(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]*domain.Staff, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listFetchConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			staff, err := r.readRecord(gctx, id)
			if errors.Is(err, ErrStaffNotFound) {
				return nil
			}
			records[i] = staff
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]domain.Staff, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, staff := range records {
		if staff == nil {
			continue
		}
		if _, dup := seen[staff.ID]; dup {
			continue
		}
		seen[staff.ID] = struct{}{}
		result = append(result, *staff)
	}
	SortStaff(result)
	return result, nil
}

// SortStaff orders by SortOrder descending, then most recently updated first.
func SortStaff(items []domain.Staff) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder > items[j].SortOrder
		}
		return items[i].UpdatedAt > items[j].UpdatedAt
	})
}

func (r *kvStaffRepository) Get(ctx context.Context, id string) (*domain.Staff, error) {
	return r.readRecord(ctx, id)
}

func (r *kvStaffRepository) Create(ctx context.Context, patch domain.StaffPatch) (*domain.Staff, error) {
	now := domain.FormatTimestamp(r.now())
	staff := &domain.Staff{
		ID:        r.newID(),
		Skills:    []string{},
		Status:    domain.StaffStatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}
	staff.Apply(patch)

	if err := r.writeRecord(ctx, staff); err != nil {
		return nil, err
	}
	if err := r.ensureIndexed(ctx, staff.ID); err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *kvStaffRepository) Update(ctx context.Context, id string, patch domain.StaffPatch) (*domain.Staff, error) {
	staff, err := r.readRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	staff.Apply(patch)
	// Never move updatedAt backwards, even if the clock does.
	if now := domain.FormatTimestamp(r.now()); now > staff.UpdatedAt {
		staff.UpdatedAt = now
	}
	if staff.CreatedAt == "" || staff.CreatedAt > staff.UpdatedAt {
		staff.CreatedAt = staff.UpdatedAt
	}

	if err := r.writeRecord(ctx, staff); err != nil {
		return nil, err
	}
	if err := r.ensureIndexed(ctx, id); err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *kvStaffRepository) Delete(ctx context.Context, id string) error {
	existed, err := r.kv.Delete(ctx, StaffKey(id))
	if err != nil {
		return fmt.Errorf("delete staff %s: %w", id, err)
	}
	if !existed {
		return ErrStaffNotFound
	}

	ids, err := r.readIndex(ctx)
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(slices.Clone(ids), func(x string) bool { return x == id })
	if len(kept) == len(ids) {
		return nil
	}
	return r.writeIndex(ctx, kept)
}

// ensureIndexed appends id to the index unless already present.
func (r *kvStaffRepository) ensureIndexed(ctx context.Context, id string) error {
	ids, err := r.readIndex(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(ids, id) {
		return nil
	}
	return r.writeIndex(ctx, append(ids, id))
}

// readIndex tolerates a missing or malformed index by treating it as empty,
// and drops any non-string entries.
func (r *kvStaffRepository) readIndex(ctx context.Context) ([]string, error) {
	raw, found, err := r.kv.Get(ctx, IndexKey)
	if err != nil {
		return nil, fmt.Errorf("read staff index: %w", err)
	}
	ids := []string{}
	if !found {
		return ids, nil
	}
	var entries []any
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return ids, nil
	}
	for _, entry := range entries {
		if id, ok := entry.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *kvStaffRepository) writeIndex(ctx context.Context, ids []string) error {
	payload, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	if err := r.kv.Put(ctx, IndexKey, string(payload)); err != nil {
		return fmt.Errorf("write staff index: %w", err)
	}
	return nil
}

// readRecord treats an unparseable record like a missing one.
func (r *kvStaffRepository) readRecord(ctx context.Context, id string) (*domain.Staff, error) {
	raw, found, err := r.kv.Get(ctx, StaffKey(id))
	if err != nil {
		return nil, fmt.Errorf("read staff %s: %w", id, err)
	}
	if !found {
		return nil, ErrStaffNotFound
	}
	var staff *domain.Staff
	if err := json.Unmarshal([]byte(raw), &staff); err != nil || staff == nil {
		return nil, ErrStaffNotFound
	}
	staff.ID = id
	staff.Normalize()
	return staff, nil
}

func (r *kvStaffRepository) writeRecord(ctx context.Context, staff *domain.Staff) error {
	payload, err := json.Marshal(staff)
	if err != nil {
		return err
	}
	if err := r.kv.Put(ctx, StaffKey(staff.ID), string(payload)); err != nil {
		return fmt.Errorf("write staff %s: %w", staff.ID, err)
	}
	return nil
}
