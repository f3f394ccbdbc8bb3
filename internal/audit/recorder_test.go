package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hms/meridian-hms/internal/shared"
)

type memoryStore struct {
	records   []Record
	insertErr error
}

func (s *memoryStore) Insert(ctx context.Context, record Record) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.records = append(s.records, record)
	return nil
}

type counter struct{ n int }

func (c *counter) Inc() { c.n++ }

type testRoom struct {
	ID     uuid.UUID
	Number string
	Floor  string
}

func (r testRoom) AuditResource() string { return "room" }
func (r testRoom) AuditID() string       { return r.ID.String() }
func (r testRoom) AuditSnapshot() Snapshot {
	return Fields(map[string]any{
		"id":          r.ID,
		"room_number": r.Number,
		"floor":       r.Floor,
	})
}

func actorContext() context.Context {
	actor := &shared.Actor{ID: uuid.New(), Email: "manager@example.com"}
	ctx := shared.ContextWithActor(context.Background(), actor)
	return shared.ContextWithRequestMeta(ctx, shared.RequestMeta{IP: "10.0.0.9", UserAgent: "curl/8"})
}

func TestRecorderCreateCapturesNewOnly(t *testing.T) {
	store := &memoryStore{}
	rec := NewRecorder(store, nil, nil)
	room := testRoom{ID: uuid.New(), Number: "101", Floor: "1"}

	rec.Created(actorContext(), room)

	require.Len(t, store.records, 1)
	entry := store.records[0]
	require.Equal(t, ActionCreate, entry.Action)
	require.Nil(t, entry.OldData)
	require.NotNil(t, entry.NewData)
	require.Equal(t, "101", entry.NewData["room_number"])
	require.Equal(t, "10.0.0.9", entry.IP)
	require.Equal(t, "curl/8", entry.UserAgent)
}

func TestRecorderUpdateCapturesOldAndNew(t *testing.T) {
	store := &memoryStore{}
	rec := NewRecorder(store, nil, nil)
	room := testRoom{ID: uuid.New(), Number: "101", Floor: "1"}
	old := room.AuditSnapshot()
	room.Number = "102"

	rec.Updated(actorContext(), old, room)

	require.Len(t, store.records, 1)
	entry := store.records[0]
	require.Equal(t, ActionUpdate, entry.Action)
	require.Equal(t, "101", entry.OldData["room_number"])
	require.Equal(t, "102", entry.NewData["room_number"])
}

func TestRecorderDeleteCapturesOldOnly(t *testing.T) {
	store := &memoryStore{}
	rec := NewRecorder(store, nil, nil)
	room := testRoom{ID: uuid.New(), Number: "101", Floor: "1"}

	rec.Deleted(actorContext(), room)

	require.Len(t, store.records, 1)
	entry := store.records[0]
	require.Equal(t, ActionDelete, entry.Action)
	require.NotNil(t, entry.OldData)
	require.Nil(t, entry.NewData)
}

func TestRecorderSkipsActorlessMutations(t *testing.T) {
	store := &memoryStore{}
	rec := NewRecorder(store, nil, nil)
	room := testRoom{ID: uuid.New(), Number: "101", Floor: "1"}

	// A background job without an actor attached leaves no trail.
	rec.Created(context.Background(), room)

	require.Empty(t, store.records)
}

func TestRecorderSwallowsStoreFailures(t *testing.T) {
	store := &memoryStore{insertErr: errors.New("audit store down")}
	failures := &counter{}
	rec := NewRecorder(store, nil, failures)
	room := testRoom{ID: uuid.New(), Number: "101", Floor: "1"}

	// Must not panic or surface the error to the caller.
	rec.Created(actorContext(), room)

	require.Equal(t, 1, failures.n)
}
