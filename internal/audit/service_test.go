package audit

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hms/meridian-hms/internal/shared"
)

type memoryAuditRepo struct {
	records []Record
}

func (r *memoryAuditRepo) Insert(ctx context.Context, record Record) error {
	record.ID = uuid.New()
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	r.records = append(r.records, record)
	return nil
}

func (r *memoryAuditRepo) visible(scope Scope, rec Record) bool {
	if scope.All {
		return true
	}
	if rec.ActorID == nil {
		return false
	}
	if *rec.ActorID == scope.ActorID {
		return true
	}
	for _, id := range scope.CreatedBy {
		if *rec.ActorID == id {
			return true
		}
	}
	return false
}

func (r *memoryAuditRepo) matches(filters QueryFilters, rec Record) bool {
	if filters.ActorEmail != "" && !strings.Contains(strings.ToLower(rec.ActorEmail), strings.ToLower(filters.ActorEmail)) {
		return false
	}
	if filters.Action != "" && !strings.EqualFold(filters.Action, string(rec.Action)) {
		return false
	}
	if filters.Resource != "" && filters.Resource != rec.Resource {
		return false
	}
	return true
}

func (r *memoryAuditRepo) List(ctx context.Context, scope Scope, filters QueryFilters) ([]Record, error) {
	var out []Record
	// records are appended oldest-first; serve newest-first
	for i := len(r.records) - 1; i >= 0; i-- {
		rec := r.records[i]
		if r.visible(scope, rec) && r.matches(filters, rec) {
			out = append(out, rec)
		}
	}
	if filters.Offset < len(out) {
		out = out[filters.Offset:]
	} else {
		out = nil
	}
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (r *memoryAuditRepo) Count(ctx context.Context, scope Scope, filters QueryFilters) (int, error) {
	n := 0
	for _, rec := range r.records {
		if r.visible(scope, rec) && r.matches(filters, rec) {
			n++
		}
	}
	return n, nil
}

type stubUserLookup struct {
	created map[uuid.UUID][]uuid.UUID
}

func (s *stubUserLookup) ListIDsByCreator(ctx context.Context, creatorID uuid.UUID) ([]uuid.UUID, error) {
	return s.created[creatorID], nil
}

func seedRecord(repo *memoryAuditRepo, actorID uuid.UUID, email string, action ActionKind, resource string, at time.Time) {
	repo.records = append(repo.records, Record{
		ID:         uuid.New(),
		ActorID:    &actorID,
		ActorEmail: email,
		Action:     action,
		Resource:   resource,
		Timestamp:  at,
	})
}

func TestTimelineScopesToOwnAndCreatedUsers(t *testing.T) {
	repo := &memoryAuditRepo{}
	manager := uuid.New()
	clerk := uuid.New()
	stranger := uuid.New()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	seedRecord(repo, manager, "manager@example.com", ActionCreate, "room", base)
	seedRecord(repo, clerk, "clerk@example.com", ActionUpdate, "booking", base.Add(time.Minute))
	seedRecord(repo, stranger, "other@example.com", ActionDelete, "room", base.Add(2*time.Minute))

	users := &stubUserLookup{created: map[uuid.UUID][]uuid.UUID{manager: {clerk}}}
	svc := NewService(repo, users)

	actor := &shared.Actor{ID: manager, Email: "manager@example.com"}
	result, err := svc.Timeline(context.Background(), actor, TimelineFilters{})
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	// reverse chronological
	require.Equal(t, "booking", result.Records[0].Resource)
	require.Equal(t, "room", result.Records[1].Resource)
}

func TestTimelineSuperuserSeesEverything(t *testing.T) {
	repo := &memoryAuditRepo{}
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedRecord(repo, uuid.New(), "x@example.com", ActionCreate, "room", base.Add(time.Duration(i)*time.Minute))
	}
	svc := NewService(repo, nil)

	super := &shared.Actor{ID: uuid.New(), IsSuperuser: true}
	result, err := svc.Timeline(context.Background(), super, TimelineFilters{})
	require.NoError(t, err)
	require.Len(t, result.Records, 3)
}

func TestTimelineActionFilterAndPaging(t *testing.T) {
	repo := &memoryAuditRepo{}
	actorID := uuid.New()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedRecord(repo, actorID, "a@example.com", ActionUpdate, "booking", base.Add(time.Duration(i)*time.Minute))
	}
	seedRecord(repo, actorID, "a@example.com", ActionCreate, "booking", base.Add(10*time.Minute))

	svc := NewService(repo, nil)
	actor := &shared.Actor{ID: actorID, Email: "a@example.com"}

	result, err := svc.Timeline(context.Background(), actor, TimelineFilters{Action: "update", PageSize: 2})
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	require.True(t, result.Paging.HasNext)
	require.Equal(t, 2, result.Paging.NextPage)

	second, err := svc.Timeline(context.Background(), actor, TimelineFilters{Action: "update", PageSize: 2, Page: 2})
	require.NoError(t, err)
	require.Len(t, second.Records, 1)
	require.False(t, second.Paging.HasNext)
}

func TestRecentRendersTimeAgo(t *testing.T) {
	repo := &memoryAuditRepo{}
	actorID := uuid.New()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seedRecord(repo, actorID, "a@example.com", ActionCreate, "order", now.Add(-3*time.Minute))

	svc := NewService(repo, nil)
	svc.now = func() time.Time { return now }

	entries, err := svc.Recent(context.Background(), &shared.Actor{ID: actorID}, 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "3 minutes ago", entries[0].TimeAgo)
	require.Equal(t, "order", entries[0].Resource)
}
