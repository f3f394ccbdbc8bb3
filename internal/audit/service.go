package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-hms/meridian-hms/internal/shared"
)

// CreatedUsersLookup resolves the IDs of users created by the given actor,
// used for visibility scoping.
type CreatedUsersLookup interface {
	ListIDsByCreator(ctx context.Context, creatorID uuid.UUID) ([]uuid.UUID, error)
}

// Result wraps a timeline page with paging information.
type Result struct {
	Records []Record
	Paging  PagingInfo
}

// PagingInfo carries cursorless page metadata.
type PagingInfo struct {
	Page     int
	PageSize int
	HasNext  bool
	PrevPage int
	NextPage int
}

// RecentEntry is a condensed record for dashboard display with a rendered
// "time since" string.
type RecentEntry struct {
	Action   string `json:"action"`
	Resource string `json:"resource"`
	Details  string `json:"details"`
	TimeAgo  string `json:"time_ago"`
	Actor    string `json:"actor,omitempty"`
}

// TimelineFilters is the caller-facing filter set.
type TimelineFilters struct {
	ActorEmail string
	Action     string
	Resource   string
	Page       int
	PageSize   int
}

// Service reads the audit trail with per-actor visibility scoping.
type Service struct {
	repo  Repository
	users CreatedUsersLookup
	now   func() time.Time
}

// NewService constructs an audit query service. users may be nil, in which
// case non-superusers only see their own records.
func NewService(repo Repository, users CreatedUsersLookup) *Service {
	return &Service{repo: repo, users: users, now: time.Now}
}

// Timeline returns a reverse-chronological page of audit records visible to
// the actor.
func (s *Service) Timeline(ctx context.Context, actor *shared.Actor, filters TimelineFilters) (Result, error) {
	if s.repo == nil {
		return Result{}, fmt.Errorf("audit: repository not configured")
	}
	scope, err := s.scopeFor(ctx, actor)
	if err != nil {
		return Result{}, err
	}

	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 50 {
		pageSize = 50
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}

	query := QueryFilters{
		ActorEmail: filters.ActorEmail,
		Action:     filters.Action,
		Resource:   filters.Resource,
		Limit:      pageSize + 1,
		Offset:     (page - 1) * pageSize,
	}
	records, err := s.repo.List(ctx, scope, query)
	if err != nil {
		return Result{}, err
	}
	hasNext := len(records) > pageSize
	if hasNext {
		records = records[:pageSize]
	}
	paging := PagingInfo{Page: page, PageSize: pageSize, HasNext: hasNext}
	if page > 1 {
		paging.PrevPage = page - 1
	}
	if hasNext {
		paging.NextPage = page + 1
	}
	return Result{Records: records, Paging: paging}, nil
}

// Recent returns the n most recent visible records rendered with "time
// since" strings, newest first.
func (s *Service) Recent(ctx context.Context, actor *shared.Actor, n int) ([]RecentEntry, error) {
	if n <= 0 {
		n = 5
	}
	scope, err := s.scopeFor(ctx, actor)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.List(ctx, scope, QueryFilters{Limit: n})
	if err != nil {
		return nil, err
	}
	now := s.now()
	entries := make([]RecentEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, RecentEntry{
			Action:   string(rec.Action),
			Resource: rec.Resource,
			Details:  rec.Details,
			TimeAgo:  TimeSince(rec.Timestamp, now),
			Actor:    rec.ActorEmail,
		})
	}
	return entries, nil
}

// CountVisible returns the number of audit records the actor may see after
// filtering.
func (s *Service) CountVisible(ctx context.Context, actor *shared.Actor, filters TimelineFilters) (int, error) {
	scope, err := s.scopeFor(ctx, actor)
	if err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, scope, QueryFilters{
		ActorEmail: filters.ActorEmail,
		Action:     filters.Action,
		Resource:   filters.Resource,
	})
}

func (s *Service) scopeFor(ctx context.Context, actor *shared.Actor) (Scope, error) {
	if actor == nil {
		return Scope{}, fmt.Errorf("audit: actor required")
	}
	if actor.IsSuperuser {
		return Scope{All: true}, nil
	}
	scope := Scope{ActorID: actor.ID}
	if s.users != nil {
		created, err := s.users.ListIDsByCreator(ctx, actor.ID)
		if err != nil {
			return Scope{}, fmt.Errorf("audit: resolve created users: %w", err)
		}
		scope.CreatedBy = created
	}
	return scope, nil
}
