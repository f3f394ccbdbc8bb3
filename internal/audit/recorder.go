package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/meridian-hms/meridian-hms/internal/shared"
)

// InsertStore persists audit records.
type InsertStore interface {
	Insert(ctx context.Context, record Record) error
}

// FailureCounter counts swallowed audit write failures, typically a
// Prometheus counter.
type FailureCounter interface {
	Inc()
}

// Recorder is the explicit change-capture interception point. Services call
// it around every create/update/delete instead of relying on implicit
// save-hooks, so there is no hidden subscription list deciding what gets
// audited.
type Recorder struct {
	store    InsertStore
	logger   *slog.Logger
	failures FailureCounter
}

// NewRecorder constructs a Recorder. failures may be nil.
func NewRecorder(store InsertStore, logger *slog.Logger, failures FailureCounter) *Recorder {
	return &Recorder{store: store, logger: logger, failures: failures}
}

// Created emits the audit record for a freshly persisted entity. The new
// snapshot is taken after persistence so generated fields are included.
func (r *Recorder) Created(ctx context.Context, entity Snapshotter) {
	r.Record(ctx, Mutation{
		Kind:       ActionCreate,
		Resource:   entity.AuditResource(),
		ResourceID: entity.AuditID(),
		Details:    fmt.Sprintf("Created %s %s", entity.AuditResource(), entity.AuditID()),
		New:        entity.AuditSnapshot(),
	})
}

// Updated emits the audit record for an update. old must have been captured
// from persisted state strictly before the write.
func (r *Recorder) Updated(ctx context.Context, old Snapshot, entity Snapshotter) {
	r.Record(ctx, Mutation{
		Kind:       ActionUpdate,
		Resource:   entity.AuditResource(),
		ResourceID: entity.AuditID(),
		Details:    fmt.Sprintf("Updated %s %s", entity.AuditResource(), entity.AuditID()),
		Old:        old,
		New:        entity.AuditSnapshot(),
	})
}

// Deleted emits the audit record for a deletion; only the old state exists.
func (r *Recorder) Deleted(ctx context.Context, entity Snapshotter) {
	r.Record(ctx, Mutation{
		Kind:       ActionDelete,
		Resource:   entity.AuditResource(),
		ResourceID: entity.AuditID(),
		Details:    fmt.Sprintf("Deleted %s %s", entity.AuditResource(), entity.AuditID()),
		Old:        entity.AuditSnapshot(),
	})
}

// Record writes one audit entry for the mutation. Mutations without an actor
// in context are skipped on purpose: system-triggered changes stay out of
// the trail unless the caller attaches a synthetic actor. Store failures are
// logged and swallowed; the primary mutation must never fail because the
// audit store is unavailable.
func (r *Recorder) Record(ctx context.Context, m Mutation) {
	if r == nil || r.store == nil {
		return
	}
	actor := shared.ActorFromContext(ctx)
	if actor == nil {
		return
	}
	meta := shared.RequestMetaFromContext(ctx)
	actorID := actor.ID
	record := Record{
		ActorID:    &actorID,
		ActorEmail: actor.Email,
		Action:     m.Kind,
		Resource:   m.Resource,
		ResourceID: m.ResourceID,
		Details:    m.Details,
		OldData:    m.Old,
		NewData:    m.New,
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
	}
	if err := r.store.Insert(ctx, record); err != nil {
		if r.failures != nil {
			r.failures.Inc()
		}
		if r.logger != nil {
			r.logger.Error("audit write failed",
				slog.String("resource", m.Resource),
				slog.String("resource_id", m.ResourceID),
				slog.String("action", string(m.Kind)),
				slog.Any("error", err))
		}
	}
}
