package audit

import (
	"time"

	"github.com/google/uuid"
)

// ActionKind enumerates the mutation kinds the audit trail records.
type ActionKind string

const (
	ActionCreate ActionKind = "create"
	ActionUpdate ActionKind = "update"
	ActionDelete ActionKind = "delete"
)

// Record is one immutable audit entry. Records are inserted exactly once per
// observed mutation and never updated or deleted afterwards.
type Record struct {
	ID         uuid.UUID
	ActorID    *uuid.UUID
	ActorEmail string
	Action     ActionKind
	Resource   string
	ResourceID string
	Details    string
	OldData    Snapshot
	NewData    Snapshot
	IP         string
	UserAgent  string
	Timestamp  time.Time
}

// Mutation describes one state change handed to the Recorder. Old is set for
// update/delete, New for create/update.
type Mutation struct {
	Kind       ActionKind
	Resource   string
	ResourceID string
	Details    string
	Old        Snapshot
	New        Snapshot
}

// Snapshotter is implemented by entities that can flatten themselves into an
// audit snapshot.
type Snapshotter interface {
	AuditResource() string
	AuditID() string
	AuditSnapshot() Snapshot
}
