package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Snapshot is a flattened field-name to JSON-safe scalar mapping of an
// entity at a point in time. Relational references are rendered as display
// strings and file references as retrieval URLs: the representation is
// lossy and human-readable, not a restorable backup.
type Snapshot map[string]any

// Displayer renders a referenced entity as a display string for snapshots.
type Displayer interface {
	DisplayString() string
}

// FileRef points at an uploaded file; snapshots record its public retrieval
// URL, or nil when no file is attached.
type FileRef struct {
	URL string
}

// Fields coerces every value through Scalar and returns the snapshot.
func Fields(fields map[string]any) Snapshot {
	snap := make(Snapshot, len(fields))
	for name, value := range fields {
		snap[name] = Scalar(value)
	}
	return snap
}

// Scalar reduces a field value to a JSON-safe scalar. The priority order is
// fixed so ambiguous fields (a nullable file, a nullable reference) resolve
// deterministically:
//
//  1. file references -> retrieval URL or nil
//  2. UUID / date / datetime values -> canonical string form
//  3. entity references -> display string
//  4. everything else -> the value itself when JSON-representable, its
//     string form otherwise
func Scalar(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case FileRef:
		if v.URL == "" {
			return nil
		}
		return v.URL
	case *FileRef:
		if v == nil || v.URL == "" {
			return nil
		}
		return v.URL
	case uuid.UUID:
		return v.String()
	case *uuid.UUID:
		if v == nil {
			return nil
		}
		return v.String()
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case *time.Time:
		if v == nil {
			return nil
		}
		return v.UTC().Format(time.RFC3339)
	case Displayer:
		return v.DisplayString()
	}
	if _, err := json.Marshal(value); err == nil {
		return value
	}
	return fmt.Sprint(value)
}
