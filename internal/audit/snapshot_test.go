package audit

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type displayRef struct{ name string }

func (d displayRef) DisplayString() string { return d.name }

func TestScalarPriorityOrder(t *testing.T) {
	id := uuid.MustParse("3e0170e7-4ac4-4385-9f71-e84e97edbd27")
	ts := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)

	require.Equal(t, "https://cdn.example.com/menu/42.png", Scalar(FileRef{URL: "https://cdn.example.com/menu/42.png"}))
	require.Nil(t, Scalar(FileRef{}))
	require.Nil(t, Scalar((*FileRef)(nil)))

	require.Equal(t, "3e0170e7-4ac4-4385-9f71-e84e97edbd27", Scalar(id))
	require.Equal(t, "2025-06-01T14:30:00Z", Scalar(ts))
	require.Nil(t, Scalar((*time.Time)(nil)))

	require.Equal(t, "Deluxe Suite - Seaview Hotel", Scalar(displayRef{name: "Deluxe Suite - Seaview Hotel"}))

	require.Equal(t, "alice", Scalar("alice"))
	require.Equal(t, 3, Scalar(3))
	require.Equal(t, true, Scalar(true))
	require.Nil(t, Scalar(nil))

	// Non-JSON-representable values fall back to their string form.
	require.Equal(t, "(4+2i)", Scalar(complex(4, 2)))
}

func TestFieldsCoercesEveryValue(t *testing.T) {
	id := uuid.New()
	snap := Fields(map[string]any{
		"id":    id,
		"photo": FileRef{},
		"owner": displayRef{name: "Front Desk"},
		"count": 2,
	})
	require.Equal(t, id.String(), snap["id"])
	require.Nil(t, snap["photo"])
	require.Equal(t, "Front Desk", snap["owner"])
	require.Equal(t, 2, snap["count"])
}

func TestTimeSince(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.Equal(t, "just now", TimeSince(now.Add(-20*time.Second), now))
	require.Equal(t, "1 minute ago", TimeSince(now.Add(-90*time.Second), now))
	require.Equal(t, "5 minutes ago", TimeSince(now.Add(-5*time.Minute), now))
	require.Equal(t, "3 hours ago", TimeSince(now.Add(-3*time.Hour), now))
	require.Equal(t, "2 days ago", TimeSince(now.Add(-49*time.Hour), now))
	require.Equal(t, "1 week ago", TimeSince(now.Add(-8*24*time.Hour), now))
	require.Equal(t, "2 months ago", TimeSince(now.Add(-65*24*time.Hour), now))
	require.Equal(t, "1 year ago", TimeSince(now.Add(-400*24*time.Hour), now))
}
