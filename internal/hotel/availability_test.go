package hotel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, 7, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"identical intervals", day(1), day(5), day(1), day(5), true},
		{"contained interval", day(1), day(10), day(3), day(5), true},
		{"partial overlap front", day(1), day(5), day(4), day(8), true},
		{"partial overlap back", day(4), day(8), day(1), day(5), true},
		{"touching endpoints do not conflict", day(1), day(5), day(5), day(9), false},
		{"touching endpoints reversed", day(5), day(9), day(1), day(5), false},
		{"disjoint", day(1), day(3), day(6), day(9), false},
		{"single night inside", day(3), day(4), day(1), day(10), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
		})
	}
}

func TestValidInterval(t *testing.T) {
	require.True(t, ValidInterval(day(1), day(2)))
	require.False(t, ValidInterval(day(2), day(2)))
	require.False(t, ValidInterval(day(3), day(2)))
}

func TestBookingNights(t *testing.T) {
	b := Booking{CheckIn: day(1), CheckOut: day(4)}
	require.Equal(t, 3, b.Nights())
}
