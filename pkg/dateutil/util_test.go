package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_IsToday(t *testing.T) {
	now := time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)

	testcases := []struct {
		name     string
		t        time.Time
		expected bool
	}{
		{
			name:     "same moment",
			t:        now,
			expected: true,
		},
		{
			name:     "midnight today is inclusive",
			t:        time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
			expected: true,
		},
		{
			name:     "last instant of today",
			t:        time.Date(2024, 5, 10, 23, 59, 59, 999999999, time.UTC),
			expected: true,
		},
		{
			name:     "last instant of yesterday",
			t:        time.Date(2024, 5, 9, 23, 59, 59, 999999999, time.UTC),
			expected: false,
		},
		{
			name:     "midnight tomorrow is exclusive",
			t:        time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC),
			expected: false,
		},
		{
			name:     "zero time",
			t:        time.Time{},
			expected: false,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, IsToday(tc.t, now))
		})
	}
}

func Test_IsToday_ConvertsLocation(t *testing.T) {
	now := time.Date(2024, 5, 10, 1, 0, 0, 0, time.UTC)

	// 23:00 on May 9 at UTC-3 is 02:00 on May 10 in UTC.
	west := time.FixedZone("UTC-3", -3*60*60)
	require.True(t, IsToday(time.Date(2024, 5, 9, 23, 0, 0, 0, west), now))
}

func Test_BeginningOfDay(t *testing.T) {
	moment := time.Date(2024, 5, 10, 15, 30, 45, 123, time.UTC)
	require.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), BeginningOfDay(moment))
}
