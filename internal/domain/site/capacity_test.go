package site_test

import (
	"testing"
	"time"

	"github.com/revobtp/revo-server/internal/domain/site"
	"github.com/stretchr/testify/require"
)

func day(v string) time.Time {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCountActiveOn_DayGranularity(t *testing.T) {
	sites := []site.Site{
		// Starts late in the evening, ends early the next morning: active on
		// both calendar days regardless of elapsed hours.
		{ID: "s1", Status: site.StatusInProgress, StartDate: "2025-06-10T23:59:00Z", EndDate: "2025-06-11T00:01:00Z"},
	}
	e := site.NewEvaluator(sites, 0)

	require.Equal(t, 1, e.CountActiveOn(day("2025-06-10")))
	require.Equal(t, 1, e.CountActiveOn(day("2025-06-11")))
	require.Equal(t, 0, e.CountActiveOn(day("2025-06-09")))
	require.Equal(t, 0, e.CountActiveOn(day("2025-06-12")))
}

func TestCountActiveOn_SingleDaySite(t *testing.T) {
	sites := []site.Site{
		{ID: "s1", Status: site.StatusInProgress, StartDate: "2025-06-10", EndDate: "2025-06-10"},
	}
	e := site.NewEvaluator(sites, 0)

	require.Equal(t, 1, e.CountActiveOn(day("2025-06-10")))
	require.Equal(t, 0, e.CountActiveOn(day("2025-06-09")))
	require.Equal(t, 0, e.CountActiveOn(day("2025-06-11")))
}

func TestCountActiveOn_ProbeTimeOfDayIgnored(t *testing.T) {
	sites := []site.Site{
		{ID: "s1", Status: site.StatusInProgress, StartDate: "2025-06-10", EndDate: "2025-06-10"},
	}
	e := site.NewEvaluator(sites, 0)

	probe := time.Date(2025, 6, 10, 22, 45, 12, 0, time.UTC)
	require.Equal(t, 1, e.CountActiveOn(probe))
}

func TestCountActiveOn_ArchivedExcluded(t *testing.T) {
	today := day("2025-06-10")
	sites := []site.Site{
		{ID: "s1", Status: site.StatusInProgress, StartDate: "2025-06-01", EndDate: "2025-06-30"},
		{ID: "s2", Status: site.StatusArchived, StartDate: "2025-06-01", EndDate: "2025-06-30"},
	}
	e := site.NewEvaluator(sites, 1)

	require.Equal(t, 1, e.CountActiveOn(today))
	require.True(t, e.IsOverLimitOn(today))
}

func TestIsOverLimitOn(t *testing.T) {
	active := site.Site{Status: site.StatusInProgress, StartDate: "2025-06-01", EndDate: "2025-06-30"}
	probe := day("2025-06-15")

	tests := []struct {
		name  string
		sites []site.Site
		limit int
		want  bool
	}{
		{"limit disabled when zero", []site.Site{active, active, active}, 0, false},
		{"limit disabled when negative", []site.Site{active, active}, -1, false},
		{"under limit", []site.Site{active}, 2, false},
		{"at limit", []site.Site{active, active}, 2, true},
		{"over limit", []site.Site{active, active, active}, 2, true},
		{"no sites in range", nil, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := site.NewEvaluator(tt.sites, tt.limit)
			require.Equal(t, tt.want, e.IsOverLimitOn(probe))
		})
	}
}

func TestIsSiteOverLimitToday(t *testing.T) {
	today := day("2025-06-15")
	current := site.Site{ID: "cur", Status: site.StatusInProgress, StartDate: "2025-06-01", EndDate: "2025-06-30"}
	future := site.Site{ID: "fut", Status: site.StatusNew, StartDate: "2025-07-01", EndDate: "2025-07-31"}
	archived := site.Site{ID: "arc", Status: site.StatusArchived, StartDate: "2025-06-01", EndDate: "2025-06-30"}

	e := site.NewEvaluator([]site.Site{current, current, future, archived}, 2)

	// Today's count is 2, limit is 2: the active site warns.
	require.True(t, e.IsSiteOverLimitToday(current, today))

	// A site whose range excludes today never warns, even though today is
	// at capacity for other sites.
	require.False(t, e.IsSiteOverLimitToday(future, today))

	// Archived sites never warn.
	require.False(t, e.IsSiteOverLimitToday(archived, today))
}

func TestIsSiteOverLimitToday_UnderLimit(t *testing.T) {
	today := day("2025-06-15")
	current := site.Site{ID: "cur", Status: site.StatusInProgress, StartDate: "2025-06-01", EndDate: "2025-06-30"}

	e := site.NewEvaluator([]site.Site{current}, 5)
	require.False(t, e.IsSiteOverLimitToday(current, today))
}
