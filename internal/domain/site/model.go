package site

import "time"

// Status is the workflow state of a construction site. The values are the
// wire values persisted by existing installations and must not change.
type Status string

const (
	StatusNew        Status = "Nouveau"
	StatusInProgress Status = "En cours"
	StatusInReview   Status = "En révision"
	StatusDone       Status = "Terminé"
	StatusArchived   Status = "Archivé"
)

// Site represents a construction site (chantier).
type Site struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Client      string  `json:"client"`
	ClientID    string  `json:"clientId,omitempty"`
	Address     string  `json:"address"`
	Lat         float64 `json:"lat,omitempty"`
	Lng         float64 `json:"lng,omitempty"`
	Status      Status  `json:"status"`
	Budget      float64 `json:"budget"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	Description string  `json:"description,omitempty"`
	TeamID      string  `json:"teamId,omitempty"`
	Progress    int     `json:"progress,omitempty"`
}

// EntityID implements store.Entity.
func (s Site) EntityID() string { return s.ID }

// ActiveOn reports whether the site occupies capacity on the given date.
// Archived sites never count. The comparison is calendar-day granular: the
// probe date is truncated to midnight and the end date extends through the
// end of its day, so a site starting at 23:59 and one ending at 00:01 the
// next day are both active on both days.
func (s Site) ActiveOn(date time.Time) bool {
	if s.Status == StatusArchived {
		return false
	}
	start, err := ParseDate(s.StartDate)
	if err != nil {
		return false
	}
	end, err := ParseDate(s.EndDate)
	if err != nil {
		return false
	}
	day := dayOf(date)
	return !day.Before(dayOf(start)) && !day.After(dayOf(end))
}

// ParseDate accepts both bare dates and full RFC 3339 timestamps, the two
// formats found in persisted site records.
func ParseDate(v string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
