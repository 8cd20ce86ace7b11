package lead

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/revobtp/revo-server/internal/domain/site"
	"github.com/revobtp/revo-server/internal/store"
)

// conversionWindow is the default site duration when the conversion form
// leaves the end date blank.
const conversionWindow = 30 * 24 * time.Hour

// Service drives the lead pipeline. Plain status moves go straight to the
// leads store; the one exception is Won, which is gated behind Convert so a
// lead is only marked won once its companion site exists.
type Service struct {
	leads  *store.Store[Lead]
	sites  *store.Store[site.Site]
	logger *slog.Logger
}

// NewService creates a new lead pipeline service.
func NewService(leads *store.Store[Lead], sites *store.Store[site.Site], logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{leads: leads, sites: sites, logger: logger}
}

// Move writes a lead's pipeline status. Moving to Won is refused: callers
// must go through Convert instead.
func (s *Service) Move(ctx context.Context, id string, to Status) (store.SaveResult, error) {
	if !to.Valid() {
		return store.SaveResult{}, ErrInvalidStatus
	}
	if to == StatusWon {
		return store.SaveResult{}, ErrConversionRequired
	}
	if _, ok := s.find(id); !ok {
		return store.SaveResult{}, ErrLeadNotFound
	}
	return s.leads.Update(ctx, id, map[string]any{"status": string(to)})
}

// ConversionRequest carries the site-specific fields a lead doesn't have.
type ConversionRequest struct {
	Address   string `json:"address"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Convert turns a lead into a site and only then marks the lead won. If the
// site cannot be created the lead keeps its prior status and the error is
// returned: a won lead without a site is never observable from here.
func (s *Service) Convert(ctx context.Context, id string, req ConversionRequest) (site.Site, error) {
	l, ok := s.find(id)
	if !ok {
		return site.Site{}, ErrLeadNotFound
	}

	start := req.StartDate
	startDay := time.Now().UTC()
	if start == "" {
		start = startDay.Format("2006-01-02")
	} else {
		parsed, err := site.ParseDate(start)
		if err != nil {
			return site.Site{}, fmt.Errorf("%w: startDate %q", ErrInvalidDate, req.StartDate)
		}
		startDay = parsed
	}
	end := req.EndDate
	if end == "" {
		end = startDay.Add(conversionWindow).Format("2006-01-02")
	} else if _, err := site.ParseDate(end); err != nil {
		return site.Site{}, fmt.Errorf("%w: endDate %q", ErrInvalidDate, req.EndDate)
	}
	address := req.Address
	if address == "" {
		address = "Paris, France"
	}

	newSite := site.Site{
		Name:        fmt.Sprintf("%s - %s", l.ProjectType, l.ContactName),
		Client:      l.ContactName,
		ClientID:    "converted-lead",
		Address:     address,
		Status:      site.StatusNew,
		Budget:      l.EstimatedBudget,
		StartDate:   start,
		EndDate:     end,
		Progress:    0,
		Description: fmt.Sprintf("Chantier issu du prospect %s.", l.ContactName),
	}

	res, err := s.sites.Add(ctx, newSite)
	if err != nil {
		s.logger.Error("conversion aborted, site creation failed", "lead", id, "error", err)
		return site.Site{}, fmt.Errorf("creating site for lead %s: %w", id, err)
	}
	newSite.ID = res.ID

	if _, err := s.leads.Update(ctx, id, map[string]any{"status": string(StatusWon)}); err != nil {
		// The site exists but the lead could not be marked won; surface it,
		// the caller decides how to reconcile.
		return newSite, fmt.Errorf("marking lead %s won: %w", id, err)
	}

	s.logger.Info("lead converted", "lead", id, "site", newSite.ID, "persistedTo", res.PersistedTo)
	return newSite, nil
}

func (s *Service) find(id string) (Lead, bool) {
	for _, l := range s.leads.Items() {
		if l.ID == id {
			return l, true
		}
	}
	return Lead{}, false
}
