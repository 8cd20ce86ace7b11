package lead

// Status is a lead's position in the sales pipeline. Wire values match
// existing persisted data.
type Status string

const (
	StatusNew         Status = "Nouveau"
	StatusQualified   Status = "Qualifié"
	StatusQuoteSent   Status = "Devis envoyé"
	StatusNegotiation Status = "Négociation"
	StatusWon         Status = "Gagné"
	StatusLost        Status = "Perdu"
)

// Valid reports whether s is one of the known pipeline statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusQualified, StatusQuoteSent, StatusNegotiation, StatusWon, StatusLost:
		return true
	}
	return false
}

// Lead is a sales prospect. Won is not written directly: it is gated behind
// the conversion flow that produces a companion Site first. Lost is terminal
// but retained.
type Lead struct {
	ID              string  `json:"id"`
	ContactName     string  `json:"contactName"`
	CompanyName     string  `json:"companyName,omitempty"`
	ProjectType     string  `json:"projectType"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	Status          Status  `json:"status"`
	EstimatedBudget float64 `json:"estimatedBudget"`
	Source          string  `json:"source"`
	CreatedAt       string  `json:"createdAt"`
	Notes           string  `json:"notes,omitempty"`
}

// EntityID implements store.Entity.
func (l Lead) EntityID() string { return l.ID }
