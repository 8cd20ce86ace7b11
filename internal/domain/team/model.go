package team

// Team is a crew assignable to sites.
type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
	Color   string   `json:"color"`
}

// EntityID implements store.Entity.
func (t Team) EntityID() string { return t.ID }
