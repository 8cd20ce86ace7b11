package template

// Template is a reusable checklist of tasks for a site type.
type Template struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tasks       []string `json:"tasks"`
}

// EntityID implements store.Entity.
func (t Template) EntityID() string { return t.ID }
