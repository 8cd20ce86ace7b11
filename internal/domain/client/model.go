package client

// Client is a customer record.
type Client struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Address string `json:"address"`
	Avatar  string `json:"avatar,omitempty"`
}

// EntityID implements store.Entity.
func (c Client) EntityID() string { return c.ID }
