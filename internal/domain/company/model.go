package company

// Company holds tenant-level configuration. SimultaneousLimit caps how many
// sites may be active on the same day; zero means no limit is enforced.
//
// The record's CompanyID mirrors its own ID so that company documents flow
// through the same company-filtered queries as every other collection.
type Company struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	CompanyID         string `json:"companyId"`
	SimultaneousLimit int    `json:"simultaneousLimit"`
}

// EntityID implements store.Entity.
func (c Company) EntityID() string { return c.ID }
