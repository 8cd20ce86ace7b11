package store

import "fmt"

// Mode selects the backing of a tenant's collections. It is decided once,
// when the tenant context is established, never inferred per call.
type Mode int

const (
	// ModeRemote subscribes to the hosted document service.
	ModeRemote Mode = iota
	// ModeLocalDemo runs the built-in demo account on local persistence.
	ModeLocalDemo
	// ModeLocalOffline runs a real account on local persistence, without a
	// remote subscription.
	ModeLocalOffline
)

func (m Mode) String() string {
	switch m {
	case ModeRemote:
		return "remote"
	case ModeLocalDemo:
		return "local-demo"
	case ModeLocalOffline:
		return "local-offline"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Tenant is the explicit tenant context a store is bound to.
type Tenant struct {
	Mode      Mode
	CompanyID string
	UserID    string
}

// NewRemoteTenant binds a store to a live company account.
func NewRemoteTenant(companyID, userID string) Tenant {
	return Tenant{Mode: ModeRemote, CompanyID: companyID, UserID: userID}
}

// NewDemoTenant binds a store to the given demo company, local-only.
func NewDemoTenant(companyID string) Tenant {
	return Tenant{Mode: ModeLocalDemo, CompanyID: companyID}
}

// NewOfflineTenant binds a store to a real account forced local.
func NewOfflineTenant(companyID, userID string) Tenant {
	return Tenant{Mode: ModeLocalOffline, CompanyID: companyID, UserID: userID}
}

// Local reports whether the tenant operates without a remote subscription.
func (t Tenant) Local() bool { return t.Mode != ModeRemote }

// Key is a stable identity for "one active store per tenant+collection"
// registries.
func (t Tenant) Key() string {
	return fmt.Sprintf("%s|%s|%s", t.Mode, t.CompanyID, t.UserID)
}
