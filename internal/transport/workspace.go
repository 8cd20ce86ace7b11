package transport

import (
	"context"
	"log/slog"
	"sync"

	"github.com/revobtp/revo-server/internal/domain/client"
	"github.com/revobtp/revo-server/internal/domain/company"
	"github.com/revobtp/revo-server/internal/domain/lead"
	"github.com/revobtp/revo-server/internal/domain/site"
	"github.com/revobtp/revo-server/internal/domain/team"
	"github.com/revobtp/revo-server/internal/domain/template"
	"github.com/revobtp/revo-server/internal/remote"
	"github.com/revobtp/revo-server/internal/seed"
	"github.com/revobtp/revo-server/internal/store"
)

// Workspace is the one active set of stores for a tenant context. The
// store design assumes a single owner per tenant+collection pair; the
// registry below enforces it server-side.
type Workspace struct {
	Tenant    store.Tenant
	Sites     *store.Store[site.Site]
	Clients   *store.Store[client.Client]
	Leads     *store.Store[lead.Lead]
	Templates *store.Store[template.Template]
	Teams     *store.Store[team.Team]
	Companies *store.Store[company.Company]
	Pipeline  *lead.Service
}

// Close releases every store.
func (w *Workspace) Close() {
	w.Sites.Close()
	w.Clients.Close()
	w.Leads.Close()
	w.Templates.Close()
	w.Teams.Close()
	w.Companies.Close()
}

// Registry hands out at most one live workspace per tenant context,
// creating it lazily on first use.
type Registry struct {
	ctx      context.Context
	remote   remote.Collection
	mirror   store.Mirror
	notifier store.Notifier
	logger   *slog.Logger

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

// NewRegistry creates a workspace registry. ctx bounds the lifetime of all
// remote subscriptions.
func NewRegistry(ctx context.Context, rc remote.Collection, m store.Mirror, notifier store.Notifier, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		ctx:        ctx,
		remote:     rc,
		mirror:     m,
		notifier:   notifier,
		logger:     logger,
		workspaces: make(map[string]*Workspace),
	}
}

// Workspace returns the tenant's workspace, creating and starting it on
// first use.
func (r *Registry) Workspace(tenant store.Tenant) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ws, ok := r.workspaces[tenant.Key()]; ok {
		return ws
	}

	ws := &Workspace{
		Tenant:    tenant,
		Sites:     newStore(r, tenant, "sites", seed.Sites()),
		Clients:   newStore(r, tenant, "clients", seed.Clients()),
		Leads:     newStore(r, tenant, "leads", seed.Leads()),
		Templates: newStore(r, tenant, "templates", seed.Templates()),
		Teams:     newStore(r, tenant, "teams", seed.Teams()),
		Companies: newStore(r, tenant, "companies", seed.Companies()),
	}
	ws.Pipeline = lead.NewService(ws.Leads, ws.Sites, r.logger)

	ws.Sites.Start(r.ctx)
	ws.Clients.Start(r.ctx)
	ws.Leads.Start(r.ctx)
	ws.Templates.Start(r.ctx)
	ws.Teams.Start(r.ctx)
	ws.Companies.Start(r.ctx)

	r.workspaces[tenant.Key()] = ws
	r.logger.Info("workspace opened", "tenant", tenant.Key())
	return ws
}

// Evict closes and forgets a tenant's workspace.
func (r *Registry) Evict(tenant store.Tenant) {
	r.mu.Lock()
	ws, ok := r.workspaces[tenant.Key()]
	delete(r.workspaces, tenant.Key())
	r.mu.Unlock()

	if ok {
		ws.Close()
		r.logger.Info("workspace evicted", "tenant", tenant.Key())
	}
}

// Close releases every workspace.
func (r *Registry) Close() {
	r.mu.Lock()
	workspaces := r.workspaces
	r.workspaces = make(map[string]*Workspace)
	r.mu.Unlock()

	for _, ws := range workspaces {
		ws.Close()
	}
}

func newStore[T store.Entity](r *Registry, tenant store.Tenant, collection string, defaults []T) *store.Store[T] {
	return store.New(store.Config[T]{
		Collection: collection,
		Tenant:     tenant,
		Remote:     r.remote,
		Mirror:     r.mirror,
		Defaults:   defaults,
		Notifier:   r.notifier,
		Logger:     r.logger,
	})
}
