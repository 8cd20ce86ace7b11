package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/revobtp/revo-server/internal/domain/client"
	"github.com/revobtp/revo-server/internal/domain/company"
	"github.com/revobtp/revo-server/internal/domain/lead"
	"github.com/revobtp/revo-server/internal/domain/site"
	"github.com/revobtp/revo-server/internal/domain/team"
	"github.com/revobtp/revo-server/internal/domain/template"
	"github.com/revobtp/revo-server/internal/store"
)

// ServerDependencies assembles what the HTTP server needs.
type ServerDependencies struct {
	Registry      *Registry
	Resolver      TenantResolver
	AuthEnabled   bool
	DemoCompanyID string
	Logger        *slog.Logger
}

// Server is the REST surface the site, client, lead, template and team
// views consume.
type Server struct {
	echo     *echo.Echo
	registry *Registry
	logger   *slog.Logger
}

// NewServer builds the echo server and its routes.
func NewServer(deps ServerDependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())

	s := &Server{echo: e, registry: deps.Registry, logger: logger}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api", AuthMiddleware(deps.Resolver, deps.AuthEnabled, deps.DemoCompanyID))

	registerCollection(api, s, "clients", func(ws *Workspace) *store.Store[client.Client] { return ws.Clients }, nil)
	registerCollection(api, s, "templates", func(ws *Workspace) *store.Store[template.Template] { return ws.Templates }, nil)
	registerCollection(api, s, "teams", func(ws *Workspace) *store.Store[team.Team] { return ws.Teams }, nil)
	registerCollection(api, s, "leads", func(ws *Workspace) *store.Store[lead.Lead] { return ws.Leads }, nil)
	// The site list carries the shared capacity verdict, so every view
	// renders the same warning.
	registerCollection(api, s, "sites", func(ws *Workspace) *store.Store[site.Site] { return ws.Sites }, s.listSites)

	api.GET("/capacity", s.getCapacity)
	api.POST("/leads/:id/move", s.moveLead)
	api.POST("/leads/:id/convert", s.convertLead)
	api.GET("/company", s.getCompany)
	api.PUT("/company", s.putCompany)

	return s
}

// Start begins serving on addr.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) workspace(c echo.Context) (*Workspace, error) {
	tenant, ok := TenantFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "no tenant")
	}
	return s.registry.Workspace(tenant), nil
}

// registerCollection wires the uniform CRUD contract for one collection:
// list, add, update, remove, plus a server-sent-events stream of snapshots.
// A non-nil list handler replaces the generic one.
func registerCollection[T store.Entity](g *echo.Group, s *Server, name string, pick func(*Workspace) *store.Store[T], list echo.HandlerFunc) {
	if list == nil {
		list = func(c echo.Context) error {
			ws, err := s.workspace(c)
			if err != nil {
				return err
			}
			st := pick(ws)
			if err := st.Err(); err != nil {
				return echo.NewHTTPError(http.StatusBadGateway, fmt.Sprintf("collection unavailable: %v", err))
			}
			return c.JSON(http.StatusOK, map[string]any{
				"items":   st.Items(),
				"loading": st.Loading(),
			})
		}
	}
	g.GET("/"+name, list)

	g.POST("/"+name, func(c echo.Context) error {
		ws, err := s.workspace(c)
		if err != nil {
			return err
		}
		var rec T
		if err := c.Bind(&rec); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		res, err := pick(ws).Add(c.Request().Context(), rec)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("persisting record: %v", err))
		}
		return c.JSON(http.StatusCreated, res)
	})

	g.PATCH("/"+name+"/:id", func(c echo.Context) error {
		ws, err := s.workspace(c)
		if err != nil {
			return err
		}
		// Decoded straight from the body: echo's binder would also inject
		// the :id path param into the map, and a partial update must carry
		// exactly the fields the caller sent.
		patch := map[string]any{}
		if err := json.NewDecoder(c.Request().Body).Decode(&patch); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		res, err := pick(ws).Update(c.Request().Context(), c.Param("id"), patch)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("persisting record: %v", err))
		}
		return c.JSON(http.StatusOK, res)
	})

	g.DELETE("/"+name+"/:id", func(c echo.Context) error {
		ws, err := s.workspace(c)
		if err != nil {
			return err
		}
		res, err := pick(ws).Remove(c.Request().Context(), c.Param("id"))
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("persisting record: %v", err))
		}
		return c.JSON(http.StatusOK, res)
	})

	g.GET("/"+name+"/stream", func(c echo.Context) error {
		ws, err := s.workspace(c)
		if err != nil {
			return err
		}
		return streamSnapshots(c, pick(ws))
	})
}

func streamSnapshots[T store.Entity](c echo.Context, st *store.Store[T]) error {
	ch, cancel := st.Watch()
	defer cancel()

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.WriteHeader(http.StatusOK)

	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		case snap, ok := <-ch:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(map[string]any{
				"items":   snap.Items,
				"loading": snap.Loading,
			})
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(resp, "data: %s\n\n", payload); err != nil {
				return err
			}
			resp.Flush()
		}
	}
}

// siteView is a site plus the capacity verdict for today.
type siteView struct {
	site.Site
	OverLimitToday bool `json:"overLimitToday"`
}

func (s *Server) listSites(c echo.Context) error {
	ws, err := s.workspace(c)
	if err != nil {
		return err
	}
	if err := ws.Sites.Err(); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, fmt.Sprintf("collection unavailable: %v", err))
	}

	sites := ws.Sites.Items()
	eval := site.NewEvaluator(sites, s.companyLimit(ws))
	today := time.Now().UTC()

	views := make([]siteView, len(sites))
	for i, st := range sites {
		views[i] = siteView{Site: st, OverLimitToday: eval.IsSiteOverLimitToday(st, today)}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"items":   views,
		"loading": ws.Sites.Loading(),
		"limit":   eval.Limit,
	})
}

func (s *Server) getCapacity(c echo.Context) error {
	ws, err := s.workspace(c)
	if err != nil {
		return err
	}

	date := time.Now().UTC()
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		date = parsed
	}

	eval := site.NewEvaluator(ws.Sites.Items(), s.companyLimit(ws))
	return c.JSON(http.StatusOK, map[string]any{
		"date":      date.Format("2006-01-02"),
		"count":     eval.CountActiveOn(date),
		"limit":     eval.Limit,
		"overLimit": eval.IsOverLimitOn(date),
	})
}

func (s *Server) moveLead(c echo.Context) error {
	ws, err := s.workspace(c)
	if err != nil {
		return err
	}
	var req struct {
		Status lead.Status `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	res, err := ws.Pipeline.Move(c.Request().Context(), c.Param("id"), req.Status)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, res)
	case errors.Is(err, lead.ErrConversionRequired):
		return echo.NewHTTPError(http.StatusConflict, "winning a lead requires conversion")
	case errors.Is(err, lead.ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, "unknown lead status")
	case errors.Is(err, lead.ErrLeadNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "lead not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("moving lead: %v", err))
	}
}

func (s *Server) convertLead(c echo.Context) error {
	ws, err := s.workspace(c)
	if err != nil {
		return err
	}
	var req lead.ConversionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	created, err := ws.Pipeline.Convert(c.Request().Context(), c.Param("id"), req)
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, created)
	case errors.Is(err, lead.ErrInvalidDate):
		return echo.NewHTTPError(http.StatusBadRequest, "dates must be YYYY-MM-DD or RFC 3339")
	case errors.Is(err, lead.ErrLeadNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "lead not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("converting lead: %v", err))
	}
}

func (s *Server) getCompany(c echo.Context) error {
	ws, err := s.workspace(c)
	if err != nil {
		return err
	}
	if rec, ok := s.companyRecord(ws); ok {
		return c.JSON(http.StatusOK, rec)
	}
	return c.JSON(http.StatusOK, company.Company{
		ID:        ws.Tenant.CompanyID,
		CompanyID: ws.Tenant.CompanyID,
	})
}

func (s *Server) putCompany(c echo.Context) error {
	ws, err := s.workspace(c)
	if err != nil {
		return err
	}
	var req struct {
		Name              *string `json:"name"`
		SimultaneousLimit *int    `json:"simultaneousLimit"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.SimultaneousLimit != nil && *req.SimultaneousLimit < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "simultaneousLimit must not be negative")
	}

	patch := map[string]any{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.SimultaneousLimit != nil {
		patch["simultaneousLimit"] = *req.SimultaneousLimit
	}

	ctx := c.Request().Context()
	if rec, ok := s.companyRecord(ws); ok {
		res, err := ws.Companies.Update(ctx, rec.ID, patch)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("persisting company: %v", err))
		}
		return c.JSON(http.StatusOK, res)
	}

	rec := company.Company{CompanyID: ws.Tenant.CompanyID}
	if req.Name != nil {
		rec.Name = *req.Name
	}
	if req.SimultaneousLimit != nil {
		rec.SimultaneousLimit = *req.SimultaneousLimit
	}
	res, err := ws.Companies.Add(ctx, rec)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("persisting company: %v", err))
	}
	return c.JSON(http.StatusCreated, res)
}

// companyRecord finds the tenant's company configuration in the companies
// collection.
func (s *Server) companyRecord(ws *Workspace) (company.Company, bool) {
	for _, rec := range ws.Companies.Items() {
		if rec.CompanyID == ws.Tenant.CompanyID || rec.ID == ws.Tenant.CompanyID {
			return rec, true
		}
	}
	return company.Company{}, false
}

func (s *Server) companyLimit(ws *Workspace) int {
	if rec, ok := s.companyRecord(ws); ok {
		return rec.SimultaneousLimit
	}
	return 0
}
