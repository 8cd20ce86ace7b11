// Package seed provides the built-in datasets a local-mode tenant starts
// from when the mirror holds no snapshot for a collection yet.
package seed

import (
	"github.com/revobtp/revo-server/internal/domain/client"
	"github.com/revobtp/revo-server/internal/domain/company"
	"github.com/revobtp/revo-server/internal/domain/lead"
	"github.com/revobtp/revo-server/internal/domain/site"
	"github.com/revobtp/revo-server/internal/domain/team"
	"github.com/revobtp/revo-server/internal/domain/template"
)

// DemoCompanyID is the company identity of the built-in demo tenant.
const DemoCompanyID = "demo-company-id"

// DefaultSimultaneousLimit is the capacity limit the demo tenant ships with.
const DefaultSimultaneousLimit = 3

// Sites returns the default site dataset.
func Sites() []site.Site {
	return []site.Site{
		{
			ID: "mock_s1", Name: "Rénovation appartement Haussmann", Client: "Claire Fontaine",
			ClientID: "mock_c1", Address: "12 rue de Rivoli, Paris", Lat: 48.8556, Lng: 2.3600,
			Status: site.StatusInProgress, Budget: 85000,
			StartDate: "2025-05-12", EndDate: "2025-08-29", Progress: 45, TeamID: "mock_t1",
			Description: "Rénovation complète, plomberie et électricité.",
		},
		{
			ID: "mock_s2", Name: "Extension maison Boulogne", Client: "Marc Lavoine",
			ClientID: "mock_c2", Address: "4 avenue Victor Hugo, Boulogne", Lat: 48.8352, Lng: 2.2410,
			Status: site.StatusNew, Budget: 120000,
			StartDate: "2025-07-01", EndDate: "2025-11-15", Progress: 0,
		},
		{
			ID: "mock_s3", Name: "Ravalement façade Montreuil", Client: "SCI Les Lilas",
			Address: "27 rue de Paris, Montreuil",
			Status:  site.StatusDone, Budget: 30000,
			StartDate: "2025-02-03", EndDate: "2025-04-18", Progress: 100,
		},
	}
}

// Clients returns the default client dataset.
func Clients() []client.Client {
	return []client.Client{
		{ID: "mock_c1", Name: "Claire Fontaine", Email: "claire@exemple.fr", Phone: "06 12 34 56 78", Company: "Particulier", Address: "12 rue de Rivoli, Paris"},
		{ID: "mock_c2", Name: "Marc Lavoine", Email: "marc@exemple.fr", Phone: "06 98 76 54 32", Company: "Particulier", Address: "4 avenue Victor Hugo, Boulogne"},
		{ID: "mock_c3", Name: "SCI Les Lilas", Email: "contact@sci-leslilas.fr", Phone: "01 42 00 00 00", Company: "SCI Les Lilas", Address: "27 rue de Paris, Montreuil"},
	}
}

// Leads returns the default lead dataset.
func Leads() []lead.Lead {
	return []lead.Lead{
		{ID: "mock_l1", ContactName: "Julie Bernard", ProjectType: "Rénovation totale", Email: "julie@exemple.fr", Phone: "06 11 22 33 44", Status: lead.StatusNew, EstimatedBudget: 95000, Source: "Site Web", CreatedAt: "2025-06-01T09:30:00Z"},
		{ID: "mock_l2", ContactName: "Antoine Girard", ProjectType: "Surélévation", Email: "antoine@exemple.fr", Phone: "06 55 66 77 88", Status: lead.StatusQuoteSent, EstimatedBudget: 140000, Source: "Bouche à oreille", CreatedAt: "2025-05-20T14:00:00Z", Notes: "Relancer après les congés."},
		{ID: "mock_l3", ContactName: "Sophie Marchand", ProjectType: "Salle de bain", Email: "sophie@exemple.fr", Phone: "06 99 88 77 66", Status: lead.StatusLost, EstimatedBudget: 18000, Source: "Publicité", CreatedAt: "2025-04-11T10:15:00Z"},
	}
}

// Templates returns the default checklist-template dataset.
func Templates() []template.Template {
	return []template.Template{
		{ID: "mock_tp1", Name: "Rénovation standard", Description: "Étapes types d'une rénovation intérieure.",
			Tasks: []string{"État des lieux", "Démolition", "Gros œuvre", "Plomberie", "Électricité", "Plâtrerie", "Peinture", "Réception"}},
		{ID: "mock_tp2", Name: "Ravalement", Description: "Façade et finitions extérieures.",
			Tasks: []string{"Échafaudage", "Nettoyage", "Réparation fissures", "Enduit", "Peinture", "Repli"}},
	}
}

// Teams returns the default team dataset.
func Teams() []team.Team {
	return []team.Team{
		{ID: "mock_t1", Name: "Équipe Gros Œuvre", Members: []string{"JD", "PL", "MK"}, Color: "#f97316"},
		{ID: "mock_t2", Name: "Équipe Finitions", Members: []string{"AS", "RB"}, Color: "#3b82f6"},
	}
}

// Companies returns the default company dataset.
func Companies() []company.Company {
	return []company.Company{
		{ID: DemoCompanyID, Name: "Ma Société (Mode Local)", CompanyID: DemoCompanyID, SimultaneousLimit: DefaultSimultaneousLimit},
	}
}
