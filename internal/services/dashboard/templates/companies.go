package templates

import (
	"context"

	"github.com/a-h/templ"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/organization"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/routepath"
)

// CompaniesView is the organizations list.
type CompaniesView struct {
	Companies []organization.Company
	Loading   bool
	Error     string
}

// CompaniesPage renders company cards or the empty state.
func CompaniesPage(view CompaniesView, loc Localizer) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.element("h1", T(loc, "companies.title"))
		if view.Error != "" {
			h.element("div", view.Error, "class", "alert alert-error", "role", "alert")
		}
		if len(view.Companies) == 0 {
			if view.Loading {
				h.render(ctx, LoadingState(routepath.Companies, loc))
				return
			}
			h.render(ctx, EmptyState(T(loc, "companies.empty")))
			return
		}
		h.render(ctx, CompanyCards(view.Companies, loc))
	})
}

// CompanyCards renders one card per company summary.
func CompanyCards(companies []organization.Company, loc Localizer) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.open("ul", "class", "company-cards")
		for _, company := range companies {
			h.open("li", "class", "company-card", "data-company", company.ID)
			h.open("a", "href", routepath.Company(company.ID))
			h.element("strong", company.Name)
			if company.ShortName != "" && company.ShortName != company.Name {
				h.element("span", company.ShortName, "class", "short-name")
			}
			h.close("a")
			if len(company.Type) > 0 {
				h.element("p", typeLabels(loc, company.Type), "class", "types")
			}
			if company.Status != "" {
				h.element("span", company.Status, "class", "status status-"+company.Status)
			}
			h.close("li")
		}
		h.close("ul")
	})
}

// ContractorsPage renders the contractors section.
func ContractorsPage(loc Localizer) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.element("h1", T(loc, "nav.contractors"))
		h.render(ctx, EmptyState(T(loc, "contractors.empty")))
	})
}

// ClientsPage renders the clients section.
func ClientsPage(clients []organization.Client, loc Localizer) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.element("h1", T(loc, "nav.clients"))
		if len(clients) == 0 {
			h.render(ctx, EmptyState(T(loc, "clients.empty")))
			return
		}
		h.open("ul", "class", "clients")
		for _, client := range clients {
			h.element("li", client.Name, "data-client", client.ID)
		}
		h.close("ul")
	})
}
