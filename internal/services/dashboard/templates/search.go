package templates

import (
	"context"

	"github.com/a-h/templ"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/organization"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/routepath"
)

// SearchView is a filter and its matches.
type SearchView struct {
	Filter  string
	Error   string
	Results []organization.Company
	Total   int
}

// SearchPage renders the filter box and matching company cards.
func SearchPage(view SearchView, loc Localizer) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.element("h1", T(loc, "nav.search"))
		h.open("form", "method", "get", "action", routepath.Search, "class", "search")
		h.open("input", "type", "search", "name", "filter", "value", view.Filter, "placeholder", T(loc, "search.placeholder"))
		h.element("button", T(loc, "action.search"), "type", "submit")
		h.close("form")

		if view.Error != "" {
			h.element("p", T(loc, "search.invalid", view.Error), "class", "field-error", "data-field", "filter")
			return
		}
		h.element("p", T(loc, "search.results", len(view.Results), view.Total), "class", "search-summary")
		if len(view.Results) > 0 {
			h.render(ctx, CompanyCards(view.Results, loc))
		}
	})
}
