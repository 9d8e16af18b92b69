package templates

import (
	"context"

	"github.com/a-h/templ"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/routepath"
)

// ActivityEntry is one journal row formatted for display.
type ActivityEntry struct {
	RecordedAt string
	EntityKind string
	Operation  string
	Payload    string
}

// ActivityView is the change journal of one company.
type ActivityView struct {
	CompanyID   string
	CompanyName string
	Entries     []ActivityEntry
	Error       string
}

// ActivityPage renders the change journal as a table.
func ActivityPage(view ActivityView, loc Localizer) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.element("a", view.CompanyName, "href", routepath.Company(view.CompanyID), "class", "back-link")
		h.element("h1", T(loc, "activity.title"))
		if view.Error != "" {
			h.render(ctx, ErrorState(view.Error, loc))
			return
		}
		if len(view.Entries) == 0 {
			h.render(ctx, EmptyState(T(loc, "activity.empty")))
			return
		}
		h.open("table", "class", "activity")
		h.raw("<tbody>")
		for _, entry := range view.Entries {
			h.open("tr", "data-operation", entry.Operation)
			h.element("td", entry.RecordedAt)
			h.element("td", entry.EntityKind)
			h.element("td", entry.Operation)
			h.open("td")
			h.element("code", entry.Payload)
			h.close("td")
			h.close("tr")
		}
		h.raw("</tbody>")
		h.close("table")
	})
}
