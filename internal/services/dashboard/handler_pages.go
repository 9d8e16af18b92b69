package dashboard

import (
	"log"
	"net/http"
	"strings"

	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/format"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/search"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/templates"
)

const activityTimeLayout = format.DisplayDateLayout + " 15:04:05"

func (h *Handler) handleActivity(w http.ResponseWriter, r *http.Request) {
	companyID := strings.TrimSpace(r.PathValue("id"))
	page := h.pageContext(w, r)
	view := templates.ActivityView{CompanyID: companyID, CompanyName: companyID}

	var contactID string
	snap := h.store.Snapshot()
	if snap.Company != nil && snap.Company.ID == companyID {
		view.CompanyName = snap.Company.Name
		contactID = snap.Company.ContactID
	} else {
		for _, company := range snap.Companies {
			if company.ID == companyID {
				view.CompanyName = company.Name
				contactID = company.ContactID
			}
		}
	}

	status := http.StatusOK
	if h.journal == nil {
		view.Error = templates.T(page.Loc, "state.error")
		status = http.StatusServiceUnavailable
	} else if entries, err := listActivity(r.Context(), h.journal, companyID, contactID); err != nil {
		log.Printf("list activity failed company=%s err=%v", companyID, err)
		view.Error = err.Error()
		status = http.StatusInternalServerError
	} else {
		for _, entry := range entries {
			view.Entries = append(view.Entries, templates.ActivityEntry{
				RecordedAt: entry.RecordedAt.UTC().Format(activityTimeLayout),
				EntityKind: entry.EntityKind,
				Operation:  entry.Operation,
				Payload:    string(entry.Payload),
			})
		}
	}
	h.render(w, r, page, status, templates.T(page.Loc, "activity.title"), templates.ActivityPage(view, page.Loc))
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	page := h.pageContext(w, r)
	filter := strings.TrimSpace(r.URL.Query().Get("filter"))

	if h.store.Snapshot().Companies == nil {
		h.store.LoadCompanies(r.Context())
	}
	companies := h.store.Snapshot().Companies
	view := templates.SearchView{Filter: filter, Total: len(companies)}

	status := http.StatusOK
	predicate, err := search.Compile(filter)
	if err != nil {
		view.Error = err.Error()
		status = http.StatusBadRequest
	} else {
		view.Results = search.Filter(companies, predicate)
	}
	h.render(w, r, page, status, templates.T(page.Loc, "nav.search"), templates.SearchPage(view, page.Loc))
}

func (h *Handler) handleContractors(w http.ResponseWriter, r *http.Request) {
	page := h.pageContext(w, r)
	h.render(w, r, page, http.StatusOK, templates.T(page.Loc, "nav.contractors"), templates.ContractorsPage(page.Loc))
}

func (h *Handler) handleClients(w http.ResponseWriter, r *http.Request) {
	page := h.pageContext(w, r)
	h.render(w, r, page, http.StatusOK, templates.T(page.Loc, "nav.clients"), templates.ClientsPage(nil, page.Loc))
}
