package dashboard

import (
	"io"
	"log"
	"net/http"
	"strings"

	apperrors "github.com/chistayaaa/afs-dashboard/internal/platform/errors"
	"github.com/chistayaaa/afs-dashboard/internal/platform/httpx"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/organization"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/routepath"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/store"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/templates"
)

// maxPhotoBytes caps an uploaded photo.
const maxPhotoBytes = 10 << 20

func (h *Handler) handleCompanies(w http.ResponseWriter, r *http.Request) {
	if leavingCompany(h.store.Snapshot()) {
		h.store.Clear()
	}
	h.store.LoadCompanies(r.Context())
	snap := h.store.Snapshot()

	page := h.pageContext(w, r)
	view := templates.CompaniesView{
		Companies: snap.Companies,
		Loading:   snap.Busy(store.OpLoadCompanies),
		Error:     snap.Error,
	}
	status := http.StatusOK
	if view.Error != "" && len(view.Companies) == 0 {
		status = failureStatus(snap)
	}
	h.render(w, r, page, status, templates.T(page.Loc, "companies.title"), templates.CompaniesPage(view, page.Loc))
}

func (h *Handler) handleCompany(w http.ResponseWriter, r *http.Request) {
	companyID := strings.TrimSpace(r.PathValue("id"))
	h.store.LoadCompany(r.Context(), companyID)

	snap := h.store.Snapshot()
	view := companyView(snap, companyID)
	switch mode := r.URL.Query().Get(routepath.EditParam); mode {
	case routepath.EditCompany, routepath.EditContact:
		if view.Company != nil {
			view.Edit = mode
		}
	}
	h.renderCompany(w, r, companyStatus(view, snap), view)
}

func (h *Handler) handleUpdateDetails(w http.ResponseWriter, r *http.Request) {
	companyID, snap, ok := h.loadForWrite(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := parseCompanyForm(r.PostForm)
	if !validateCompanyForm(&form) {
		view := companyView(snap, companyID)
		view.Edit, view.CompanyForm = routepath.EditCompany, form
		h.renderCompany(w, r, http.StatusUnprocessableEntity, view)
		return
	}

	if h.store.UpdateCompany(r.Context(), applyCompanyForm(*snap.Company, form)) == store.UpdateFailed {
		failed := h.store.Snapshot()
		view := companyView(failed, companyID)
		view.Edit, view.CompanyForm = routepath.EditCompany, form
		h.renderCompany(w, r, failureStatus(failed), view)
		return
	}
	httpx.WriteRedirect(w, r, routepath.Company(companyID))
}

func (h *Handler) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	companyID, snap, ok := h.loadForWrite(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := parseContactForm(r.PostForm)
	if snap.Contact == nil || !validateContactForm(&form) {
		view := companyView(snap, companyID)
		view.Edit, view.ContactForm = routepath.EditContact, form
		h.renderCompany(w, r, http.StatusUnprocessableEntity, view)
		return
	}

	if h.store.UpdateContact(r.Context(), applyContactForm(*snap.Contact, form)) == store.UpdateFailed {
		failed := h.store.Snapshot()
		view := companyView(failed, companyID)
		view.Edit, view.ContactForm = routepath.EditContact, form
		h.renderCompany(w, r, failureStatus(failed), view)
		return
	}
	httpx.WriteRedirect(w, r, routepath.Company(companyID))
}

func (h *Handler) handleRename(w http.ResponseWriter, r *http.Request) {
	companyID, snap, ok := h.loadForWrite(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := parseNameForm(r.PostForm)
	if !validateNameForm(&form) {
		view := companyView(snap, companyID)
		view.NameForm = form
		h.renderCompany(w, r, http.StatusUnprocessableEntity, view)
		return
	}

	if h.store.UpdateCompany(r.Context(), applyNameForm(*snap.Company, form)) == store.UpdateFailed {
		failed := h.store.Snapshot()
		view := companyView(failed, companyID)
		view.NameForm = form
		h.renderCompany(w, r, failureStatus(failed), view)
		return
	}
	httpx.WriteRedirect(w, r, routepath.Company(companyID))
}

func (h *Handler) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := h.loadForWrite(w, r)
	if !ok {
		return
	}
	if !h.store.DeleteCompany(r.Context()) {
		h.renderFailure(w, r, companyID)
		return
	}
	log.Printf("company deleted id=%s", companyID)
	httpx.WriteRedirect(w, r, routepath.Companies)
}

func (h *Handler) handleAddPhoto(w http.ResponseWriter, r *http.Request) {
	companyID, snap, ok := h.loadForWrite(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes+(1<<20))
	upload, ok := readPhotoUpload(r)
	if !ok {
		view := companyView(snap, companyID)
		view.Error = templates.T(localizer(r), "errors.photo")
		h.renderCompany(w, r, http.StatusUnprocessableEntity, view)
		return
	}
	if !h.store.AddPhoto(r.Context(), upload) {
		h.renderFailure(w, r, companyID)
		return
	}
	httpx.WriteRedirect(w, r, routepath.Company(companyID))
}

func readPhotoUpload(r *http.Request) (organization.PhotoUpload, bool) {
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		return organization.PhotoUpload{}, false
	}
	file, header, err := r.FormFile(templates.FieldPhoto)
	if err != nil {
		return organization.PhotoUpload{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
	if err != nil || len(data) == 0 || len(data) > maxPhotoBytes {
		return organization.PhotoUpload{}, false
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return organization.PhotoUpload{}, false
	}
	return organization.PhotoUpload{Filename: header.Filename, ContentType: contentType, Data: data}, true
}

func (h *Handler) handleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := h.loadForWrite(w, r)
	if !ok {
		return
	}
	if !h.store.DeletePhoto(r.Context(), r.PathValue("name")) {
		h.renderFailure(w, r, companyID)
		return
	}
	httpx.WriteRedirect(w, r, routepath.Company(companyID))
}

// loadForWrite makes the path's company the cached one. When it cannot be
// loaded the failure page is rendered and ok is false.
func (h *Handler) loadForWrite(w http.ResponseWriter, r *http.Request) (string, store.Snapshot, bool) {
	companyID := strings.TrimSpace(r.PathValue("id"))
	h.store.LoadCompany(r.Context(), companyID)
	snap := h.store.Snapshot()
	if snap.CompanyID == companyID && snap.Company != nil && snap.Company.ID == companyID {
		return companyID, snap, true
	}
	view := companyView(snap, companyID)
	status := companyStatus(view, snap)
	if status == http.StatusOK {
		status = http.StatusConflict
	}
	h.renderCompany(w, r, status, view)
	return companyID, snap, false
}

// renderFailure shows the company page after a failed remote write.
func (h *Handler) renderFailure(w http.ResponseWriter, r *http.Request, companyID string) {
	snap := h.store.Snapshot()
	h.renderCompany(w, r, failureStatus(snap), companyView(snap, companyID))
}

func (h *Handler) renderCompany(w http.ResponseWriter, r *http.Request, status int, view templates.CompanyView) {
	page := h.pageContext(w, r)
	title := view.CompanyID
	if view.Company != nil && view.Company.Name != "" {
		title = view.Company.Name
	}
	h.render(w, r, page, status, title, templates.CompanyPage(view, page.Loc))
}

// companyView builds the company page from a snapshot. A snapshot caching a
// different company means another request switched it; the page then shows
// the loading state and polls.
func companyView(snap store.Snapshot, companyID string) templates.CompanyView {
	view := templates.CompanyView{CompanyID: companyID}
	if snap.CompanyID != companyID {
		view.Loading = true
		return view
	}
	view.Loading = snap.State == store.StateLoading
	view.Error = snap.Error
	view.Company = snap.Company
	view.Contact = snap.Contact
	view.Photos = snap.Photos
	view.Saving = snap.Busy(store.OpUpdateCompany) || snap.Busy(store.OpUpdateContact) || snap.Busy(store.OpAddPhoto) || snap.Busy(store.OpDeletePhoto)
	if snap.Company != nil {
		view.CompanyForm = templates.CompanyFormFrom(*snap.Company)
		view.NameForm = templates.NameFormFrom(*snap.Company)
	}
	if snap.Contact != nil {
		view.ContactForm = templates.ContactFormFrom(*snap.Contact)
	}
	return view
}

func companyStatus(view templates.CompanyView, snap store.Snapshot) int {
	switch {
	case view.Company != nil || view.Loading:
		return http.StatusOK
	case view.Error != "":
		return failureStatus(snap)
	default:
		return http.StatusNotFound
	}
}

// leavingCompany reports whether the list page should drop the cached
// company. A load still in flight belongs to another request and is kept.
func leavingCompany(snap store.Snapshot) bool {
	return snap.CompanyID != "" && snap.State != store.StateLoading && !snap.Busy(store.OpLoadCompany)
}

// failureStatus answers a failed remote call. Unclassified failures still
// come from the remote side.
func failureStatus(snap store.Snapshot) int {
	if snap.ErrorKind == "" || snap.ErrorKind == apperrors.KindUnknown {
		return http.StatusBadGateway
	}
	return snap.ErrorKind.HTTPStatus()
}
