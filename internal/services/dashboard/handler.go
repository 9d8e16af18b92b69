package dashboard

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/chistayaaa/afs-dashboard/internal/platform/httpx"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/i18n"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/routepath"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/storage"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/store"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/templates"
)

const requestIDPrefix = "dash"

// HandlerConfig wires a Handler.
type HandlerConfig struct {
	Store   *store.OrganizationStore
	Journal storage.JournalStore
	// Live is optional; without it /live is not served.
	Live *LiveHub
	// SignedInAs names the API account in the header.
	SignedInAs func() string
}

// Handler routes dashboard requests.
type Handler struct {
	store      *store.OrganizationStore
	ui         *store.UIStore
	journal    storage.JournalStore
	live       *LiveHub
	signedInAs func() string
	mux        *http.ServeMux
	root       http.Handler
}

// NewHandler builds the dashboard routes.
func NewHandler(cfg HandlerConfig) *Handler {
	h := &Handler{
		store:      cfg.Store,
		ui:         store.NewUIStore(routepath.AllMenus()),
		journal:    cfg.Journal,
		live:       cfg.Live,
		signedInAs: cfg.SignedInAs,
		mux:        http.NewServeMux(),
	}
	h.routes()
	h.root = httpx.Chain(h.mux,
		httpx.RequestID(requestIDPrefix),
		httpx.AccessLog(),
		httpx.RecoverPanic(),
	)
	return h
}

func (h *Handler) routes() {
	h.mux.HandleFunc("GET "+routepath.Health, h.handleHealth)
	h.mux.HandleFunc("GET /{$}", h.handleRoot)

	h.mux.HandleFunc("GET "+routepath.Companies, h.handleCompanies)
	h.mux.HandleFunc("GET /companies/{id}", h.handleCompany)
	h.mux.HandleFunc("POST /companies/{id}/details", h.handleUpdateDetails)
	h.mux.HandleFunc("POST /companies/{id}/contact", h.handleUpdateContact)
	h.mux.HandleFunc("POST /companies/{id}/name", h.handleRename)
	h.mux.HandleFunc("POST /companies/{id}/delete", h.handleDeleteCompany)
	h.mux.HandleFunc("POST /companies/{id}/photos", h.handleAddPhoto)
	h.mux.HandleFunc("POST /companies/{id}/photos/{name}/delete", h.handleDeletePhoto)
	h.mux.HandleFunc("GET /companies/{id}/activity", h.handleActivity)

	h.mux.HandleFunc("GET "+routepath.Contractors, h.handleContractors)
	h.mux.HandleFunc("GET "+routepath.Clients, h.handleClients)
	h.mux.HandleFunc("GET "+routepath.Search, h.handleSearch)

	if h.live != nil {
		h.mux.Handle(routepath.Live, h.live)
	}
}

// ServeHTTP wraps the routes with request ids, panic recovery and access logs.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.root.ServeHTTP(w, r)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, routepath.Companies, http.StatusFound)
}

// pageContext resolves the language, persisting an explicit ?lang= choice,
// and the sidebar state for the request path.
func (h *Handler) pageContext(w http.ResponseWriter, r *http.Request) templates.PageContext {
	tag, persist := i18n.ResolveTag(r)
	if persist {
		i18n.SetLanguageCookie(w, tag)
	}
	page := templates.PageContext{
		Lang:        tag.String(),
		Loc:         i18n.Printer(tag),
		CurrentPath: r.URL.Path,
		SidebarOpen: h.ui.CheckSidebarState(r.URL.Path),
	}
	if h.signedInAs != nil {
		page.Username = strings.TrimSpace(h.signedInAs())
	}
	return page
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page templates.PageContext, status int, title string, body templ.Component) {
	httpx.RenderPage(w, r, status, templates.Layout(page, title, body), templates.ComposePageTitle(title, page.Loc))
}

func localizer(r *http.Request) templates.Localizer {
	tag, _ := i18n.ResolveTag(r)
	return i18n.Printer(tag)
}
