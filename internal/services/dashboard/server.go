package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chistayaaa/afs-dashboard/internal/platform/timeouts"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/remote"
	dashsqlite "github.com/chistayaaa/afs-dashboard/internal/services/dashboard/storage/sqlite"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/store"
)

// DefaultDBPath is where the token cache and change journal live.
var DefaultDBPath = filepath.Join("data", "dashboard.db")

// Config defines the inputs for the dashboard process.
type Config struct {
	HTTPAddr   string
	APIBaseURL string
	Username   string
	// CompanyIDs lists the companies on the companies page.
	CompanyIDs []string
	DBPath     string
	// HTTPClient is used for remote API calls when set.
	HTTPClient *http.Client
}

// Server hosts the dashboard and owns the store, its storage and the live hub.
type Server struct {
	httpAddr    string
	httpServer  *http.Server
	handler     *Handler
	store       *store.OrganizationStore
	storage     *dashsqlite.Store
	live        *LiveHub
	unsubscribe []func()
	closeOnce   sync.Once
}

// NewServer wires storage, the remote client and the store behind the HTTP
// handler.
func NewServer(ctx context.Context, config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	dbPath := strings.TrimSpace(config.DBPath)
	if dbPath == "" {
		dbPath = DefaultDBPath
	}

	db, err := dashsqlite.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open dashboard sqlite store: %w", err)
	}

	client, err := remote.NewClient(remote.Config{
		BaseURL:    config.APIBaseURL,
		Username:   config.Username,
		HTTPClient: config.HTTPClient,
		Tokens:     db,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("remote client: %w", err)
	}

	var opts []store.Option
	if len(config.CompanyIDs) > 0 {
		opts = append(opts, store.WithCatalog(config.CompanyIDs...))
	}
	organizations := store.New(client, opts...)
	live := NewLiveHub()
	unsubscribe := []func(){
		organizations.Subscribe(recordChanges(db)),
		organizations.Subscribe(live.HandleEvent),
	}

	handler := NewHandler(HandlerConfig{
		Store:      organizations,
		Journal:    db,
		Live:       live,
		SignedInAs: client.SignedInAs,
	})
	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	return &Server{
		httpAddr:    httpAddr,
		httpServer:  httpServer,
		handler:     handler,
		store:       organizations,
		storage:     db,
		live:        live,
		unsubscribe: unsubscribe,
	}, nil
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("dashboard server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	serveErr := make(chan error, 1)
	log.Printf("dashboard listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.live.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close detaches subscribers, drops the cache and closes storage.
func (s *Server) Close() {
	if s == nil {
		return
	}
	s.closeOnce.Do(func() {
		for _, unsubscribe := range s.unsubscribe {
			unsubscribe()
		}
		s.live.Close()
		s.store.Clear()
		if err := s.storage.Close(); err != nil {
			log.Printf("close dashboard store: %v", err)
		}
	})
}
