package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/websocket"

	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/store"
)

func dialLive(t *testing.T, hub *LiveHub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/live"
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	waitForPeers(t, hub, 1)
	return conn
}

func waitForPeers(t *testing.T, hub *LiveHub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d peers, got %d", want, hub.Count())
		}
		time.Sleep(time.Millisecond)
	}
}

func readLive(t *testing.T, conn *websocket.Conn) liveMessage {
	t.Helper()
	_ = conn.SetDeadline(time.Now().Add(2 * time.Second))
	var got liveMessage
	if err := json.NewDecoder(conn).Decode(&got); err != nil {
		t.Fatalf("decode live message: %v", err)
	}
	return got
}

func TestLiveHubPushesMutations(t *testing.T) {
	hub := NewLiveHub()
	conn := dialLive(t, hub)

	hub.HandleEvent(store.Event{Kind: store.EventCompanyLoaded, EntityID: "12"})
	hub.HandleEvent(store.Event{Kind: store.EventCompanyUpdated, EntityID: "12"})

	want := liveMessage{Kind: "company_updated", CompanyID: "12", Path: "/companies/12"}
	if diff := cmp.Diff(want, readLive(t, conn)); diff != "" {
		t.Fatalf("live message mismatch (-want +got):\n%s", diff)
	}
}

func TestLiveHubCloseDisconnects(t *testing.T) {
	hub := NewLiveHub()
	conn := dialLive(t, hub)

	hub.Close()
	if hub.Count() != 0 {
		t.Fatalf("expected no peers after close, got %d", hub.Count())
	}
	_ = conn.SetDeadline(time.Now().Add(2 * time.Second))
	var msg liveMessage
	if err := json.NewDecoder(conn).Decode(&msg); err == nil {
		t.Fatal("expected closed connection")
	}
}

func TestLiveHubRejectsPost(t *testing.T) {
	rec := httptest.NewRecorder()
	NewLiveHub().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/live", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if rec.Header().Get("Allow") != http.MethodGet {
		t.Fatalf("expected Allow GET, got %q", rec.Header().Get("Allow"))
	}
}

func TestLiveMessageFor(t *testing.T) {
	tests := []struct {
		name  string
		event store.Event
		want  liveMessage
		ok    bool
	}{
		{
			name:  "photo added",
			event: store.Event{Kind: store.EventPhotoAdded, EntityID: "12"},
			want:  liveMessage{Kind: "photo_added", CompanyID: "12", Path: "/companies/12"},
			ok:    true,
		},
		{
			name:  "contact uses cached company",
			event: store.Event{Kind: store.EventContactUpdated, EntityID: "16", Snapshot: store.Snapshot{CompanyID: "12"}},
			want:  liveMessage{Kind: "contact_updated", CompanyID: "12", Path: "/companies/12"},
			ok:    true,
		},
		{
			name:  "delete refreshes list",
			event: store.Event{Kind: store.EventCompanyDeleted, EntityID: "12"},
			want:  liveMessage{Kind: "company_deleted", CompanyID: "12", Path: "/companies"},
			ok:    true,
		},
		{
			name:  "loads are skipped",
			event: store.Event{Kind: store.EventCompaniesLoaded},
		},
		{
			name:  "failures are skipped",
			event: store.Event{Kind: store.EventOperationFailed, EntityID: "12"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := liveMessageFor(tt.event)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("message mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
