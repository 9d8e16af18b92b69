package dashboard

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/chistayaaa/afs-dashboard/internal/platform/httpx"
	"github.com/chistayaaa/afs-dashboard/internal/platform/timeouts"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/routepath"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/store"
	"golang.org/x/net/websocket"
)

// liveMessage tells browsers that pages under Path are stale.
type liveMessage struct {
	Kind      string `json:"kind"`
	CompanyID string `json:"companyId,omitempty"`
	Path      string `json:"path"`
}

// LiveHub pushes store mutations to connected browsers over websockets.
type LiveHub struct {
	mu     sync.Mutex
	peers  map[*livePeer]struct{}
	closed bool
}

type livePeer struct {
	mu   sync.Mutex
	conn *websocket.Conn
	enc  *json.Encoder
}

func NewLiveHub() *LiveHub {
	return &LiveHub{peers: make(map[*livePeer]struct{})}
}

func (h *LiveHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.MethodNotAllowed(http.MethodGet).ServeHTTP(w, r)
		return
	}
	websocket.Handler(h.serveConn).ServeHTTP(w, r)
}

func (h *LiveHub) serveConn(conn *websocket.Conn) {
	peer := &livePeer{conn: conn, enc: json.NewEncoder(conn)}
	if !h.add(peer) {
		_ = conn.Close()
		return
	}
	defer h.remove(peer)

	// Browsers never send frames; reading only detects the close.
	_, _ = io.Copy(io.Discard, conn)
}

func (h *LiveHub) add(peer *livePeer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.peers[peer] = struct{}{}
	return true
}

func (h *LiveHub) remove(peer *livePeer) {
	h.mu.Lock()
	_, ok := h.peers[peer]
	delete(h.peers, peer)
	h.mu.Unlock()
	if ok {
		_ = peer.conn.Close()
	}
}

// Count returns the number of connected browsers.
func (h *LiveHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

// HandleEvent broadcasts the mutations browsers should refresh for. Loads
// are not broadcast since reloading a page triggers another load.
func (h *LiveHub) HandleEvent(event store.Event) {
	msg, ok := liveMessageFor(event)
	if !ok {
		return
	}
	h.broadcast(msg)
}

func (h *LiveHub) broadcast(msg liveMessage) {
	h.mu.Lock()
	peers := make([]*livePeer, 0, len(h.peers))
	for peer := range h.peers {
		peers = append(peers, peer)
	}
	h.mu.Unlock()

	for _, peer := range peers {
		if err := peer.send(msg); err != nil {
			log.Printf("live push failed kind=%s path=%s err=%v", msg.Kind, msg.Path, err)
			h.remove(peer)
		}
	}
}

// Close disconnects every browser and rejects new connections.
func (h *LiveHub) Close() {
	h.mu.Lock()
	h.closed = true
	peers := h.peers
	h.peers = make(map[*livePeer]struct{})
	h.mu.Unlock()
	for peer := range peers {
		_ = peer.conn.Close()
	}
}

func (p *livePeer) send(msg liveMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.conn.SetWriteDeadline(time.Now().Add(timeouts.LiveWrite)); err != nil {
		return err
	}
	return p.enc.Encode(msg)
}

func liveMessageFor(event store.Event) (liveMessage, bool) {
	msg := liveMessage{Kind: string(event.Kind)}
	switch event.Kind {
	case store.EventCompanyUpdated, store.EventPhotoAdded, store.EventPhotoDeleted:
		msg.CompanyID = event.EntityID
	case store.EventContactUpdated:
		msg.CompanyID = event.Snapshot.CompanyID
	case store.EventCompanyDeleted:
		msg.CompanyID = event.EntityID
		msg.Path = routepath.Companies
		return msg, true
	default:
		return liveMessage{}, false
	}
	if msg.CompanyID == "" {
		return liveMessage{}, false
	}
	msg.Path = routepath.Company(msg.CompanyID)
	return msg, true
}
