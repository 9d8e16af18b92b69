package store

import (
	"sync"

	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/routepath"
)

// UIStore tracks whether the secondary sidebar is open.
type UIStore struct {
	menu []routepath.MenuItem

	mu   sync.Mutex
	open bool
}

// NewUIStore builds a UI store over the given menu items. Earlier items take
// precedence when several match a path.
func NewUIStore(menu []routepath.MenuItem) *UIStore {
	return &UIStore{menu: menu}
}

// CheckSidebarState opens or closes the sidebar for the section path belongs
// to. Paths outside every menu section close it.
func (u *UIStore) CheckSidebarState(path string) bool {
	open := false
	for _, item := range u.menu {
		if item.Matches(path) {
			open = item.SidebarOpen
			break
		}
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.open = open
	return open
}

func (u *UIStore) Open() {
	u.mu.Lock()
	u.open = true
	u.mu.Unlock()
}

func (u *UIStore) Close() {
	u.mu.Lock()
	u.open = false
	u.mu.Unlock()
}

// Toggle flips the sidebar and returns the new state.
func (u *UIStore) Toggle() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.open = !u.open
	return u.open
}

func (u *UIStore) IsSidebarOpen() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.open
}
