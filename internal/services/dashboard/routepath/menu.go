package routepath

import "strings"

// MenuItem is one navigation entry. SidebarOpen says whether the secondary
// sidebar is shown while the item's section is active.
type MenuItem struct {
	ID          string
	Path        string
	SidebarPath string
	SidebarOpen bool
}

// MainMenu is the icon rail.
var MainMenu = []MenuItem{
	{ID: "companies", Path: Companies, SidebarPath: Companies, SidebarOpen: true},
	{ID: "search", Path: Search, SidebarPath: Search, SidebarOpen: false},
}

// CompaniesMenu is the secondary sidebar under companies.
var CompaniesMenu = []MenuItem{
	{ID: "organizations", Path: Companies, SidebarPath: Companies, SidebarOpen: true},
	{ID: "contractors", Path: Contractors, SidebarPath: Companies, SidebarOpen: true},
	{ID: "clients", Path: Clients, SidebarPath: Companies, SidebarOpen: true},
}

// AllMenus returns every menu item, main menu first.
func AllMenus() []MenuItem {
	items := make([]MenuItem, 0, len(MainMenu)+len(CompaniesMenu))
	items = append(items, MainMenu...)
	return append(items, CompaniesMenu...)
}

// Matches reports whether path is inside the item's section.
func (m MenuItem) Matches(path string) bool {
	return path == m.Path || strings.HasPrefix(path, m.Path+"/")
}

// Active reports whether the item should be highlighted for path. Items that
// live in the companies sidebar also light up the rail entry they belong to.
func (m MenuItem) Active(path string) bool {
	if m.Matches(path) {
		return true
	}
	for _, item := range CompaniesMenu {
		if item.SidebarPath == m.Path && item.Matches(path) {
			return true
		}
	}
	return false
}
