package templates

// PageContext provides shared layout context for dashboard pages.
type PageContext struct {
	Lang        string
	Loc         Localizer
	CurrentPath string
	// Username is the API account the dashboard acts as.
	Username    string
	SidebarOpen bool
}
