package templates

import (
	"context"
	"strings"

	"github.com/a-h/templ"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/i18n"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/routepath"
)

const htmxScript = "https://unpkg.com/htmx.org@2.0.4"

// liveScript reloads the main element when the live socket reports a change
// to the page being viewed.
const liveScript = `(function () {
  var scheme = location.protocol === "https:" ? "wss://" : "ws://";
  var socket = new WebSocket(scheme + location.host + "/live");
  socket.onmessage = function (msg) {
    var event = JSON.parse(msg.data);
    var path = location.pathname;
    if (event.path && path !== event.path && path.indexOf(event.path + "/") !== 0) { return; }
    if (document.querySelector("form[data-editing]")) { return; }
    htmx.ajax("GET", path + location.search, {target: "main", swap: "innerHTML"});
  };
})();`

// ComposePageTitle appends the app name to a page title.
func ComposePageTitle(title string, loc Localizer) string {
	appName := T(loc, "app.title")
	title = strings.TrimSpace(title)
	if title == "" || title == appName {
		return appName
	}
	return title + " | " + appName
}

// Layout wraps body in the dashboard chrome: header, icon rail, sidebar and
// the <main> element HTMX swaps.
func Layout(page PageContext, title string, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		lang := page.Lang
		if lang == "" {
			lang = i18n.Default().String()
		}
		h.raw("<!DOCTYPE html>")
		h.open("html", "lang", lang)
		h.raw("<head><meta charset=\"utf-8\">")
		h.element("title", ComposePageTitle(title, page.Loc))
		h.open("script", "src", htmxScript)
		h.close("script")
		h.raw("</head>")
		h.raw("<body>")

		h.open("header", "class", "app-header")
		h.element("a", T(page.Loc, "app.title"), "href", routepath.Companies, "class", "app-title")
		if page.Username != "" {
			h.element("span", T(page.Loc, "app.signed_in", page.Username), "class", "app-user")
		}
		h.close("header")

		h.open("nav", "class", "rail")
		renderMenu(h, page, routepath.MainMenu, "rail-item")
		h.close("nav")

		if page.SidebarOpen {
			h.open("aside", "class", "sidebar")
			renderMenu(h, page, routepath.CompaniesMenu, "sidebar-item")
			h.close("aside")
		}

		h.open("main", "id", "main")
		h.render(ctx, body)
		h.close("main")

		h.open("script")
		h.raw(liveScript)
		h.close("script")
		h.raw("</body></html>")
	})
}

func renderMenu(h *htmlWriter, page PageContext, items []routepath.MenuItem, class string) {
	h.raw("<ul>")
	for _, item := range items {
		itemClass := class
		if item.Active(page.CurrentPath) {
			itemClass += " active"
		}
		h.raw("<li>")
		h.open("a", "href", string(templ.URL(item.Path)), "class", itemClass, "data-menu", item.ID)
		h.text(T(page.Loc, "nav."+item.ID))
		h.close("a")
		h.raw("</li>")
	}
	h.raw("</ul>")
}

// EmptyState renders a centered placeholder message.
func EmptyState(message string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.element("p", message, "class", "empty-state")
	})
}

// LoadingState renders a spinner that reloads the page once the load settles.
func LoadingState(reloadURL string, loc Localizer) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.open("div", "class", "loading", "hx-get", reloadURL, "hx-trigger", "load delay:500ms", "hx-target", "main", "hx-swap", "innerHTML")
		h.element("span", T(loc, "state.loading"), "class", "sr-only")
		h.close("div")
	})
}

// ErrorState renders a failed operation message.
func ErrorState(message string, loc Localizer) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.open("div", "class", "error-state", "role", "alert")
		h.element("strong", T(loc, "state.error"))
		if message != "" {
			h.element("p", message)
		}
		h.close("div")
	})
}
