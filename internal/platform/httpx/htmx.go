package httpx

import (
	"bytes"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

const (
	htmxRequestHeader  = "HX-Request"
	htmxRedirectHeader = "HX-Redirect"
)

// IsHTMXRequest reports whether the request was initiated by HTMX.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(htmxRequestHeader), "true")
}

// WriteHXRedirect writes an HTMX redirect response header.
func WriteHXRedirect(w http.ResponseWriter, location string) {
	w.Header().Set(htmxRedirectHeader, location)
	w.WriteHeader(http.StatusOK)
}

// WriteRedirect redirects with HX-Redirect for HTMX callers and 303 otherwise,
// so form posts land on a GET.
func WriteRedirect(w http.ResponseWriter, r *http.Request, location string) {
	if IsHTMXRequest(r) {
		WriteHXRedirect(w, location)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// RenderPage renders page with the given status. HTMX requests receive only
// the contents of the page's <main> element, prefixed with a <title> so the
// browser tab follows navigation.
func RenderPage(w http.ResponseWriter, r *http.Request, status int, page templ.Component, title string) {
	if page == nil {
		w.WriteHeader(status)
		return
	}
	var body bytes.Buffer
	if err := page.Render(r.Context(), &body); err != nil {
		http.Error(w, fmt.Sprintf("render page: %v", err), http.StatusInternalServerError)
		return
	}

	payload := body.Bytes()
	if IsHTMXRequest(r) {
		if main, ok := extractMainContent(payload); ok {
			payload = main
		}
		if title = strings.TrimSpace(title); title != "" && !bytes.Contains(bytes.ToLower(payload), []byte("<title")) {
			payload = append([]byte("<title>"+html.EscapeString(title)+"</title>"), payload...)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func extractMainContent(body []byte) ([]byte, bool) {
	start := bytes.Index(body, []byte("<main"))
	if start < 0 {
		return nil, false
	}
	openClose := bytes.IndexByte(body[start:], '>')
	if openClose < 0 {
		return nil, false
	}
	contentStart := start + openClose + 1
	end := bytes.Index(body[contentStart:], []byte("</main>"))
	if end < 0 {
		return nil, false
	}
	return body[contentStart : contentStart+end], true
}
