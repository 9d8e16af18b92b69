// Package templates renders dashboard pages as templ components.
//
// Components write escaped HTML directly; every page is wrapped by Layout so
// HTMX navigation can swap the <main> element alone.
package templates
