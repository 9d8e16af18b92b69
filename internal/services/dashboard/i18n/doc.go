// Package i18n provides localization for the dashboard UI: language
// resolution from the request and message printers over built-in catalogs.
package i18n
