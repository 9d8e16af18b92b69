// Package routepath holds the dashboard's URL layout and navigation menu.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root   = "/"
	Health = "/up"
	Live   = "/live"
)

const (
	Companies       = "/companies"
	CompaniesPrefix = "/companies/"
)

const (
	Contractors = "/contractors"
	Clients     = "/clients"
	Search      = "/search"
)

// Edit modes selected with the ?edit= query parameter.
const (
	EditParam   = "edit"
	EditCompany = "company"
	EditContact = "contact"
)

func Company(companyID string) string {
	return Companies + "/" + escapeSegment(companyID)
}

func CompanyEdit(companyID, mode string) string {
	return Company(companyID) + "?" + url.Values{EditParam: {mode}}.Encode()
}

func CompanyDetails(companyID string) string {
	return Company(companyID) + "/details"
}

func CompanyContact(companyID string) string {
	return Company(companyID) + "/contact"
}

func CompanyName(companyID string) string {
	return Company(companyID) + "/name"
}

func CompanyDelete(companyID string) string {
	return Company(companyID) + "/delete"
}

func CompanyPhotos(companyID string) string {
	return Company(companyID) + "/photos"
}

func CompanyPhotoDelete(companyID, name string) string {
	return CompanyPhotos(companyID) + "/" + escapeSegment(name) + "/delete"
}

func CompanyActivity(companyID string) string {
	return Company(companyID) + "/activity"
}

func SearchQuery(filter string) string {
	if strings.TrimSpace(filter) == "" {
		return Search
	}
	return Search + "?" + url.Values{"filter": {filter}}.Encode()
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
