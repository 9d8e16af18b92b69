package templates

import (
	"context"
	"slices"
	"strings"

	"github.com/a-h/templ"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/format"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/organization"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/routepath"
)

// CompanyView is everything the company page shows.
type CompanyView struct {
	CompanyID string
	Loading   bool
	// Error is the last failed operation message; it is shown above cached data.
	Error   string
	Company *organization.Company
	Contact *organization.Contact
	Photos  []organization.Photo
	// Edit is routepath.EditCompany, routepath.EditContact or empty.
	Edit        string
	Saving      bool
	CompanyForm CompanyForm
	ContactForm ContactForm
	NameForm    NameForm
}

// CompanyPage renders the company detail page in its loading, failed, empty or
// loaded state.
func CompanyPage(view CompanyView, loc Localizer) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		if view.Company == nil {
			switch {
			case view.Loading:
				h.render(ctx, LoadingState(routepath.Company(view.CompanyID), loc))
			case view.Error != "":
				h.render(ctx, ErrorState(view.Error, loc))
			default:
				h.render(ctx, EmptyState(T(loc, "state.no_data")))
			}
			return
		}
		company := *view.Company

		h.open("div", "class", "company-page", "data-company", company.ID)
		h.element("a", T(loc, "nav.back"), "href", routepath.Companies, "class", "back-link")
		h.element("h1", company.Name, "class", "company-name")
		renderNameForm(h, view, loc)

		if view.Error != "" {
			h.element("div", view.Error, "class", "alert alert-error", "role", "alert")
		}
		if view.Saving {
			h.element("div", T(loc, "state.in_flight"), "class", "alert alert-info")
		}

		renderDetails(h, view, loc)
		renderContact(h, view, loc)
		h.render(ctx, PhotoGallery(company.ID, view.Photos, loc))

		h.open("nav", "class", "company-actions")
		h.element("a", T(loc, "nav.activity"), "href", routepath.CompanyActivity(company.ID))
		h.close("nav")

		renderDeleteCompany(h, company.ID, loc)
		h.close("div")
	})
}

func renderNameForm(h *htmlWriter, view CompanyView, loc Localizer) {
	form := view.NameForm
	if len(form.Errors) > 0 {
		h.open("details", "class", "rename", "open", "open")
	} else {
		h.open("details", "class", "rename")
	}
	h.element("summary", T(loc, "action.rename"))
	h.open("form", "method", "post", "action", routepath.CompanyName(view.CompanyID), "data-editing", "name")
	textInput(h, loc, FieldName, T(loc, "company.name"), form.Name, form.Errors)
	textInput(h, loc, FieldShortName, "", form.ShortName, form.Errors)
	h.element("button", T(loc, "action.save"), "type", "submit")
	h.close("form")
	h.close("details")
}

func renderDetails(h *htmlWriter, view CompanyView, loc Localizer) {
	company := *view.Company
	h.open("section", "class", "card", "id", "company-details")
	h.open("header")
	h.element("h2", T(loc, "company.details"))
	if view.Edit != routepath.EditCompany {
		h.element("a", T(loc, "action.edit"), "href", routepath.CompanyEdit(company.ID, routepath.EditCompany), "class", "edit")
	}
	h.close("header")

	if view.Edit == routepath.EditCompany {
		form := view.CompanyForm
		h.open("form", "method", "post", "action", routepath.CompanyDetails(company.ID), "data-editing", "company")
		textInput(h, loc, FieldAgreementNo, T(loc, "company.agreement_number"), form.AgreementNo, form.Errors)
		textInput(h, loc, FieldIssueDate, T(loc, "company.date"), form.IssueDate, form.Errors)
		selectInput(h, loc, FieldBusinessEntity, T(loc, "company.business_entity"), form.BusinessEntity, organization.BusinessEntities, form.Errors)

		h.open("fieldset", "class", "types")
		h.element("legend", T(loc, "company.type"))
		for _, kind := range organization.CompanyTypes {
			h.raw("<label>")
			if slices.Contains(form.Types, kind) {
				h.open("input", "type", "checkbox", "name", FieldType, "value", kind, "checked", "checked")
			} else {
				h.open("input", "type", "checkbox", "name", FieldType, "value", kind)
			}
			h.text(TypeLabel(loc, kind))
			h.raw("</label>")
		}
		fieldError(h, loc, FieldType, form.Errors)
		h.close("fieldset")

		formButtons(h, loc, routepath.Company(company.ID))
		h.close("form")
	} else {
		h.raw("<dl>")
		agreement := company.Contract.No
		if date := format.ToDisplay(company.Contract.IssueDate, format.KindDate); date != "" {
			agreement = strings.TrimSpace(agreement + " / " + date)
		}
		definition(h, T(loc, "company.agreement"), agreement)
		definition(h, T(loc, "company.business_entity"), company.BusinessEntity)
		definition(h, T(loc, "company.type"), typeLabels(loc, company.Type))
		definition(h, T(loc, "company.status"), company.Status)
		h.raw("</dl>")
	}
	h.close("section")
}

func renderContact(h *htmlWriter, view CompanyView, loc Localizer) {
	companyID := view.Company.ID
	h.open("section", "class", "card", "id", "company-contact")
	h.open("header")
	h.element("h2", T(loc, "company.contacts"))
	if view.Edit != routepath.EditContact && view.Contact != nil {
		h.element("a", T(loc, "action.edit"), "href", routepath.CompanyEdit(companyID, routepath.EditContact), "class", "edit")
	}
	h.close("header")

	switch {
	case view.Contact == nil:
		h.element("p", T(loc, "state.no_data"), "class", "empty-state")
	case view.Edit == routepath.EditContact:
		form := view.ContactForm
		h.open("form", "method", "post", "action", routepath.CompanyContact(companyID), "data-editing", "contact")
		textInput(h, loc, FieldPerson, T(loc, "contact.person"), form.Person, form.Errors)
		textInput(h, loc, FieldPhone, T(loc, "contact.phone"), form.Phone, form.Errors)
		textInput(h, loc, FieldEmail, T(loc, "contact.email"), form.Email, form.Errors)
		formButtons(h, loc, routepath.Company(companyID))
		h.close("form")
	default:
		contact := *view.Contact
		h.raw("<dl>")
		definition(h, T(loc, "contact.person"), contact.FullName())
		definition(h, T(loc, "contact.phone"), format.FormatPhoneForDisplay(contact.Phone))
		definition(h, T(loc, "contact.email"), contact.Email)
		h.raw("</dl>")
	}
	h.close("section")
}

func renderDeleteCompany(h *htmlWriter, companyID string, loc Localizer) {
	h.open("details", "class", "danger-zone")
	h.element("summary", T(loc, "action.delete"))
	h.element("h3", T(loc, "company.delete_title"))
	h.element("p", T(loc, "company.delete_prompt"))
	h.open("form", "method", "post", "action", routepath.CompanyDelete(companyID))
	h.element("button", T(loc, "action.remove"), "type", "submit", "class", "danger")
	h.close("form")
	h.close("details")
}

// PhotoGallery renders the photo grid with delete buttons and the upload form.
func PhotoGallery(companyID string, photos []organization.Photo, loc Localizer) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.open("section", "class", "card", "id", "company-photos")
		h.element("h2", T(loc, "company.photos"))
		if len(photos) == 0 {
			h.element("p", T(loc, "company.photos_empty"), "class", "empty-state")
		} else {
			h.open("ul", "class", "photos")
			for _, photo := range photos {
				h.open("li", "data-photo", photo.Name)
				h.open("a", "href", string(templ.URL(photo.Filepath)))
				h.open("img", "src", string(templ.URL(photo.Thumbpath)), "alt", photo.Name)
				h.close("a")
				h.open("form", "method", "post", "action", routepath.CompanyPhotoDelete(companyID, photo.Name))
				h.element("button", T(loc, "action.delete"), "type", "submit")
				h.close("form")
				h.close("li")
			}
			h.close("ul")
		}
		h.open("form", "method", "post", "action", routepath.CompanyPhotos(companyID), "enctype", "multipart/form-data")
		h.open("input", "type", "file", "name", FieldPhoto, "accept", "image/*")
		h.element("button", T(loc, "action.add_photo"), "type", "submit")
		h.close("form")
		h.close("section")
	})
}

// TypeLabel returns the localized label for a company type tag, falling back
// to the title-cased tag.
func TypeLabel(loc Localizer, kind string) string {
	key := "type." + kind
	if label := T(loc, key); label != key {
		return label
	}
	return format.FormatType(kind)
}

func typeLabels(loc Localizer, kinds []string) string {
	labels := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		labels = append(labels, TypeLabel(loc, kind))
	}
	return strings.Join(labels, ", ")
}

func definition(h *htmlWriter, term, value string) {
	h.element("dt", term)
	h.element("dd", value)
}

func textInput(h *htmlWriter, loc Localizer, name, label, value string, errs FieldErrors) {
	h.raw("<label>")
	if label != "" {
		h.element("span", label)
	}
	if errs.Has(name) {
		h.open("input", "type", "text", "name", name, "value", value, "aria-invalid", "true")
	} else {
		h.open("input", "type", "text", "name", name, "value", value)
	}
	h.raw("</label>")
	fieldError(h, loc, name, errs)
}

func selectInput(h *htmlWriter, loc Localizer, name, label, value string, options []string, errs FieldErrors) {
	h.raw("<label>")
	h.element("span", label)
	h.open("select", "name", name)
	for _, option := range options {
		if option == value {
			h.element("option", option, "value", option, "selected", "selected")
		} else {
			h.element("option", option, "value", option)
		}
	}
	h.close("select")
	h.raw("</label>")
	fieldError(h, loc, name, errs)
}

func fieldError(h *htmlWriter, loc Localizer, name string, errs FieldErrors) {
	if key, ok := errs[name]; ok {
		h.element("p", T(loc, key), "class", "field-error", "data-field", name)
	}
}

func formButtons(h *htmlWriter, loc Localizer, cancelURL string) {
	h.open("div", "class", "form-actions")
	h.element("button", T(loc, "action.save"), "type", "submit")
	h.element("a", T(loc, "action.cancel"), "href", cancelURL, "class", "cancel")
	h.close("div")
}
