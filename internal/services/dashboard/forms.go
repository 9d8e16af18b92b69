package dashboard

import (
	"net/url"
	"slices"
	"strings"

	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/format"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/organization"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/templates"
)

func parseCompanyForm(values url.Values) templates.CompanyForm {
	return templates.CompanyForm{
		AgreementNo:    strings.TrimSpace(values.Get(templates.FieldAgreementNo)),
		IssueDate:      strings.TrimSpace(values.Get(templates.FieldIssueDate)),
		BusinessEntity: strings.TrimSpace(values.Get(templates.FieldBusinessEntity)),
		Types:          values[templates.FieldType],
	}
}

// validateCompanyForm records field errors on form and reports whether it
// can be submitted.
func validateCompanyForm(form *templates.CompanyForm) bool {
	errs := templates.FieldErrors{}
	if !format.Validate(form.AgreementNo, format.KindAgreementCode) {
		errs[templates.FieldAgreementNo] = "errors.agreement"
	}
	if !format.Validate(format.ToCanonical(form.IssueDate, format.KindDate), format.KindDate) {
		errs[templates.FieldIssueDate] = "errors.date"
	}
	if !slices.Contains(organization.BusinessEntities, form.BusinessEntity) {
		errs[templates.FieldBusinessEntity] = "errors.business_entity"
	}
	if len(form.Types) == 0 {
		errs[templates.FieldType] = "errors.type"
	}
	for _, kind := range form.Types {
		if !slices.Contains(organization.CompanyTypes, kind) {
			errs[templates.FieldType] = "errors.type"
		}
	}
	form.Errors = errs
	return len(errs) == 0
}

// applyCompanyForm returns company with the form's canonical values.
func applyCompanyForm(company organization.Company, form templates.CompanyForm) organization.Company {
	company.Contract = organization.Contract{
		No:        format.ToCanonical(form.AgreementNo, format.KindAgreementCode),
		IssueDate: format.ToCanonical(form.IssueDate, format.KindDate),
	}
	company.BusinessEntity = form.BusinessEntity
	company.Type = slices.Clone(form.Types)
	return company
}

func parseContactForm(values url.Values) templates.ContactForm {
	return templates.ContactForm{
		Person: strings.TrimSpace(values.Get(templates.FieldPerson)),
		Phone:  strings.TrimSpace(values.Get(templates.FieldPhone)),
		Email:  strings.TrimSpace(values.Get(templates.FieldEmail)),
	}
}

func validateContactForm(form *templates.ContactForm) bool {
	errs := templates.FieldErrors{}
	if !format.Validate(form.Person, format.KindShortFreeform) {
		errs[templates.FieldPerson] = "errors.person"
	}
	if !format.Validate(form.Phone, format.KindPhone) {
		errs[templates.FieldPhone] = "errors.phone"
	}
	if !format.Validate(form.Email, format.KindEmail) {
		errs[templates.FieldEmail] = "errors.email"
	}
	form.Errors = errs
	return len(errs) == 0
}

func applyContactForm(contact organization.Contact, form templates.ContactForm) organization.Contact {
	contact.Firstname, contact.Lastname = format.SplitComposite(form.Person)
	contact.Phone = format.ToCanonical(form.Phone, format.KindPhone)
	contact.Email = format.ToCanonical(form.Email, format.KindEmail)
	return contact
}

func parseNameForm(values url.Values) templates.NameForm {
	return templates.NameForm{
		Name:      strings.TrimSpace(values.Get(templates.FieldName)),
		ShortName: strings.TrimSpace(values.Get(templates.FieldShortName)),
	}
}

func validateNameForm(form *templates.NameForm) bool {
	errs := templates.FieldErrors{}
	if form.Name == "" {
		errs[templates.FieldName] = "errors.name"
	}
	form.Errors = errs
	return len(errs) == 0
}

// applyNameForm renames company. An empty short name keeps the current one.
func applyNameForm(company organization.Company, form templates.NameForm) organization.Company {
	company.Name = format.ToCanonical(form.Name, format.KindText)
	if form.ShortName != "" {
		company.ShortName = format.ToCanonical(form.ShortName, format.KindText)
	}
	return company
}
