package templates

import (
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/format"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/organization"
)

// Form field names shared by the forms and the handlers that parse them.
const (
	FieldAgreementNo    = "contract_no"
	FieldIssueDate      = "issue_date"
	FieldBusinessEntity = "business_entity"
	FieldType           = "type"
	FieldPerson         = "person"
	FieldPhone          = "phone"
	FieldEmail          = "email"
	FieldName           = "name"
	FieldShortName      = "short_name"
	FieldPhoto          = "file"
)

// FieldErrors maps a form field to the message key describing its problem.
type FieldErrors map[string]string

// Has reports whether field failed validation.
func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// CompanyForm holds the company details form in display representation.
type CompanyForm struct {
	AgreementNo    string
	IssueDate      string
	BusinessEntity string
	Types          []string
	Errors         FieldErrors
}

// ContactForm holds the contact form in display representation.
type ContactForm struct {
	Person string
	Phone  string
	Email  string
	Errors FieldErrors
}

// NameForm holds the rename form.
type NameForm struct {
	Name      string
	ShortName string
	Errors    FieldErrors
}

// CompanyFormFrom fills the details form from a cached company.
func CompanyFormFrom(company organization.Company) CompanyForm {
	types := make([]string, len(company.Type))
	copy(types, company.Type)
	return CompanyForm{
		AgreementNo:    company.Contract.No,
		IssueDate:      format.ToDisplay(company.Contract.IssueDate, format.KindDate),
		BusinessEntity: company.BusinessEntity,
		Types:          types,
	}
}

// ContactFormFrom fills the contact form from a cached contact.
func ContactFormFrom(contact organization.Contact) ContactForm {
	return ContactForm{
		Person: format.JoinComposite(contact.Firstname, contact.Lastname),
		Phone:  format.FormatPhoneForDisplay(contact.Phone),
		Email:  contact.Email,
	}
}

// NameFormFrom fills the rename form from a cached company.
func NameFormFrom(company organization.Company) NameForm {
	return NameForm{Name: company.Name, ShortName: company.ShortName}
}
