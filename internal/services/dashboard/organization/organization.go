package organization

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Company type values accepted by the remote API.
const (
	TypeFuneralHome          = "funeral_home"
	TypeLogisticsServices    = "logistics_services"
	TypeBurialCareContractor = "burial_care_contractor"
)

// CompanyTypes lists the selectable company types in display order.
var CompanyTypes = []string{TypeFuneralHome, TypeLogisticsServices, TypeBurialCareContractor}

// BusinessEntities lists the selectable legal forms in display order.
var BusinessEntities = []string{"Sole Proprietorship", "Partnership", "Limited Liability Company"}

// Contract is the agreement group. The remote replaces it as a whole.
type Contract struct {
	No        string `json:"no"`
	IssueDate string `json:"issue_date"`
}

// Photo is an image attached to a company. Name is unique per company.
type Photo struct {
	Name      string `json:"name"`
	Filepath  string `json:"filepath"`
	Thumbpath string `json:"thumbpath"`
	CreatedAt string `json:"createdAt"`
}

// Company is a funeral-service organization.
type Company struct {
	ID             string   `json:"id"`
	ContactID      string   `json:"contactId"`
	Name           string   `json:"name"`
	ShortName      string   `json:"shortName"`
	BusinessEntity string   `json:"businessEntity"`
	Contract       Contract `json:"contract"`
	Type           []string `json:"type"`
	Status         string   `json:"status"`
	Photos         []Photo  `json:"photos"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
}

// Contact is the responsible person for a company.
type Contact struct {
	ID        string `json:"id"`
	Lastname  string `json:"lastname"`
	Firstname string `json:"firstname"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// FullName joins first and last name the way the contact form shows them.
func (c Contact) FullName() string {
	switch {
	case c.Firstname == "":
		return c.Lastname
	case c.Lastname == "":
		return c.Firstname
	}
	return c.Firstname + " " + c.Lastname
}

// Client is listed on the clients page.
type Client struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Clone returns a deep copy of c.
func (c *Company) Clone() *Company {
	if c == nil {
		return nil
	}
	out := *c
	out.Type = slices.Clone(c.Type)
	out.Photos = slices.Clone(c.Photos)
	return &out
}

// Clone returns a copy of c.
func (c *Contact) Clone() *Contact {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

// HasType reports whether the company carries the given type tag.
func (c Company) HasType(kind string) bool {
	return slices.Contains(c.Type, kind)
}

// PhotoIndex returns the position of the named photo, or -1.
func PhotoIndex(photos []Photo, name string) int {
	return slices.IndexFunc(photos, func(p Photo) bool { return p.Name == name })
}

// Record is the JSON-shaped view of an entity: strings, nested groups as
// map[string]any, lists as []any.
type Record map[string]any

// ToRecord converts an entity into its Record form through JSON so that every
// Record has the same dynamic value types regardless of origin.
func ToRecord(entity any) (Record, error) {
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return DecodeRecord(raw)
}

// DecodeRecord parses a JSON object into a Record.
func DecodeRecord(raw []byte) (Record, error) {
	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("decode record: not an object")
	}
	return record, nil
}

// FromRecord decodes a Record into target.
func FromRecord(record Record, target any) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode entity: %w", err)
	}
	return nil
}

// Merge overlays patch onto base and returns a new Record. Fields in patch
// win; nested groups present on both sides are merged field by field.
func Merge(base, patch Record) Record {
	out := make(Record, len(base)+len(patch))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range patch {
		baseGroup, baseOK := out[key].(map[string]any)
		patchGroup, patchOK := value.(map[string]any)
		if baseOK && patchOK {
			out[key] = map[string]any(Merge(baseGroup, patchGroup))
			continue
		}
		out[key] = value
	}
	return out
}

// ApplyRecord merges patch over entity and decodes the result back into
// entity. entity must be a pointer.
func ApplyRecord(entity any, patch Record) error {
	base, err := ToRecord(entity)
	if err != nil {
		return err
	}
	return FromRecord(Merge(base, patch), entity)
}

// PhotoUpload is an image file on its way to the remote API.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}
