package store

import (
	"context"

	apperrors "github.com/chistayaaa/afs-dashboard/internal/platform/errors"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/changeset"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/organization"
)

// DataSource is the remote API as the store needs it.
type DataSource interface {
	GetCompany(ctx context.Context, id string) (organization.Company, error)
	GetContact(ctx context.Context, id string) (organization.Contact, error)
	UpdateCompany(ctx context.Context, id string, changes organization.Record) (organization.Record, error)
	UpdateContact(ctx context.Context, id string, changes organization.Record) (organization.Record, error)
	DeleteCompany(ctx context.Context, id string) error
	UploadPhoto(ctx context.Context, companyID string, upload organization.PhotoUpload) (organization.Photo, error)
	DeletePhoto(ctx context.Context, companyID, name string) error
}

// State is the read state of the tracked company.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Operation names a store operation for in-flight tracking.
type Operation string

const (
	OpLoadCompany   Operation = "load_company"
	OpLoadCompanies Operation = "load_companies"
	OpUpdateCompany Operation = "update_company"
	OpUpdateContact Operation = "update_contact"
	OpAddPhoto      Operation = "add_photo"
	OpDeletePhoto   Operation = "delete_photo"
	OpDeleteCompany Operation = "delete_company"
)

// UpdateOutcome reports what an update call did.
type UpdateOutcome int

const (
	// UpdateUnchanged means the edit matched the cached entity and nothing was sent.
	UpdateUnchanged UpdateOutcome = iota
	UpdateApplied
	UpdateFailed
)

func (o UpdateOutcome) String() string {
	switch o {
	case UpdateUnchanged:
		return "unchanged"
	case UpdateApplied:
		return "applied"
	default:
		return "failed"
	}
}

// EventKind classifies a store notification.
type EventKind string

const (
	EventStarted         EventKind = "started"
	EventCompanyLoaded   EventKind = "company_loaded"
	EventCompaniesLoaded EventKind = "companies_loaded"
	EventCompanyUpdated  EventKind = "company_updated"
	EventContactUpdated  EventKind = "contact_updated"
	EventPhotoAdded      EventKind = "photo_added"
	EventPhotoDeleted    EventKind = "photo_deleted"
	EventCompanyDeleted  EventKind = "company_deleted"
	EventCleared         EventKind = "cleared"
	EventOperationFailed EventKind = "operation_failed"
)

// Event describes one mutation. Snapshot is the state right after it.
type Event struct {
	Kind      EventKind
	Operation Operation
	EntityID  string
	ChangeSet changeset.ChangeSet
	PhotoName string
	Snapshot  Snapshot
}

// Snapshot is a deep copy of the store state.
type Snapshot struct {
	State     State
	CompanyID string
	Company   *organization.Company
	Contact   *organization.Contact
	Photos    []organization.Photo
	Companies []organization.Company
	Error     string
	// ErrorKind classifies Error when it is set.
	ErrorKind apperrors.Kind
	InFlight  map[Operation]bool
}

// Busy reports whether op is running.
func (s Snapshot) Busy(op Operation) bool {
	return s.InFlight[op]
}

// Loaded reports whether a fully populated company is cached.
func (s Snapshot) Loaded() bool {
	return s.State == StateLoaded && s.Company != nil && s.Contact != nil
}
