package store

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sync"

	apperrors "github.com/chistayaaa/afs-dashboard/internal/platform/errors"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/changeset"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/organization"
)

// DefaultCatalog is the company list shown when none is configured. The API
// has no list endpoint.
var DefaultCatalog = []string{"12"}

var errNoCompany = apperrors.E(apperrors.KindValidation, "no company loaded")

// Option configures an OrganizationStore.
type Option func(*OrganizationStore)

// WithCatalog sets the company ids listed on the companies page.
func WithCatalog(ids ...string) Option {
	return func(s *OrganizationStore) {
		s.catalog = slices.Clone(ids)
	}
}

// WithWholeGroups overrides the groups the remote replaces as a unit.
func WithWholeGroups(groups changeset.WholeGroups) Option {
	return func(s *OrganizationStore) {
		s.groups = groups
	}
}

// OrganizationStore caches one company for editing plus the summary list.
//
// The mutex guards memory only and is never held across remote calls. Each
// load, clear or delete bumps a generation counter; a load that finishes
// after a newer generation started is dropped.
type OrganizationStore struct {
	source  DataSource
	catalog []string
	groups  changeset.WholeGroups

	mu          sync.Mutex
	state       State
	currentID   string
	company     *organization.Company
	contact     *organization.Contact
	photos      []organization.Photo
	companies   []organization.Company
	lastErr     string
	lastKind    apperrors.Kind
	inFlight    map[Operation]int
	generation  uint64
	deleted     map[string]bool
	subscribers []subscriber
	nextSubID   int
}

type subscriber struct {
	id int
	fn func(Event)
}

// New builds a store over source.
func New(source DataSource, opts ...Option) *OrganizationStore {
	s := &OrganizationStore{
		source:   source,
		catalog:  slices.Clone(DefaultCatalog),
		groups:   changeset.DefaultWholeGroups,
		inFlight: map[Operation]int{},
		deleted:  map[string]bool{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Subscribe registers fn for every event and returns a function that removes
// it. fn runs outside the store lock and may call back into the store.
func (s *OrganizationStore) Subscribe(fn func(Event)) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.subscribers = slices.DeleteFunc(s.subscribers, func(sub subscriber) bool { return sub.id == id })
		})
	}
}

// Snapshot returns a deep copy of the current state.
func (s *OrganizationStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// LoadCompany fetches a company, then its contact, and caches both with the
// company's photos. A cached, fully populated company with the same id is
// kept as is; anything else cached is dropped before the fetch starts.
func (s *OrganizationStore) LoadCompany(ctx context.Context, id string) {
	s.mu.Lock()
	if s.currentID == id && s.company != nil && s.contact != nil && s.company.ID == id {
		s.mu.Unlock()
		return
	}
	s.generation++
	gen := s.generation
	s.currentID = id
	s.state = StateLoading
	// The cache for an id is either absent or fully populated.
	s.company, s.contact, s.photos = nil, nil, nil
	s.lastErr, s.lastKind = "", ""
	s.inFlight[OpLoadCompany]++
	started := s.eventLocked(EventStarted, OpLoadCompany, id)
	s.mu.Unlock()
	s.publish(started)

	company, contact, err := s.fetchCompany(ctx, id)

	s.mu.Lock()
	s.inFlight[OpLoadCompany]--
	if gen != s.generation {
		s.mu.Unlock()
		log.Printf("store discarded stale load company_id=%s generation=%d", id, gen)
		return
	}
	var event Event
	if err != nil {
		s.company, s.contact, s.photos = nil, nil, nil
		s.state = StateFailed
		s.lastErr = fmt.Sprintf("Failed to load company %s: %v", id, err)
		s.lastKind = apperrors.KindOf(err)
		event = s.eventLocked(EventOperationFailed, OpLoadCompany, id)
	} else {
		s.photos = uniquePhotos(company.Photos)
		company.Photos = slices.Clone(s.photos)
		s.company = &company
		s.contact = &contact
		s.state = StateLoaded
		event = s.eventLocked(EventCompanyLoaded, OpLoadCompany, id)
	}
	s.mu.Unlock()
	s.publish(event)
}

func (s *OrganizationStore) fetchCompany(ctx context.Context, id string) (organization.Company, organization.Contact, error) {
	company, err := s.source.GetCompany(ctx, id)
	if err != nil {
		return organization.Company{}, organization.Contact{}, err
	}
	contact, err := s.source.GetContact(ctx, company.ContactID)
	if err != nil {
		return organization.Company{}, organization.Contact{}, err
	}
	return company, contact, nil
}

// LoadCompanies fetches every catalog company not deleted during this
// store's lifetime. Any failure empties the list.
func (s *OrganizationStore) LoadCompanies(ctx context.Context) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.catalog))
	for _, id := range s.catalog {
		if !s.deleted[id] {
			ids = append(ids, id)
		}
	}
	s.lastErr, s.lastKind = "", ""
	s.inFlight[OpLoadCompanies]++
	started := s.eventLocked(EventStarted, OpLoadCompanies, "")
	s.mu.Unlock()
	s.publish(started)

	companies := make([]organization.Company, 0, len(ids))
	var loadErr error
	for _, id := range ids {
		company, err := s.source.GetCompany(ctx, id)
		if err != nil {
			loadErr = err
			break
		}
		companies = append(companies, company)
	}

	s.mu.Lock()
	s.inFlight[OpLoadCompanies]--
	var event Event
	if loadErr != nil {
		s.companies = nil
		s.lastErr = fmt.Sprintf("Failed to load companies: %v", loadErr)
		s.lastKind = apperrors.KindOf(loadErr)
		event = s.eventLocked(EventOperationFailed, OpLoadCompanies, "")
	} else {
		s.companies = slices.DeleteFunc(companies, func(c organization.Company) bool { return s.deleted[c.ID] })
		event = s.eventLocked(EventCompaniesLoaded, OpLoadCompanies, "")
	}
	s.mu.Unlock()
	s.publish(event)
}

// UpdateCompany sends the fields of edited that differ from the cached
// company and merges the server's answer into the cache.
func (s *OrganizationStore) UpdateCompany(ctx context.Context, edited organization.Company) UpdateOutcome {
	return s.update(ctx, entityCompany, edited)
}

// UpdateContact sends the fields of edited that differ from the cached
// contact and merges the server's answer into the cache.
func (s *OrganizationStore) UpdateContact(ctx context.Context, edited organization.Contact) UpdateOutcome {
	return s.update(ctx, entityContact, edited)
}

// AddPhoto uploads a photo and appends it once the remote confirms. A photo
// with a name already in the list replaces that entry.
func (s *OrganizationStore) AddPhoto(ctx context.Context, upload organization.PhotoUpload) bool {
	companyID, ok := s.beginCompanyWrite(OpAddPhoto, "Failed to add photo")
	if !ok {
		return false
	}

	photo, err := s.source.UploadPhoto(ctx, companyID, upload)

	s.mu.Lock()
	s.inFlight[OpAddPhoto]--
	if err != nil {
		s.lastErr = fmt.Sprintf("Failed to add photo: %v", err)
		s.lastKind = apperrors.KindOf(err)
		event := s.eventLocked(EventOperationFailed, OpAddPhoto, companyID)
		s.mu.Unlock()
		s.publish(event)
		return false
	}
	if s.company != nil && s.company.ID == companyID {
		if idx := organization.PhotoIndex(s.photos, photo.Name); idx >= 0 {
			s.photos[idx] = photo
		} else {
			s.photos = append(s.photos, photo)
		}
		s.syncPhotosLocked()
	}
	event := s.eventLocked(EventPhotoAdded, OpAddPhoto, companyID)
	event.PhotoName = photo.Name
	s.mu.Unlock()
	s.publish(event)
	return true
}

// DeletePhoto removes a photo once the remote confirms.
func (s *OrganizationStore) DeletePhoto(ctx context.Context, name string) bool {
	companyID, ok := s.beginCompanyWrite(OpDeletePhoto, "Failed to delete photo")
	if !ok {
		return false
	}

	err := s.source.DeletePhoto(ctx, companyID, name)

	s.mu.Lock()
	s.inFlight[OpDeletePhoto]--
	if err != nil {
		s.lastErr = fmt.Sprintf("Failed to delete photo: %v", err)
		s.lastKind = apperrors.KindOf(err)
		event := s.eventLocked(EventOperationFailed, OpDeletePhoto, companyID)
		s.mu.Unlock()
		s.publish(event)
		return false
	}
	if s.company != nil && s.company.ID == companyID {
		s.photos = slices.DeleteFunc(s.photos, func(p organization.Photo) bool { return p.Name == name })
		s.syncPhotosLocked()
	}
	event := s.eventLocked(EventPhotoDeleted, OpDeletePhoto, companyID)
	event.PhotoName = name
	s.mu.Unlock()
	s.publish(event)
	return true
}

// DeleteCompany deletes the cached company remotely, then drops it from the
// summary list and the cache. On failure both are left alone.
func (s *OrganizationStore) DeleteCompany(ctx context.Context) bool {
	companyID, ok := s.beginCompanyWrite(OpDeleteCompany, "Failed to delete company")
	if !ok {
		return false
	}

	err := s.source.DeleteCompany(ctx, companyID)

	s.mu.Lock()
	s.inFlight[OpDeleteCompany]--
	if err != nil {
		s.lastErr = fmt.Sprintf("Failed to delete company: %v", err)
		s.lastKind = apperrors.KindOf(err)
		event := s.eventLocked(EventOperationFailed, OpDeleteCompany, companyID)
		s.mu.Unlock()
		s.publish(event)
		return false
	}
	s.deleted[companyID] = true
	s.companies = slices.DeleteFunc(s.companies, func(c organization.Company) bool { return c.ID == companyID })
	if s.currentID == companyID || (s.company != nil && s.company.ID == companyID) {
		s.clearLocked()
	}
	event := s.eventLocked(EventCompanyDeleted, OpDeleteCompany, companyID)
	s.mu.Unlock()
	s.publish(event)
	return true
}

// Clear drops the cached company. A load still in flight is discarded when
// it returns.
func (s *OrganizationStore) Clear() {
	s.mu.Lock()
	s.clearLocked()
	event := s.eventLocked(EventCleared, "", "")
	s.mu.Unlock()
	s.publish(event)
}

func (s *OrganizationStore) clearLocked() {
	s.generation++
	s.state = StateEmpty
	s.currentID = ""
	s.company, s.contact, s.photos = nil, nil, nil
	s.lastErr, s.lastKind = "", ""
}

// beginCompanyWrite clears the error and marks op in flight for the cached
// company. Without one it records the failure under prefix.
func (s *OrganizationStore) beginCompanyWrite(op Operation, prefix string) (string, bool) {
	s.mu.Lock()
	s.lastErr, s.lastKind = "", ""
	if s.company == nil {
		s.lastErr = fmt.Sprintf("%s: %v", prefix, errNoCompany)
		s.lastKind = apperrors.KindOf(errNoCompany)
		event := s.eventLocked(EventOperationFailed, op, "")
		s.mu.Unlock()
		s.publish(event)
		return "", false
	}
	companyID := s.company.ID
	s.inFlight[op]++
	event := s.eventLocked(EventStarted, op, companyID)
	s.mu.Unlock()
	s.publish(event)
	return companyID, true
}

func (s *OrganizationStore) syncPhotosLocked() {
	s.company.Photos = slices.Clone(s.photos)
	s.refreshSummaryLocked()
}

func (s *OrganizationStore) refreshSummaryLocked() {
	if s.company == nil {
		return
	}
	for i := range s.companies {
		if s.companies[i].ID == s.company.ID {
			s.companies[i] = *s.company.Clone()
		}
	}
}

func (s *OrganizationStore) eventLocked(kind EventKind, op Operation, entityID string) Event {
	return Event{
		Kind:      kind,
		Operation: op,
		EntityID:  entityID,
		Snapshot:  s.snapshotLocked(),
	}
}

func (s *OrganizationStore) snapshotLocked() Snapshot {
	snapshot := Snapshot{
		State:     s.state,
		CompanyID: s.currentID,
		Company:   s.company.Clone(),
		Contact:   s.contact.Clone(),
		Photos:    slices.Clone(s.photos),
		Error:     s.lastErr,
		ErrorKind: s.lastKind,
		InFlight:  map[Operation]bool{},
	}
	if s.companies != nil {
		snapshot.Companies = make([]organization.Company, len(s.companies))
		for i := range s.companies {
			snapshot.Companies[i] = *s.companies[i].Clone()
		}
	}
	for op, count := range s.inFlight {
		if count > 0 {
			snapshot.InFlight[op] = true
		}
	}
	return snapshot
}

func (s *OrganizationStore) publish(event Event) {
	s.mu.Lock()
	subs := slices.Clone(s.subscribers)
	s.mu.Unlock()
	for _, sub := range subs {
		sub.fn(event)
	}
}

// uniquePhotos keeps the first photo for each name.
func uniquePhotos(photos []organization.Photo) []organization.Photo {
	out := make([]organization.Photo, 0, len(photos))
	seen := make(map[string]bool, len(photos))
	for _, photo := range photos {
		if seen[photo.Name] {
			continue
		}
		seen[photo.Name] = true
		out = append(out, photo)
	}
	return out
}
