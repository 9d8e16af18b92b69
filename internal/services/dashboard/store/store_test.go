package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/chistayaaa/afs-dashboard/internal/platform/errors"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/changeset"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/organization"
)

type fakeSource struct {
	mu        sync.Mutex
	companies map[string]organization.Company
	contacts  map[string]organization.Contact
	calls     map[string]int
	failNext  map[string]error
	patches   []organization.Record
	echo      organization.Record
	// gate, when set for a company id, blocks GetCompany until closed.
	gate map[string]chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		companies: map[string]organization.Company{
			"12": {
				ID:             "12",
				ContactID:      "16",
				Name:           "Eternal Rest Funeral Home LLC",
				ShortName:      "Eternal Rest",
				BusinessEntity: "Partnership",
				Contract:       organization.Contract{No: "12345", IssueDate: "2015-03-12T00:00:00Z"},
				Type:           []string{organization.TypeFuneralHome},
				Status:         "active",
				Photos: []organization.Photo{
					{Name: "front.png", Filepath: "front.png", Thumbpath: "front_160x160.png"},
				},
			},
			"13": {ID: "13", ContactID: "17", Name: "Second"},
		},
		contacts: map[string]organization.Contact{
			"16": {ID: "16", Firstname: "David", Lastname: "Smith", Phone: "17025552345", Email: "emma.green@rosefhome.com"},
			"17": {ID: "17", Firstname: "Ann"},
		},
		calls:    map[string]int{},
		failNext: map[string]error{},
		gate:     map[string]chan struct{}{},
	}
}

func (f *fakeSource) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[call]++
	if err, ok := f.failNext[call]; ok {
		delete(f.failNext, call)
		return err
	}
	return nil
}

func (f *fakeSource) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[call]
}

func (f *fakeSource) fail(call string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext[call] = err
}

func (f *fakeSource) GetCompany(_ context.Context, id string) (organization.Company, error) {
	f.mu.Lock()
	gate := f.gate[id]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err := f.record("GetCompany"); err != nil {
		return organization.Company{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	company, ok := f.companies[id]
	if !ok {
		return organization.Company{}, apperrors.E(apperrors.KindNotFound, "API request failed: 404 Not Found")
	}
	return *company.Clone(), nil
}

func (f *fakeSource) GetContact(_ context.Context, id string) (organization.Contact, error) {
	if err := f.record("GetContact"); err != nil {
		return organization.Contact{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	contact, ok := f.contacts[id]
	if !ok {
		return organization.Contact{}, apperrors.E(apperrors.KindNotFound, "API request failed: 404 Not Found")
	}
	return contact, nil
}

func (f *fakeSource) UpdateCompany(_ context.Context, _ string, changes organization.Record) (organization.Record, error) {
	if err := f.record("UpdateCompany"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, changes)
	return f.echo, nil
}

func (f *fakeSource) UpdateContact(_ context.Context, _ string, changes organization.Record) (organization.Record, error) {
	if err := f.record("UpdateContact"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, changes)
	return f.echo, nil
}

func (f *fakeSource) DeleteCompany(_ context.Context, _ string) error {
	return f.record("DeleteCompany")
}

func (f *fakeSource) UploadPhoto(_ context.Context, _ string, upload organization.PhotoUpload) (organization.Photo, error) {
	if err := f.record("UploadPhoto"); err != nil {
		return organization.Photo{}, err
	}
	return organization.Photo{Name: upload.Filename, Filepath: upload.Filename, Thumbpath: "thumb_" + upload.Filename}, nil
}

func (f *fakeSource) DeletePhoto(_ context.Context, _ string, _ string) error {
	return f.record("DeletePhoto")
}

func loadedStore(t *testing.T) (*OrganizationStore, *fakeSource) {
	t.Helper()
	source := newFakeSource()
	s := New(source)
	s.LoadCompany(context.Background(), "12")
	if snap := s.Snapshot(); !snap.Loaded() {
		t.Fatalf("expected loaded store, got state=%s err=%q", snap.State, snap.Error)
	}
	return s, source
}

func TestLoadCompanyPopulatesCache(t *testing.T) {
	s, source := loadedStore(t)
	snap := s.Snapshot()

	if snap.State != StateLoaded || snap.Error != "" || snap.CompanyID != "12" {
		t.Fatalf("unexpected snapshot state=%s err=%q id=%q", snap.State, snap.Error, snap.CompanyID)
	}
	if snap.Company.Name != "Eternal Rest Funeral Home LLC" || snap.Contact.ID != "16" {
		t.Fatalf("unexpected cache %+v %+v", snap.Company, snap.Contact)
	}
	if len(snap.Photos) != 1 || snap.Photos[0].Name != "front.png" {
		t.Fatalf("unexpected photos %+v", snap.Photos)
	}
	if source.count("GetCompany") != 1 || source.count("GetContact") != 1 {
		t.Fatalf("unexpected calls %v", source.calls)
	}
}

func TestLoadCompanyCacheHit(t *testing.T) {
	s, source := loadedStore(t)
	s.LoadCompany(context.Background(), "12")
	if source.count("GetCompany") != 1 {
		t.Fatalf("expected cache hit, got %d fetches", source.count("GetCompany"))
	}
}

func TestLoadCompanyFailureClearsCache(t *testing.T) {
	s, source := loadedStore(t)
	source.fail("GetContact", apperrors.E(apperrors.KindNetwork, "API request failed: timeout"))

	s.LoadCompany(context.Background(), "13")
	snap := s.Snapshot()
	if snap.State != StateFailed {
		t.Fatalf("expected failed, got %s", snap.State)
	}
	if snap.Company != nil || snap.Contact != nil || len(snap.Photos) != 0 {
		t.Fatalf("expected cleared cache, got %+v %+v %+v", snap.Company, snap.Contact, snap.Photos)
	}
	if snap.Error != "Failed to load company 13: API request failed: timeout" {
		t.Fatalf("unexpected error %q", snap.Error)
	}
	if snap.ErrorKind != apperrors.KindNetwork {
		t.Fatalf("expected network error kind, got %q", snap.ErrorKind)
	}

	s.LoadCompany(context.Background(), "12")
	if snap := s.Snapshot(); snap.State != StateLoaded || snap.Error != "" {
		t.Fatalf("expected recovery, got state=%s err=%q", snap.State, snap.Error)
	}
}

func TestLoadCompanyDiscardsStaleResponse(t *testing.T) {
	source := newFakeSource()
	gate := make(chan struct{})
	source.gate["13"] = gate
	s := New(source)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.LoadCompany(context.Background(), "13")
	}()

	waitFor(t, func() bool { return s.Snapshot().Busy(OpLoadCompany) })
	s.LoadCompany(context.Background(), "12")
	close(gate)
	<-done

	snap := s.Snapshot()
	if snap.CompanyID != "12" || snap.Company == nil || snap.Company.ID != "12" {
		t.Fatalf("expected newer load to win, got id=%q company=%+v", snap.CompanyID, snap.Company)
	}
	if snap.Busy(OpLoadCompany) {
		t.Fatal("expected no load in flight")
	}
}

func TestLoadCompanySwitchDropsPreviousEntity(t *testing.T) {
	s, source := loadedStore(t)
	gate := make(chan struct{})
	source.mu.Lock()
	source.gate["13"] = gate
	source.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.LoadCompany(context.Background(), "13")
	}()
	waitFor(t, func() bool { return s.Snapshot().Busy(OpLoadCompany) })

	snap := s.Snapshot()
	if snap.State != StateLoading || snap.CompanyID != "13" {
		t.Fatalf("expected loading 13, got state=%s id=%q", snap.State, snap.CompanyID)
	}
	if snap.Company != nil || snap.Contact != nil || len(snap.Photos) != 0 {
		t.Fatalf("expected previous entity dropped, got %+v %+v %+v", snap.Company, snap.Contact, snap.Photos)
	}

	if s.DeleteCompany(context.Background()) {
		t.Fatal("expected delete to fail while switching")
	}
	if got := source.count("DeleteCompany"); got != 0 {
		t.Fatalf("expected no remote delete, got %d", got)
	}

	close(gate)
	<-done
	snap = s.Snapshot()
	if !snap.Loaded() || snap.Company.ID != "13" || snap.Contact.ID != "17" {
		t.Fatalf("expected company 13 loaded, got state=%s company=%+v contact=%+v", snap.State, snap.Company, snap.Contact)
	}
	if len(snap.Photos) != 0 {
		t.Fatalf("expected company 13 photos only, got %+v", snap.Photos)
	}
}

func TestLoadCompanySwitchFailureLeavesNoEntity(t *testing.T) {
	s, source := loadedStore(t)
	source.fail("GetCompany", apperrors.E(apperrors.KindNetwork, "offline"))

	s.LoadCompany(context.Background(), "13")
	snap := s.Snapshot()
	if snap.State != StateFailed || snap.CompanyID != "13" {
		t.Fatalf("expected failed load of 13, got state=%s id=%q", snap.State, snap.CompanyID)
	}
	if snap.Company != nil || snap.Contact != nil || len(snap.Photos) != 0 {
		t.Fatalf("expected no cached entity, got %+v %+v %+v", snap.Company, snap.Contact, snap.Photos)
	}
}

func TestClearDiscardsInFlightLoad(t *testing.T) {
	source := newFakeSource()
	gate := make(chan struct{})
	source.gate["12"] = gate
	s := New(source)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.LoadCompany(context.Background(), "12")
	}()
	waitFor(t, func() bool { return s.Snapshot().Busy(OpLoadCompany) })
	s.Clear()
	close(gate)
	<-done

	if snap := s.Snapshot(); snap.State != StateEmpty || snap.Company != nil {
		t.Fatalf("expected cleared store, got state=%s company=%+v", snap.State, snap.Company)
	}
}

func TestLoadCompanies(t *testing.T) {
	source := newFakeSource()
	s := New(source, WithCatalog("12", "13"))
	s.LoadCompanies(context.Background())
	snap := s.Snapshot()
	if len(snap.Companies) != 2 || snap.Error != "" {
		t.Fatalf("unexpected companies %+v err=%q", snap.Companies, snap.Error)
	}

	source.fail("GetCompany", errors.New("boom"))
	s.LoadCompanies(context.Background())
	snap = s.Snapshot()
	if len(snap.Companies) != 0 || snap.Error != "Failed to load companies: boom" {
		t.Fatalf("unexpected failure snapshot %+v err=%q", snap.Companies, snap.Error)
	}
}

func TestUpdateCompanyUnchangedSkipsNetwork(t *testing.T) {
	s, source := loadedStore(t)
	var events []Event
	s.Subscribe(func(e Event) { events = append(events, e) })

	before := s.Snapshot()
	outcome := s.UpdateCompany(context.Background(), *before.Company)
	if outcome != UpdateUnchanged {
		t.Fatalf("expected unchanged, got %s", outcome)
	}
	if source.count("UpdateCompany") != 0 {
		t.Fatal("expected no network call")
	}
	if len(events) != 0 {
		t.Fatalf("expected no notifications, got %d", len(events))
	}
	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Fatalf("expected unchanged snapshot (-before +after):\n%s", diff)
	}
}

func TestUpdateCompanySendsOnlyChanges(t *testing.T) {
	s, source := loadedStore(t)
	s.LoadCompanies(context.Background())
	source.echo = organization.Record{"updatedAt": "2024-05-01T10:00:00Z"}

	edited := *s.Snapshot().Company
	edited.Contract.No = "1/2"
	edited.Type = []string{organization.TypeFuneralHome, organization.TypeLogisticsServices}

	if outcome := s.UpdateCompany(context.Background(), edited); outcome != UpdateApplied {
		t.Fatalf("expected applied, got %s (%q)", outcome, s.Snapshot().Error)
	}

	want := organization.Record{
		"contract": map[string]any{"no": "1/2", "issue_date": "2015-03-12T00:00:00Z"},
		"type":     []any{organization.TypeFuneralHome, organization.TypeLogisticsServices},
	}
	if diff := cmp.Diff([]organization.Record{want}, source.patches); diff != "" {
		t.Fatalf("unexpected patch (-want +got):\n%s", diff)
	}

	snap := s.Snapshot()
	if snap.Company.Contract.No != "1/2" || snap.Company.UpdatedAt != "2024-05-01T10:00:00Z" {
		t.Fatalf("expected merged company, got %+v", snap.Company)
	}
	if len(snap.Companies) != 1 || snap.Companies[0].Contract.No != "1/2" {
		t.Fatalf("expected summary refresh, got %+v", snap.Companies)
	}
}

func TestUpdateCompanyServerWins(t *testing.T) {
	s, source := loadedStore(t)
	source.echo = organization.Record{"name": "Normalized Name"}

	edited := *s.Snapshot().Company
	edited.Name = "  raw name "
	if outcome := s.UpdateCompany(context.Background(), edited); outcome != UpdateApplied {
		t.Fatalf("expected applied, got %s", outcome)
	}
	if got := s.Snapshot().Company.Name; got != "Normalized Name" {
		t.Fatalf("expected server value, got %q", got)
	}
}

func TestUpdateCompanyFailureKeepsCache(t *testing.T) {
	s, source := loadedStore(t)
	source.fail("UpdateCompany", apperrors.Wrap(apperrors.KindValidation, "API request failed", errors.New("PATCH companies/12: 400 Bad Request")))

	edited := *s.Snapshot().Company
	edited.Name = "New"
	if outcome := s.UpdateCompany(context.Background(), edited); outcome != UpdateFailed {
		t.Fatalf("expected failed, got %s", outcome)
	}
	snap := s.Snapshot()
	if snap.Company.Name != "Eternal Rest Funeral Home LLC" || snap.State != StateLoaded {
		t.Fatalf("expected untouched cache, got %+v state=%s", snap.Company, snap.State)
	}
	if snap.Error != "Failed to update company details: API request failed: PATCH companies/12: 400 Bad Request" {
		t.Fatalf("unexpected error %q", snap.Error)
	}
	if snap.Busy(OpUpdateCompany) {
		t.Fatal("expected flag cleared")
	}
}

func TestUpdateCompanyIgnoresBlankID(t *testing.T) {
	s, source := loadedStore(t)

	edited := *s.Snapshot().Company
	edited.ID = ""
	edited.Name = "Renamed"
	if outcome := s.UpdateCompany(context.Background(), edited); outcome != UpdateApplied {
		t.Fatalf("expected applied, got %s (%q)", outcome, s.Snapshot().Error)
	}

	want := []organization.Record{{"name": "Renamed"}}
	if diff := cmp.Diff(want, source.patches); diff != "" {
		t.Fatalf("unexpected patch (-want +got):\n%s", diff)
	}
	snap := s.Snapshot()
	if snap.Company.ID != "12" || snap.CompanyID != "12" || snap.Company.Name != "Renamed" {
		t.Fatalf("expected identity kept, got id=%q current=%q name=%q", snap.Company.ID, snap.CompanyID, snap.Company.Name)
	}
}

func TestUpdateCompanyRejectsOtherEntity(t *testing.T) {
	s, source := loadedStore(t)
	edited := *s.Snapshot().Company
	edited.ID = "99"
	if outcome := s.UpdateCompany(context.Background(), edited); outcome != UpdateFailed {
		t.Fatalf("expected failed, got %s", outcome)
	}
	if source.count("UpdateCompany") != 0 {
		t.Fatal("expected no network call")
	}
}

func TestUpdateWithoutCacheFails(t *testing.T) {
	s := New(newFakeSource())
	if outcome := s.UpdateContact(context.Background(), organization.Contact{ID: "16"}); outcome != UpdateFailed {
		t.Fatalf("expected failed, got %s", outcome)
	}
	if got := s.Snapshot().Error; got != "Failed to update contact details: no contact loaded" {
		t.Fatalf("unexpected error %q", got)
	}
}

func TestUpdateContact(t *testing.T) {
	s, source := loadedStore(t)
	edited := *s.Snapshot().Contact
	edited.Email = "new@mail.com"

	if outcome := s.UpdateContact(context.Background(), edited); outcome != UpdateApplied {
		t.Fatalf("expected applied, got %s", outcome)
	}
	if diff := cmp.Diff([]organization.Record{{"email": "new@mail.com"}}, source.patches); diff != "" {
		t.Fatalf("unexpected patch (-want +got):\n%s", diff)
	}
	if got := s.Snapshot().Contact.Email; got != "new@mail.com" {
		t.Fatalf("expected merged email, got %q", got)
	}
}

func TestWithWholeGroupsOverride(t *testing.T) {
	source := newFakeSource()
	s := New(source, WithWholeGroups(changeset.WholeGroups{}))
	s.LoadCompany(context.Background(), "12")

	edited := *s.Snapshot().Company
	edited.Contract.No = "1/2"
	s.UpdateCompany(context.Background(), edited)

	want := organization.Record{"contract": map[string]any{"no": "1/2"}}
	if diff := cmp.Diff([]organization.Record{want}, source.patches); diff != "" {
		t.Fatalf("unexpected patch (-want +got):\n%s", diff)
	}
}

func TestAddThenDeletePhotoRestoresList(t *testing.T) {
	s, _ := loadedStore(t)
	before := s.Snapshot().Photos

	if !s.AddPhoto(context.Background(), organization.PhotoUpload{Filename: "a.jpg", Data: []byte("x")}) {
		t.Fatalf("add photo failed: %q", s.Snapshot().Error)
	}
	snap := s.Snapshot()
	if len(snap.Photos) != 2 || len(snap.Company.Photos) != 2 {
		t.Fatalf("expected two photos, got %+v", snap.Photos)
	}

	if !s.DeletePhoto(context.Background(), "a.jpg") {
		t.Fatalf("delete photo failed: %q", s.Snapshot().Error)
	}
	if diff := cmp.Diff(before, s.Snapshot().Photos); diff != "" {
		t.Fatalf("expected original photos (-want +got):\n%s", diff)
	}
}

func TestAddPhotoSameNameReplaces(t *testing.T) {
	s, _ := loadedStore(t)
	for i := 0; i < 3; i++ {
		if !s.AddPhoto(context.Background(), organization.PhotoUpload{Filename: "front.png"}) {
			t.Fatalf("add photo failed: %q", s.Snapshot().Error)
		}
	}
	photos := s.Snapshot().Photos
	if len(photos) != 1 || photos[0].Thumbpath != "thumb_front.png" {
		t.Fatalf("expected replaced photo, got %+v", photos)
	}
}

func TestPhotoFailureLeavesList(t *testing.T) {
	s, source := loadedStore(t)
	source.fail("UploadPhoto", errors.New("too large"))
	if s.AddPhoto(context.Background(), organization.PhotoUpload{Filename: "b.jpg"}) {
		t.Fatal("expected add failure")
	}
	snap := s.Snapshot()
	if len(snap.Photos) != 1 || snap.Error != "Failed to add photo: too large" {
		t.Fatalf("unexpected snapshot photos=%+v err=%q", snap.Photos, snap.Error)
	}

	source.fail("DeletePhoto", errors.New("gone"))
	if s.DeletePhoto(context.Background(), "front.png") {
		t.Fatal("expected delete failure")
	}
	snap = s.Snapshot()
	if len(snap.Photos) != 1 || snap.Error != "Failed to delete photo: gone" {
		t.Fatalf("unexpected snapshot photos=%+v err=%q", snap.Photos, snap.Error)
	}
}

func TestDeleteCompany(t *testing.T) {
	source := newFakeSource()
	s := New(source, WithCatalog("12", "13"))
	s.LoadCompanies(context.Background())
	s.LoadCompany(context.Background(), "12")

	source.fail("DeleteCompany", errors.New("locked"))
	if s.DeleteCompany(context.Background()) {
		t.Fatal("expected delete failure")
	}
	snap := s.Snapshot()
	if len(snap.Companies) != 2 || snap.Company == nil || snap.Error != "Failed to delete company: locked" {
		t.Fatalf("expected caches untouched, got companies=%d company=%v err=%q", len(snap.Companies), snap.Company, snap.Error)
	}

	if !s.DeleteCompany(context.Background()) {
		t.Fatalf("delete failed: %q", s.Snapshot().Error)
	}
	snap = s.Snapshot()
	if len(snap.Companies) != 1 || snap.Companies[0].ID != "13" {
		t.Fatalf("expected company removed from list, got %+v", snap.Companies)
	}
	if snap.Company != nil || snap.State != StateEmpty {
		t.Fatalf("expected cleared cache, got %+v state=%s", snap.Company, snap.State)
	}

	s.LoadCompanies(context.Background())
	if got := s.Snapshot().Companies; len(got) != 1 {
		t.Fatalf("expected deleted company to stay hidden, got %+v", got)
	}
}

func TestDeleteWithoutCompanyFails(t *testing.T) {
	s := New(newFakeSource())
	if s.DeleteCompany(context.Background()) {
		t.Fatal("expected failure")
	}
	if got := s.Snapshot().Error; got != "Failed to delete company: no company loaded" {
		t.Fatalf("unexpected error %q", got)
	}
}

func TestSubscribeReceivesEventsUntilUnsubscribed(t *testing.T) {
	s := New(newFakeSource())
	var kinds []EventKind
	unsubscribe := s.Subscribe(func(e Event) {
		kinds = append(kinds, e.Kind)
		_ = s.Snapshot()
	})

	s.LoadCompany(context.Background(), "12")
	if diff := cmp.Diff([]EventKind{EventStarted, EventCompanyLoaded}, kinds); diff != "" {
		t.Fatalf("unexpected events (-want +got):\n%s", diff)
	}

	unsubscribe()
	unsubscribe()
	s.Clear()
	if len(kinds) != 2 {
		t.Fatalf("expected no events after unsubscribe, got %v", kinds)
	}
}

func TestEventCarriesChangeSet(t *testing.T) {
	s, _ := loadedStore(t)
	var updated *Event
	s.Subscribe(func(e Event) {
		if e.Kind == EventCompanyUpdated {
			updated = &e
		}
	})
	edited := *s.Snapshot().Company
	edited.Status = "inactive"
	s.UpdateCompany(context.Background(), edited)

	if updated == nil {
		t.Fatal("expected update event")
	}
	if diff := cmp.Diff(changeset.ChangeSet{"status": "inactive"}, updated.ChangeSet); diff != "" {
		t.Fatalf("unexpected change-set (-want +got):\n%s", diff)
	}
	if updated.Snapshot.Company.Status != "inactive" || updated.EntityID != "12" {
		t.Fatalf("unexpected event snapshot %+v", updated.Snapshot.Company)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s, _ := loadedStore(t)
	snap := s.Snapshot()
	snap.Company.Name = "mutated"
	snap.Photos[0].Name = "mutated"
	snap.Company.Type[0] = "mutated"

	fresh := s.Snapshot()
	if fresh.Company.Name == "mutated" || fresh.Photos[0].Name == "mutated" || fresh.Company.Type[0] == "mutated" {
		t.Fatal("expected snapshot to be independent of store state")
	}
}

func TestUniquePhotosOnLoad(t *testing.T) {
	source := newFakeSource()
	company := source.companies["12"]
	company.Photos = append(company.Photos, company.Photos[0])
	source.companies["12"] = company

	s := New(source)
	s.LoadCompany(context.Background(), "12")
	if got := s.Snapshot().Photos; len(got) != 1 {
		t.Fatalf("expected duplicate names collapsed, got %+v", got)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	for i := 0; i < 2000; i++ {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached")
}
