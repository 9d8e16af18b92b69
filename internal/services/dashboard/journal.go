package dashboard

import (
	"context"
	"encoding/json"
	"log"
	"slices"

	"github.com/chistayaaa/afs-dashboard/internal/platform/timeouts"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/storage"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/store"
)

// Journal entity kinds.
const (
	journalCompany = "company"
	journalContact = "contact"
	journalPhoto   = "photo"
)

const activityLimit = 50

// recordChanges returns a store subscriber that appends every applied
// mutation to journal. Failures are logged and never reach the store.
func recordChanges(journal storage.JournalStore) func(store.Event) {
	return func(event store.Event) {
		entry, ok := journalEntryFor(event)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.JournalWrite)
		defer cancel()
		if err := journal.AppendChange(ctx, entry); err != nil {
			log.Printf("journal append failed entity=%s id=%s operation=%s err=%v", entry.EntityKind, entry.EntityID, entry.Operation, err)
		}
	}
}

func journalEntryFor(event store.Event) (storage.ChangeEntry, bool) {
	entry := storage.ChangeEntry{
		EntityID:  event.EntityID,
		Operation: string(event.Operation),
	}
	switch event.Kind {
	case store.EventCompanyUpdated, store.EventContactUpdated:
		entry.EntityKind = journalCompany
		if event.Kind == store.EventContactUpdated {
			entry.EntityKind = journalContact
		}
		payload, err := json.Marshal(event.ChangeSet)
		if err != nil {
			log.Printf("journal encode failed entity=%s id=%s err=%v", entry.EntityKind, entry.EntityID, err)
			return storage.ChangeEntry{}, false
		}
		entry.Payload = payload
	case store.EventPhotoAdded, store.EventPhotoDeleted:
		entry.EntityKind = journalPhoto
		payload, err := json.Marshal(map[string]string{"name": event.PhotoName})
		if err != nil {
			return storage.ChangeEntry{}, false
		}
		entry.Payload = payload
	case store.EventCompanyDeleted:
		entry.EntityKind = journalCompany
	default:
		return storage.ChangeEntry{}, false
	}
	if entry.EntityID == "" {
		return storage.ChangeEntry{}, false
	}
	return entry, true
}

// listActivity returns the newest journal entries for a company and, when
// known, its contact.
func listActivity(ctx context.Context, journal storage.JournalStore, companyID, contactID string) ([]storage.ChangeEntry, error) {
	entries, err := journal.ListChanges(ctx, companyID, activityLimit)
	if err != nil {
		return nil, err
	}
	if contactID == "" || contactID == companyID {
		return entries, nil
	}
	contactEntries, err := journal.ListChanges(ctx, contactID, activityLimit)
	if err != nil {
		return nil, err
	}
	entries = append(entries, contactEntries...)
	slices.SortStableFunc(entries, func(a, b storage.ChangeEntry) int {
		return b.RecordedAt.Compare(a.RecordedAt)
	})
	if len(entries) > activityLimit {
		entries = entries[:activityLimit]
	}
	return entries, nil
}
