package store

import (
	"context"
	"fmt"

	apperrors "github.com/chistayaaa/afs-dashboard/internal/platform/errors"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/changeset"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/organization"
)

type entityKind int

const (
	entityCompany entityKind = iota
	entityContact
)

type updateSpec struct {
	op     Operation
	prefix string
	done   EventKind
	none   error
}

var updateSpecs = map[entityKind]updateSpec{
	entityCompany: {
		op:     OpUpdateCompany,
		prefix: "Failed to update company details",
		done:   EventCompanyUpdated,
		none:   errNoCompany,
	},
	entityContact: {
		op:     OpUpdateContact,
		prefix: "Failed to update contact details",
		done:   EventContactUpdated,
		none:   apperrors.E(apperrors.KindValidation, "no contact loaded"),
	},
}

func (s *OrganizationStore) update(ctx context.Context, kind entityKind, edited any) UpdateOutcome {
	spec := updateSpecs[kind]

	s.mu.Lock()
	id, changes, err := s.diffLocked(kind, edited, spec)
	if err != nil {
		s.lastErr = fmt.Sprintf("%s: %v", spec.prefix, err)
		s.lastKind = apperrors.KindOf(err)
		event := s.eventLocked(EventOperationFailed, spec.op, id)
		s.mu.Unlock()
		s.publish(event)
		return UpdateFailed
	}
	if changes.Empty() {
		s.mu.Unlock()
		return UpdateUnchanged
	}
	s.lastErr, s.lastKind = "", ""
	s.inFlight[spec.op]++
	started := s.eventLocked(EventStarted, spec.op, id)
	started.ChangeSet = changes
	s.mu.Unlock()
	s.publish(started)

	var response organization.Record
	if kind == entityCompany {
		response, err = s.source.UpdateCompany(ctx, id, changes.Record())
	} else {
		response, err = s.source.UpdateContact(ctx, id, changes.Record())
	}

	s.mu.Lock()
	s.inFlight[spec.op]--
	if err == nil {
		// Echoed fields win over the sent change-set.
		err = s.mergeLocked(kind, id, organization.Merge(changes.Record(), response))
	}
	if err != nil {
		s.lastErr = fmt.Sprintf("%s: %v", spec.prefix, err)
		s.lastKind = apperrors.KindOf(err)
		event := s.eventLocked(EventOperationFailed, spec.op, id)
		s.mu.Unlock()
		s.publish(event)
		return UpdateFailed
	}
	event := s.eventLocked(spec.done, spec.op, id)
	event.ChangeSet = changes
	s.mu.Unlock()
	s.publish(event)
	return UpdateApplied
}

func (s *OrganizationStore) diffLocked(kind entityKind, edited any, spec updateSpec) (string, changeset.ChangeSet, error) {
	var cached any
	var id string
	switch {
	case kind == entityCompany && s.company != nil:
		cached, id = s.company, s.company.ID
	case kind == entityContact && s.contact != nil:
		cached, id = s.contact, s.contact.ID
	default:
		return "", nil, spec.none
	}

	original, err := organization.ToRecord(cached)
	if err != nil {
		return id, nil, err
	}
	next, err := organization.ToRecord(edited)
	if err != nil {
		return id, nil, err
	}
	if editedID, _ := next["id"].(string); editedID != "" && editedID != id {
		return id, nil, apperrors.E(apperrors.KindValidation, fmt.Sprintf("%s is not the loaded entity", editedID))
	}
	// Identity is never patched.
	delete(next, "id")
	return id, changeset.ComputeWith(next, original, s.groups), nil
}

// mergeLocked applies patch to the cached entity with the given id. When the
// cache moved on to another entity only the summary list is refreshed.
func (s *OrganizationStore) mergeLocked(kind entityKind, id string, patch organization.Record) error {
	if kind == entityContact {
		if s.contact == nil || s.contact.ID != id {
			return nil
		}
		next := s.contact.Clone()
		if err := organization.ApplyRecord(next, patch); err != nil {
			return err
		}
		s.contact = next
		return nil
	}

	if s.company != nil && s.company.ID == id {
		next := s.company.Clone()
		if err := organization.ApplyRecord(next, patch); err != nil {
			return err
		}
		s.company = next
		s.photos = uniquePhotos(next.Photos)
		s.syncPhotosLocked()
		return nil
	}
	for i := range s.companies {
		if s.companies[i].ID != id {
			continue
		}
		next := s.companies[i].Clone()
		if err := organization.ApplyRecord(next, patch); err != nil {
			return err
		}
		s.companies[i] = *next
	}
	return nil
}
