package search

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/organization"
)

func companies() []organization.Company {
	return []organization.Company{
		{
			ID:             "12",
			Name:           "Eternal Rest Funeral Home LLC",
			ShortName:      "Eternal Rest",
			Status:         "active",
			BusinessEntity: "Partnership",
			Contract:       organization.Contract{No: "12345/20"},
			Type:           []string{organization.TypeFuneralHome, organization.TypeLogisticsServices},
		},
		{
			ID:             "13",
			Name:           "Green Fields Burial Care",
			ShortName:      "Green Fields",
			Status:         "inactive",
			BusinessEntity: "Sole Proprietorship",
			Contract:       organization.Contract{No: "7/1"},
			Type:           []string{organization.TypeBurialCareContractor},
		},
	}
}

func matchIDs(t *testing.T, filter string) []string {
	t.Helper()
	predicate, err := Compile(filter)
	if err != nil {
		t.Fatalf("compile %q: %v", filter, err)
	}
	var ids []string
	for _, company := range Filter(companies(), predicate) {
		ids = append(ids, company.ID)
	}
	return ids
}

func TestCompileFilters(t *testing.T) {
	tests := []struct {
		filter string
		want   []string
	}{
		{``, []string{"12", "13"}},
		{`   `, []string{"12", "13"}},
		{`id = "12"`, []string{"12"}},
		{`status != "active"`, []string{"13"}},
		{`name:"rest"`, []string{"12"}},
		{`short_name:"FIELDS"`, []string{"13"}},
		{`type:"burial_care_contractor"`, []string{"13"}},
		{`type:"funeral_home" AND status = "active"`, []string{"12"}},
		{`contract_no = "7/1" OR business_entity = "Partnership"`, []string{"12", "13"}},
		{`NOT status = "active"`, []string{"13"}},
		{`-type:"funeral_home"`, []string{"13"}},
		{`name:"nowhere"`, nil},
	}
	for _, tc := range tests {
		if diff := cmp.Diff(tc.want, matchIDs(t, tc.filter)); diff != "" {
			t.Fatalf("filter %q (-want +got):\n%s", tc.filter, diff)
		}
	}
}

func TestCompileRejectsInvalidFilters(t *testing.T) {
	for _, filter := range []string{
		`unknown = "x"`,
		`name = `,
		`type = "funeral_home"`,
		`id = 12`,
		`name < "b"`,
	} {
		if _, err := Compile(filter); err == nil {
			t.Fatalf("expected error for %q", filter)
		}
	}
}

func TestFilterNilPredicateKeepsAll(t *testing.T) {
	if got := Filter(companies(), nil); len(got) != 2 {
		t.Fatalf("expected all companies, got %d", len(got))
	}
}
