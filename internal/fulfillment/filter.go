package fulfillment

import (
	"strings"

	"bloodlink-backend/internal/domain"
)

// FilterAll disables a constraint in a filter field.
const FilterAll = "all"

// DonorFilter holds the active donor directory constraints. Empty Search and
// "all" selectors match everything.
type DonorFilter struct {
	BloodGroup string
	City       string
	Search     string
}

// Matches reports whether a donor satisfies every active constraint. The
// search term matches case-insensitively against name and city.
func (f DonorFilter) Matches(d domain.Donor) bool {
	if f.BloodGroup != "" && f.BloodGroup != FilterAll && string(d.BloodGroup) != f.BloodGroup {
		return false
	}
	if f.City != "" && f.City != FilterAll && d.City != f.City {
		return false
	}
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(d.Name), term) ||
		strings.Contains(strings.ToLower(d.City), term)
}

// FilterDonors keeps the donors matching the filter, preserving input order.
func FilterDonors(donors []domain.Donor, f DonorFilter) []domain.Donor {
	var out []domain.Donor
	for _, d := range donors {
		if f.Matches(d) {
			out = append(out, d)
		}
	}
	return out
}

// PledgeFilter holds the pledge directory constraints.
type PledgeFilter struct {
	Status string
	Search string
}

// Matches reports whether a pledge row satisfies the filter. The search term
// matches donor name, hospital name and blood group.
func (f PledgeFilter) Matches(p domain.PledgeWithRequest) bool {
	if f.Status != "" && f.Status != FilterAll && string(p.Status) != f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(p.DonorName), term) ||
		strings.Contains(strings.ToLower(p.RequestHospitalName), term) ||
		strings.Contains(strings.ToLower(string(p.RequestBloodGroup)), term)
}

// FilterPledges keeps the pledge rows matching the filter, preserving input order.
func FilterPledges(pledges []domain.PledgeWithRequest, f PledgeFilter) []domain.PledgeWithRequest {
	var out []domain.PledgeWithRequest
	for _, p := range pledges {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}
