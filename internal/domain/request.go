package domain

type BloodGroup string

const (
	BloodGroupAPos  BloodGroup = "A+"
	BloodGroupANeg  BloodGroup = "A-"
	BloodGroupBPos  BloodGroup = "B+"
	BloodGroupBNeg  BloodGroup = "B-"
	BloodGroupABPos BloodGroup = "AB+"
	BloodGroupABNeg BloodGroup = "AB-"
	BloodGroupOPos  BloodGroup = "O+"
	BloodGroupONeg  BloodGroup = "O-"
)

// BloodGroups lists every valid ABO/Rh combination in display order.
var BloodGroups = []BloodGroup{
	BloodGroupAPos, BloodGroupANeg,
	BloodGroupBPos, BloodGroupBNeg,
	BloodGroupABPos, BloodGroupABNeg,
	BloodGroupOPos, BloodGroupONeg,
}

func (g BloodGroup) Valid() bool {
	for _, bg := range BloodGroups {
		if g == bg {
			return true
		}
	}
	return false
}

type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

type RequestStatus string

const (
	RequestStatusOpen      RequestStatus = "open"
	RequestStatusFulfilled RequestStatus = "fulfilled"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// BloodRequest is a hospital's ask for blood units. Status is never stored:
// it is derived from CancelledAt and the pledge aggregate, and UnitsFulfilled
// is populated by the repository as the sum of non-cancelled pledge units.
type BloodRequest struct {
	ID             string     `json:"id"`
	HospitalID     string     `json:"hospital_id"`
	HospitalName   string     `json:"hospital_name"`
	BloodGroup     BloodGroup `json:"blood_group"`
	City           string     `json:"city"`
	UnitsRequired  int32      `json:"units_required"`
	UnitsFulfilled int32      `json:"units_fulfilled"`
	Urgency        Urgency    `json:"urgency"`
	Description    *string    `json:"description,omitempty"`
	CancelledAt    *string    `json:"cancelled_at,omitempty"`
	CreatedOn      string     `json:"created_on"`
	UpdatedOn      string     `json:"updated_on"`
}

// HospitalSummary is a directory row: one hospital and its open demand.
type HospitalSummary struct {
	HospitalID   string `json:"hospital_id"`
	HospitalName string `json:"hospital_name"`
	City         string `json:"city"`
	OpenRequests int32  `json:"open_requests"`
	UnitsNeeded  int32  `json:"units_needed"`
}

// DashboardStats is the hospital dashboard stat block.
type DashboardStats struct {
	TotalRequests     int32 `json:"total_requests"`
	OpenRequests      int32 `json:"open_requests"`
	FulfilledRequests int32 `json:"fulfilled_requests"`
	CancelledRequests int32 `json:"cancelled_requests"`
	TotalUnitsNeeded  int32 `json:"total_units_needed"`
	UnitsPledged      int32 `json:"units_pledged"`
}
