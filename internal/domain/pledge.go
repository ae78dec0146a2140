package domain

type PledgeStatus string

const (
	PledgeStatusPledged   PledgeStatus = "pledged"
	PledgeStatusConfirmed PledgeStatus = "confirmed"
	PledgeStatusCompleted PledgeStatus = "completed"
	PledgeStatusCancelled PledgeStatus = "cancelled"
)

func (s PledgeStatus) Valid() bool {
	switch s {
	case PledgeStatusPledged, PledgeStatusConfirmed, PledgeStatusCompleted, PledgeStatusCancelled:
		return true
	}
	return false
}

// Pledge is a donor's committed quantity of units toward one request.
// DonorID is nil for walk-in pledges captured with inline name and phone.
type Pledge struct {
	ID           string       `json:"id"`
	RequestID    string       `json:"request_id"`
	DonorID      *string      `json:"donor_id,omitempty"`
	DonorName    string       `json:"donor_name"`
	DonorPhone   string       `json:"donor_phone"`
	UnitsPledged int32        `json:"units_pledged"`
	Status       PledgeStatus `json:"status"`
	Notes        *string      `json:"notes,omitempty"`
	CreatedOn    string       `json:"created_on"`
	UpdatedOn    string       `json:"updated_on"`
}

// PledgeWithRequest is a pledge joined with its request's display fields,
// matching what the pledge directory renders.
type PledgeWithRequest struct {
	Pledge
	RequestBloodGroup   BloodGroup `json:"request_blood_group"`
	RequestHospitalName string     `json:"request_hospital_name"`
	RequestCity         string     `json:"request_city"`
}
