package domain

// DonationIntervalDays is the minimum gap between whole blood donations.
const DonationIntervalDays = 56

// Donor availability is not stored; it is derived from LastDonated and the
// donation interval (see fulfillment.Available).
type Donor struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Name          string     `json:"name"`
	BloodGroup    BloodGroup `json:"blood_group"`
	City          string     `json:"city"`
	Phone         string     `json:"phone"`
	Email         *string    `json:"email,omitempty"`
	LastDonated   *string    `json:"last_donated,omitempty"`
	DonationCount int32      `json:"donation_count"`
	CreatedOn     string     `json:"created_on"`
	UpdatedOn     string     `json:"updated_on"`
}
