package domain

type Role string

const (
	RoleDonor    Role = "donor"
	RoleHospital Role = "hospital"
)

func (r Role) Valid() bool {
	return r == RoleDonor || r == RoleHospital
}

type Profile struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	Name         string  `json:"name"`
	Role         Role    `json:"role"`
	Phone        *string `json:"phone,omitempty"`
	City         string  `json:"city"`
	HospitalName *string `json:"hospital_name,omitempty"`
	CreatedOn    string  `json:"created_on"`
	UpdatedOn    string  `json:"updated_on"`
}
