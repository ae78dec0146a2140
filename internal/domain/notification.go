package domain

type Notification struct {
	ID        int32  `json:"id"`
	ProfileID string `json:"profile_id"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedOn string `json:"created_on"`
}
