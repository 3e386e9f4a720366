package event

const VolunteerRegistrationDestination string = "volunteer.registration"
const VolunteerRegistrationConsumerNotification string = "volunteer_registration_notification"

// CorrelationIDHeader carries the request correlation id across the broker.
const CorrelationIDHeader string = "cID"

type VolunteerRegistrationMessage struct {
	VolunteerID int64  `json:"volunteer_id"`
	UserID      int64  `json:"user_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	NewAccount  bool   `json:"new_account"`
}
