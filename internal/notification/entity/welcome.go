package entity

type VolunteerWelcome struct {
	VolunteerID int64
	UserID      int64
	FirstName   string
	LastName    string
	Email       string
	NewAccount  bool
}

func (w VolunteerWelcome) FullName() string {
	if w.LastName == "" {
		return w.FirstName
	}
	return w.FirstName + " " + w.LastName
}
