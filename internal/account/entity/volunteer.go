package entity

import "time"

type Volunteer struct {
	ID             int64
	UserID         int64
	FirstName      string
	LastName       string
	Gender         Gender
	Birth          time.Time
	Email          string
	Phone          string
	City           string
	Education      Education
	Major          string
	MaritalStatus  MaritalStatus
	ExperienceInfo string
	SpecialistInfo string
	Abilities      []Ability
	NC             []byte // sealed national code
	ProfilePic     string // object key
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
