package entity

import "slices"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

type MaritalStatus string

const (
	MaritalStatusSingle  MaritalStatus = "single"
	MaritalStatusMarried MaritalStatus = "married"
)

func (m MaritalStatus) Valid() bool {
	return m == MaritalStatusSingle || m == MaritalStatusMarried
}

type Education string

const (
	EducationUnderDiploma Education = "under_diploma"
	EducationDiploma      Education = "diploma"
	EducationAssociate    Education = "associate"
	EducationBachelor     Education = "bachelor"
	EducationMaster       Education = "master"
	EducationDoctorate    Education = "doctorate"
)

var educations = []Education{
	EducationUnderDiploma,
	EducationDiploma,
	EducationAssociate,
	EducationBachelor,
	EducationMaster,
	EducationDoctorate,
}

func (e Education) Valid() bool {
	return slices.Contains(educations, e)
}

// Ability is a field a volunteer can help in.
type Ability string

const (
	AbilityMedical      Ability = "medical"
	AbilityNursing      Ability = "nursing"
	AbilityPsychology   Ability = "psychology"
	AbilityTeaching     Ability = "teaching"
	AbilityLogistics    Ability = "logistics"
	AbilityDriving      Ability = "driving"
	AbilityCooking      Ability = "cooking"
	AbilityConstruction Ability = "construction"
	AbilityIT           Ability = "it"
	AbilityFundraising  Ability = "fundraising"
)

var abilities = []Ability{
	AbilityMedical,
	AbilityNursing,
	AbilityPsychology,
	AbilityTeaching,
	AbilityLogistics,
	AbilityDriving,
	AbilityCooking,
	AbilityConstruction,
	AbilityIT,
	AbilityFundraising,
}

func (a Ability) Valid() bool {
	return slices.Contains(abilities, a)
}

// OTPChannel is the medium an OTP is delivered through.
type OTPChannel string

const (
	OTPChannelSMS   OTPChannel = "sms"
	OTPChannelEmail OTPChannel = "email"
)

func (c OTPChannel) String() string { return string(c) }

func (c OTPChannel) Valid() bool {
	return c == OTPChannelSMS || c == OTPChannelEmail
}

// OTPRequest selects what a submitted OTP is verified for.
type OTPRequest string

const (
	OTPRequestLogin  OTPRequest = "login"
	OTPRequestVerify OTPRequest = "verify_otp"
)

func (r OTPRequest) Valid() bool {
	return r == OTPRequestLogin || r == OTPRequestVerify
}
