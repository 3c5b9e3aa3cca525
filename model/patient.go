package model

import "gorm.io/datatypes"

// Patient genders.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Patient statuses. Any status may be set at any time.
const (
	StatusActive       = "active"
	StatusCompleted    = "completed"
	StatusDiscontinued = "discontinued"
)

var (
	Genders  = []string{GenderMale, GenderFemale, GenderOther}
	Statuses = []string{StatusActive, StatusCompleted, StatusDiscontinued}
)

// Patient is the dependent record: it references one doctor and one or more
// disorders by id. References are resolved on read and never enforced on write.
// @Description Patient information
type Patient struct {
	Base
	FirstName        string                      `json:"first_name" gorm:"column:first_name;not null" example:"Liam"`
	LastName         string                      `json:"last_name" gorm:"column:last_name;not null" example:"Martin"`
	DateOfBirth      string                      `json:"dob" gorm:"column:dob;size:10;not null" example:"1987-03-21"`
	Gender           string                      `json:"gender" gorm:"column:gender;size:16;default:male" example:"male"`
	Email            string                      `json:"email" gorm:"column:email;uniqueIndex;size:191;not null" example:"liam.martin@example.com"`
	Contact          string                      `json:"contact" gorm:"column:contact;not null" example:"416-555-0134"`
	EmergencyContact string                      `json:"emergency_contact" gorm:"column:emergency_contact;not null" example:"647-555-0199"`
	Address          string                      `json:"address" gorm:"column:address" example:"12 King St W, Toronto"`
	Status           string                      `json:"status" gorm:"column:status;size:16;not null" example:"active"`
	DoctorID         string                      `json:"doctor_id" gorm:"column:doctor_id;type:varchar(36);index;not null"`
	DisorderIDs      datatypes.JSONSlice[string] `json:"disorder_id" gorm:"column:disorder_ids"`

	Doctor    *Doctor    `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	Disorders []Disorder `json:"disorders,omitempty" gorm:"-"`
}
