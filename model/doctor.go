package model

// Doctor represents a practitioner account. Doctors sign up through the API and
// are referenced by patients; they own nothing.
// @Description Doctor information
type Doctor struct {
	Base
	FirstName      string `json:"first_name" gorm:"column:first_name;not null" example:"Amelia"`
	LastName       string `json:"last_name" gorm:"column:last_name;not null" example:"Chen"`
	Email          string `json:"email" gorm:"column:email;uniqueIndex;size:191;not null" example:"amelia.chen@example.com"`
	Password       string `json:"-" gorm:"column:password;not null"`
	Contact        string `json:"contact" gorm:"column:contact;not null" example:"416-555-0134"`
	Specialization string `json:"specialization" gorm:"column:specialization" example:"Neurology"`
	Subscription   bool   `json:"subscription" gorm:"column:subscription;default:false" example:"false"`
}
