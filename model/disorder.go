package model

import "gorm.io/datatypes"

// Disorder represents a neurological disorder and the treatment plans it owns.
// @Description Disorder information
type Disorder struct {
	Base
	DisorderName   string          `json:"disorder_name" gorm:"column:disorder_name;uniqueIndex;size:191;not null" example:"Epilepsy"`
	Description    string          `json:"description" gorm:"column:description;type:text;not null" example:"Recurrent unprovoked seizures"`
	TreatmentPlans []TreatmentPlan `json:"treatment_plans" gorm:"foreignKey:DisorderID"`
}

// TreatmentPlan is owned by exactly one disorder and removed with it.
// @Description Treatment plan information
type TreatmentPlan struct {
	Base
	DisorderID  string                      `json:"-" gorm:"column:disorder_id;type:varchar(36);index;not null"`
	Name        string                      `json:"name" gorm:"column:name;not null" example:"First-line anticonvulsant"`
	Medications datatypes.JSONSlice[string] `json:"medications" gorm:"column:medications" example:"Levetiracetam,Lamotrigine"`
}

// DisorderBrief is the projection used to populate selection controls.
type DisorderBrief struct {
	ID           string `json:"id"`
	DisorderName string `json:"disorder_name"`
}
