package model

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// DefaultDisorders is the starter catalogue inserted by the seed command.
var DefaultDisorders = []Disorder{
	{
		DisorderName: "Epilepsy",
		Description:  "Chronic disorder characterised by recurrent, unprovoked seizures.",
		TreatmentPlans: []TreatmentPlan{
			{Name: "Anticonvulsant monotherapy", Medications: []string{"Levetiracetam", "Lamotrigine"}},
		},
	},
	{
		DisorderName: "Parkinson's Disease",
		Description:  "Progressive movement disorder caused by loss of dopaminergic neurons.",
		TreatmentPlans: []TreatmentPlan{
			{Name: "Dopamine replacement", Medications: []string{"Carbidopa-Levodopa"}},
			{Name: "Dopamine agonist", Medications: []string{"Pramipexole", "Ropinirole"}},
		},
	},
	{
		DisorderName: "Migraine",
		Description:  "Recurrent moderate to severe headaches, often with aura or nausea.",
		TreatmentPlans: []TreatmentPlan{
			{Name: "Acute relief", Medications: []string{"Sumatriptan", "Ibuprofen"}},
		},
	},
	{
		DisorderName: "Multiple Sclerosis",
		Description:  "Autoimmune demyelinating disease of the central nervous system.",
	},
}

// SeedDisorders inserts each default disorder unless one with the same name exists.
func SeedDisorders(db *gorm.DB) error {
	for _, disorder := range DefaultDisorders {
		var existing Disorder
		// Check if the disorder already exists.
		err := db.Where("disorder_name = ?", disorder.DisorderName).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		// Copy so the package-level slice keeps empty ids.
		record := disorder
		record.TreatmentPlans = append([]TreatmentPlan(nil), disorder.TreatmentPlans...)
		if err := db.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to seed disorder %s: %w", disorder.DisorderName, err)
		}
	}
	return nil
}
