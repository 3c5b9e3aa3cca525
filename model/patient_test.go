package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPatientModel_DisorderIDsRoundTrip(t *testing.T) {
	db := setupTestDB(t, "patient", &Patient{})

	ids := []string{uuid.NewString(), uuid.NewString()}
	patient := Patient{
		FirstName:        "Liam",
		LastName:         "Martin",
		DateOfBirth:      "1987-03-21",
		Email:            "liam@example.com",
		Contact:          "416-555-0134",
		EmergencyContact: "647-555-0199",
		Status:           StatusActive,
		DoctorID:         uuid.NewString(),
		DisorderIDs:      ids,
	}
	assert.NoError(t, db.Create(&patient).Error)

	var found Patient
	assert.NoError(t, db.First(&found, "id = ?", patient.ID).Error)
	assert.Equal(t, ids, []string(found.DisorderIDs))
	assert.Equal(t, "1987-03-21", found.DateOfBirth)
	assert.Equal(t, GenderMale, found.Gender)
}

func TestPatientModel_PreloadDanglingDoctor(t *testing.T) {
	db := setupTestDB(t, "patient_doctor", &Doctor{}, &Patient{})

	doctor := newTestDoctor("doc@example.com")
	assert.NoError(t, db.Create(&doctor).Error)

	patient := Patient{
		FirstName:        "Nora",
		LastName:         "Singh",
		DateOfBirth:      "1990-01-01",
		Email:            "nora@example.com",
		Contact:          "416-555-0134",
		EmergencyContact: "416-555-0135",
		Status:           StatusActive,
		DoctorID:         doctor.ID,
		DisorderIDs:      []string{uuid.NewString()},
	}
	assert.NoError(t, db.Create(&patient).Error)

	var withDoctor Patient
	assert.NoError(t, db.Preload("Doctor").First(&withDoctor, "id = ?", patient.ID).Error)
	if assert.NotNil(t, withDoctor.Doctor) {
		assert.Equal(t, "doc@example.com", withDoctor.Doctor.Email)
	}

	// no foreign key: deleting the doctor succeeds and leaves the reference dangling
	assert.NoError(t, db.Delete(&doctor).Error)

	var dangling Patient
	assert.NoError(t, db.Preload("Doctor").First(&dangling, "id = ?", patient.ID).Error)
	assert.Nil(t, dangling.Doctor)
	assert.Equal(t, doctor.ID, dangling.DoctorID)
}
