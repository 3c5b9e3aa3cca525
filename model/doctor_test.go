package model

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newTestDoctor(email string) Doctor {
	return Doctor{
		FirstName: "Amelia",
		LastName:  "Chen",
		Email:     email,
		Password:  "hashed",
		Contact:   "416-555-0134",
	}
}

func TestDoctorModel_CreateAssignsUUID(t *testing.T) {
	db := setupTestDB(t, "doctor", &Doctor{})

	doctor := newTestDoctor("amelia@example.com")
	assert.NoError(t, db.Create(&doctor).Error)

	_, err := uuid.Parse(doctor.ID)
	assert.NoError(t, err)
	assert.False(t, doctor.CreatedAt.IsZero())
	assert.False(t, doctor.Subscription)
}

func TestDoctorModel_KeepsExplicitID(t *testing.T) {
	db := setupTestDB(t, "doctor_id", &Doctor{})

	id := uuid.NewString()
	doctor := newTestDoctor("fixed@example.com")
	doctor.ID = id
	assert.NoError(t, db.Create(&doctor).Error)
	assert.Equal(t, id, doctor.ID)
}

func TestDoctorModel_EmailUnique(t *testing.T) {
	db := setupTestDB(t, "doctor_unique", &Doctor{})

	first := newTestDoctor("dup@example.com")
	assert.NoError(t, db.Create(&first).Error)

	second := newTestDoctor("dup@example.com")
	err := db.Create(&second).Error
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "expected duplicate key error, got %v", err)

	var count int64
	db.Model(&Doctor{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDoctorModel_DeleteIsPermanent(t *testing.T) {
	db := setupTestDB(t, "doctor_delete", &Doctor{})

	doctor := newTestDoctor("gone@example.com")
	assert.NoError(t, db.Create(&doctor).Error)
	assert.NoError(t, db.Delete(&doctor).Error)

	var count int64
	db.Unscoped().Model(&Doctor{}).Count(&count)
	assert.Equal(t, int64(0), count)

	// the email is free again once the row is gone
	again := newTestDoctor("gone@example.com")
	assert.NoError(t, db.Create(&again).Error)
}
