package endpoint

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ariebrainware/neuro-clinic/config"
	"github.com/ariebrainware/neuro-clinic/middleware"
	"github.com/ariebrainware/neuro-clinic/model"
	"github.com/ariebrainware/neuro-clinic/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	validPhone     = "416-555-0134"
	validPhoneAlt  = "(647) 555-0199"
	missingID      = "9b2f7c1e-4d3a-4f6b-8c2d-1a2b3c4d5e6f"
	testPassword   = "s3cret-pass"
	testDoctorMail = "amelia.chen@example.com"
)

// setupEndpointTestDB initializes a test database with all application tables migrated.
// It sets APPENV to "test", initializes the JWT secret, disables Redis and clears
// the disorder brief cache. Cleanup is registered via t.Cleanup().
func setupEndpointTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	t.Setenv("APPENV", "test")
	t.Setenv("JWTSECRET", "test-secret-123")
	util.SetJWTSecret("test-secret-123")
	config.SetRedisClientForTest(nil)
	util.InvalidateDisorderBriefCache()

	db, err := config.ConnectMySQL()
	if err != nil {
		t.Fatalf("failed to connect test DB: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	t.Cleanup(func() {
		util.InvalidateDisorderBriefCache()
		_ = db.Migrator().DropTable(model.Models...)
	})

	return db
}

// setupEndpointTest returns a Gin engine and database connection configured for endpoint tests.
func setupEndpointTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupEndpointTestDB(t)
	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))
	return r, db
}

// newTestRouter returns a new Gin engine configured for tests.
// Use this for tests that don't need a DB injected.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// assertStatus asserts that the response HTTP status code matches the expected value
func assertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, w.Code)
}

// assertSuccessResponse asserts that the response indicates success with HTTP 200
func assertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, response map[string]interface{}) {
	t.Helper()
	assert.Equal(t, http.StatusOK, w.Code)
	if response == nil {
		return
	}
	if success, ok := response["success"].(bool); ok {
		assert.True(t, success)
	}
}

func dataMap(t *testing.T, response map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected object data, got %T", response["data"])
	}
	return data
}

func dataList(t *testing.T, response map[string]interface{}) []interface{} {
	t.Helper()
	data, ok := response["data"].([]interface{})
	if !ok {
		t.Fatalf("expected list data, got %T", response["data"])
	}
	return data
}

func createTestDoctor(t *testing.T, db *gorm.DB, email string) model.Doctor {
	t.Helper()
	hashed, err := util.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	doctor := model.Doctor{
		FirstName:      "Amelia",
		LastName:       "Chen",
		Email:          email,
		Password:       hashed,
		Contact:        validPhone,
		Specialization: "Neurology",
	}
	if err := db.Create(&doctor).Error; err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	return doctor
}

func createTestDisorder(t *testing.T, db *gorm.DB, name string) model.Disorder {
	t.Helper()
	disorder := model.Disorder{
		DisorderName: name,
		Description:  name + " description",
		TreatmentPlans: []model.TreatmentPlan{
			{Name: "Standard", Medications: datatypes.JSONSlice[string]{"Medication A"}},
		},
	}
	if err := db.Create(&disorder).Error; err != nil {
		t.Fatalf("create disorder: %v", err)
	}
	return disorder
}

func createTestPatient(t *testing.T, db *gorm.DB, email, doctorID string, disorderIDs ...string) model.Patient {
	t.Helper()
	patient := model.Patient{
		FirstName:        "Liam",
		LastName:         "Martin",
		DateOfBirth:      "1987-03-21",
		Gender:           model.GenderMale,
		Email:            email,
		Contact:          validPhone,
		EmergencyContact: validPhoneAlt,
		Status:           model.StatusActive,
		DoctorID:         doctorID,
		DisorderIDs:      datatypes.JSONSlice[string](disorderIDs),
	}
	if err := db.Create(&patient).Error; err != nil {
		t.Fatalf("create patient: %v", err)
	}
	return patient
}
