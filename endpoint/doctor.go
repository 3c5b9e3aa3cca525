package endpoint

import (
	"context"
	"fmt"
	"strings"

	"github.com/ariebrainware/neuro-clinic/model"
	"github.com/ariebrainware/neuro-clinic/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errDuplicateDoctorEmail = fmt.Errorf("duplicate email: a doctor with this email already exists")

type createDoctorRequest struct {
	FirstName      string `json:"first_name" example:"Amelia"`
	LastName       string `json:"last_name" example:"Chen"`
	Email          string `json:"email" example:"amelia.chen@example.com"`
	Password       string `json:"password" example:"s3cret-pass"`
	Contact        string `json:"contact" example:"416-555-0134"`
	Specialization string `json:"specialization" example:"Neurology"`
	Subscription   bool   `json:"subscription" example:"false"`
}

func (r *createDoctorRequest) validate() error {
	r.FirstName = util.NormalizeName(r.FirstName)
	r.LastName = util.NormalizeName(r.LastName)
	r.Email = util.NormalizeEmail(r.Email)
	r.Contact = strings.TrimSpace(r.Contact)

	missing := missingFields(map[string]string{
		"first_name": r.FirstName,
		"last_name":  r.LastName,
		"email":      r.Email,
		"password":   r.Password,
		"contact":    r.Contact,
	}, []string{"first_name", "last_name", "email", "password", "contact"})
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	if !util.IsValidEmail(r.Email) {
		return fmt.Errorf("invalid email format")
	}
	if !util.IsValidPhone(r.Contact) {
		return fmt.Errorf("invalid contact number format")
	}
	return nil
}

// updateDoctorRequest carries a partial update; nil fields are left untouched.
type updateDoctorRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Email          *string `json:"email"`
	Password       *string `json:"password"`
	Contact        *string `json:"contact"`
	Specialization *string `json:"specialization"`
	Subscription   *bool   `json:"subscription"`
}

func (r updateDoctorRequest) toUpdates() (map[string]interface{}, error) {
	updates := map[string]interface{}{}
	if r.FirstName != nil {
		updates["first_name"] = *r.FirstName
	}
	if r.LastName != nil {
		updates["last_name"] = *r.LastName
	}
	if r.Email != nil {
		updates["email"] = util.NormalizeEmail(*r.Email)
	}
	if r.Contact != nil {
		updates["contact"] = *r.Contact
	}
	if r.Specialization != nil {
		updates["specialization"] = *r.Specialization
	}
	if r.Subscription != nil {
		updates["subscription"] = *r.Subscription
	}
	if r.Password != nil {
		if *r.Password == "" {
			return nil, fmt.Errorf("password cannot be empty")
		}
		hashed, err := util.HashPassword(*r.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hashed
	}
	return updates, nil
}

// CreateDoctor godoc
// @Summary      Register a doctor
// @Description  Create a doctor account. Email must be unique.
// @Tags         Doctor
// @Accept       json
// @Produce      json
// @Param        request body createDoctorRequest true "Doctor details"
// @Success      201 {object} util.APIResponse{data=model.Doctor} "Doctor created"
// @Failure      400 {object} util.APIResponse "Invalid request or duplicate email"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/doctors [post]
func CreateDoctor(c *gin.Context) {
	var req createDoctorRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}
	if err := req.validate(); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid doctor details", Err: err})
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	hashed, err := util.HashPassword(req.Password)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create doctor", Err: err})
		return
	}

	doctor := model.Doctor{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Password:       hashed,
		Contact:        req.Contact,
		Specialization: strings.TrimSpace(req.Specialization),
		Subscription:   req.Subscription,
	}
	if err := db.Create(&doctor).Error; err != nil {
		if isDuplicateKeyError(err) {
			util.CallUserError(c, util.APIErrorParams{Msg: "A doctor with this email already exists.", Err: errDuplicateDoctorEmail})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create doctor", Err: err})
		return
	}

	util.LogRecordChange(util.EventRecordCreated, "doctor", doctor.ID, c.ClientIP())
	util.CallCreated(c, util.APISuccessParams{Msg: "Doctor created successfully", Data: doctor})
}

// ListDoctors godoc
// @Summary      List doctors
// @Tags         Doctor
// @Produce      json
// @Success      200 {object} util.APIResponse{data=[]model.Doctor} "Doctors retrieved"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/doctors [get]
func ListDoctors(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var doctors []model.Doctor
	if err := db.Order("created_at ASC").Find(&doctors).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch doctors", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Doctors retrieved", Data: doctors})
}

// GetDoctor godoc
// @Summary      Get a doctor
// @Tags         Doctor
// @Produce      json
// @Param        id path string true "Doctor ID"
// @Success      200 {object} util.APIResponse{data=model.Doctor} "Doctor retrieved"
// @Failure      400 {object} util.APIResponse "Invalid doctor ID"
// @Failure      404 {object} util.APIResponse "Doctor not found"
// @Router       /api/doctors/{id} [get]
func GetDoctor(c *gin.Context) {
	id, ok := parseIDParam(c, "doctor")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var doctor model.Doctor
	if err := db.First(&doctor, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "doctor")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Doctor retrieved", Data: doctor})
}

// UpdateDoctor godoc
// @Summary      Update a doctor
// @Description  Overwrite any provided field. Formats are not re-validated; a new password is re-hashed.
// @Tags         Doctor
// @Accept       json
// @Produce      json
// @Param        id path string true "Doctor ID"
// @Param        request body updateDoctorRequest true "Fields to update"
// @Success      200 {object} util.APIResponse{data=model.Doctor} "Doctor updated"
// @Failure      400 {object} util.APIResponse "Invalid doctor ID or duplicate email"
// @Failure      404 {object} util.APIResponse "Doctor not found"
// @Router       /api/doctors/{id} [put]
func UpdateDoctor(c *gin.Context) {
	id, ok := parseIDParam(c, "doctor")
	if !ok {
		return
	}
	var req updateDoctorRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var doctor model.Doctor
	if err := db.First(&doctor, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "doctor")
		return
	}

	updates, err := req.toUpdates()
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid doctor details", Err: err})
		return
	}
	if len(updates) > 0 {
		if err := db.Model(&doctor).Omit(clause.Associations).Updates(updates).Error; err != nil {
			if isDuplicateKeyError(err) {
				util.CallUserError(c, util.APIErrorParams{Msg: "A doctor with this email already exists.", Err: errDuplicateDoctorEmail})
				return
			}
			util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update doctor", Err: err})
			return
		}
	}

	if err := db.First(&doctor, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "doctor")
		return
	}

	util.LogRecordChange(util.EventRecordUpdated, "doctor", doctor.ID, c.ClientIP())
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Doctor updated successfully", Data: doctor})
}

// DeleteDoctor godoc
// @Summary      Delete a doctor
// @Description  Hard delete. Patients referencing the doctor are left untouched.
// @Tags         Doctor
// @Produce      json
// @Param        id path string true "Doctor ID"
// @Success      200 {object} util.APIResponse{data=model.Doctor} "Doctor deleted"
// @Failure      400 {object} util.APIResponse "Invalid doctor ID"
// @Failure      404 {object} util.APIResponse "Doctor not found"
// @Router       /api/doctors/{id} [delete]
func DeleteDoctor(c *gin.Context) {
	id, ok := parseIDParam(c, "doctor")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var doctor model.Doctor
	if err := db.First(&doctor, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "doctor")
		return
	}
	if err := db.Delete(&doctor).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete doctor", Err: err})
		return
	}

	revokeAllSessions(c.Request.Context(), doctor.ID)
	util.LogRecordChange(util.EventRecordDeleted, "doctor", doctor.ID, c.ClientIP())
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Doctor deleted successfully", Data: doctor})
}

// revokeAllSessions is best-effort: the record is already gone, so a Redis
// failure only leaves tokens valid until they expire.
func revokeAllSessions(ctx context.Context, doctorID string) {
	if err := util.InvalidateDoctorSessions(ctx, doctorID); err != nil {
		util.GetLogger().Warn("failed to revoke doctor sessions", zap.String("doctor_id", doctorID), zap.Error(err))
	}
}

// ListPatientsForDoctor godoc
// @Summary      List a doctor's patients
// @Description  Returns 404 when the doctor has no patients.
// @Tags         Doctor
// @Produce      json
// @Param        id path string true "Doctor ID"
// @Success      200 {object} util.APIResponse{data=[]model.Patient} "Patients retrieved"
// @Failure      400 {object} util.APIResponse "Invalid doctor ID"
// @Failure      404 {object} util.APIResponse "No patients found"
// @Router       /api/doctors/{id}/patients [get]
func ListPatientsForDoctor(c *gin.Context) {
	id, ok := parseIDParam(c, "doctor")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patients, err := fetchPatients(db, func(q *gorm.DB) *gorm.DB {
		return q.Where("doctor_id = ?", id)
	})
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch patients", Err: err})
		return
	}
	if len(patients) == 0 {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: "No patients found for this doctor.",
			Err: fmt.Errorf("no patients for doctor %s", id),
		})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patients retrieved", Data: patients})
}
