package endpoint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ariebrainware/neuro-clinic/model"
	"github.com/ariebrainware/neuro-clinic/util"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errDuplicatePatientEmail = fmt.Errorf("duplicate email: a patient with this email already exists")

// referenceList accepts either a single id or a list of ids.
type referenceList []string

func (r *referenceList) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if bytes.Equal(trimmed, []byte("null")) {
		*r = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(trimmed, &single); err == nil {
		*r = referenceList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(trimmed, &many); err != nil {
		return fmt.Errorf("disorder_id must be an id or a list of ids")
	}
	*r = many
	return nil
}

// normalize validates every id and drops repeats, keeping the first occurrence.
func (r referenceList) normalize() ([]string, error) {
	if len(r) == 0 {
		return nil, fmt.Errorf("at least one disorder_id is required")
	}
	seen := make(map[string]struct{}, len(r))
	out := make([]string, 0, len(r))
	for _, raw := range r {
		id, ok := util.NormalizeID(raw)
		if !ok {
			return nil, fmt.Errorf("invalid disorder_id: %q", raw)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

type createPatientRequest struct {
	FirstName        string        `json:"first_name" example:"Liam"`
	LastName         string        `json:"last_name" example:"Martin"`
	DateOfBirth      string        `json:"dob" example:"1987-03-21"`
	Gender           string        `json:"gender" example:"male"`
	Email            string        `json:"email" example:"liam.martin@example.com"`
	Contact          string        `json:"contact" example:"416-555-0134"`
	EmergencyContact string        `json:"emergency_contact" example:"647-555-0199"`
	Address          string        `json:"address" example:"12 King St W, Toronto"`
	Status           string        `json:"status" example:"active"`
	DoctorID         string        `json:"doctor_id"`
	DisorderIDs      referenceList `json:"disorder_id" swaggertype:"array,string"`
}

func (r createPatientRequest) toModel() (model.Patient, error) {
	p := model.Patient{
		FirstName:        util.NormalizeName(r.FirstName),
		LastName:         util.NormalizeName(r.LastName),
		DateOfBirth:      strings.TrimSpace(r.DateOfBirth),
		Gender:           strings.ToLower(strings.TrimSpace(r.Gender)),
		Email:            util.NormalizeEmail(r.Email),
		Contact:          strings.TrimSpace(r.Contact),
		EmergencyContact: strings.TrimSpace(r.EmergencyContact),
		Address:          strings.TrimSpace(r.Address),
		Status:           strings.ToLower(strings.TrimSpace(r.Status)),
	}

	missing := missingFields(map[string]string{
		"first_name":        p.FirstName,
		"last_name":         p.LastName,
		"dob":               p.DateOfBirth,
		"email":             p.Email,
		"contact":           p.Contact,
		"emergency_contact": p.EmergencyContact,
		"status":            p.Status,
		"doctor_id":         r.DoctorID,
	}, []string{"first_name", "last_name", "dob", "email", "contact", "emergency_contact", "status", "doctor_id"})
	if len(r.DisorderIDs) == 0 {
		missing = append(missing, "disorder_id")
	}
	if len(missing) > 0 {
		return p, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	if p.Gender == "" {
		p.Gender = model.GenderMale
	}
	if err := validatePatientFields(patientFields{
		dob:              &p.DateOfBirth,
		gender:           &p.Gender,
		email:            &p.Email,
		contact:          &p.Contact,
		emergencyContact: &p.EmergencyContact,
		status:           &p.Status,
	}); err != nil {
		return p, err
	}

	doctorID, ok := util.NormalizeID(r.DoctorID)
	if !ok {
		return p, fmt.Errorf("invalid doctor_id: %q", r.DoctorID)
	}
	p.DoctorID = doctorID

	disorderIDs, err := r.DisorderIDs.normalize()
	if err != nil {
		return p, err
	}
	p.DisorderIDs = datatypes.JSONSlice[string](disorderIDs)
	return p, nil
}

// patientFields points at the format-checked fields present in a request.
type patientFields struct {
	dob              *string
	gender           *string
	email            *string
	contact          *string
	emergencyContact *string
	status           *string
}

func validatePatientFields(f patientFields) error {
	if f.dob != nil && !util.IsValidDate(*f.dob) {
		return fmt.Errorf("invalid dob: expected YYYY-MM-DD")
	}
	if f.gender != nil && !util.Contains(*f.gender, model.Genders) {
		return fmt.Errorf("invalid gender: must be one of %s", strings.Join(model.Genders, ", "))
	}
	if f.email != nil && !util.IsValidEmail(*f.email) {
		return fmt.Errorf("invalid email format")
	}
	if f.contact != nil && !util.IsValidPhone(*f.contact) {
		return fmt.Errorf("invalid contact number format")
	}
	if f.emergencyContact != nil && !util.IsValidPhone(*f.emergencyContact) {
		return fmt.Errorf("invalid emergency contact number format")
	}
	if f.status != nil && !util.Contains(*f.status, model.Statuses) {
		return fmt.Errorf("invalid status: must be one of %s", strings.Join(model.Statuses, ", "))
	}
	return nil
}

// updatePatientRequest carries a partial update; nil fields are left untouched.
type updatePatientRequest struct {
	FirstName        *string        `json:"first_name"`
	LastName         *string        `json:"last_name"`
	DateOfBirth      *string        `json:"dob"`
	Gender           *string        `json:"gender"`
	Email            *string        `json:"email"`
	Contact          *string        `json:"contact"`
	EmergencyContact *string        `json:"emergency_contact"`
	Address          *string        `json:"address"`
	Status           *string        `json:"status"`
	DoctorID         *string        `json:"doctor_id"`
	DisorderIDs      *referenceList `json:"disorder_id" swaggertype:"array,string"`
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func lowered(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(*s))
	return &v
}

func (r updatePatientRequest) toUpdates() (map[string]interface{}, error) {
	f := patientFields{
		dob:              trimmed(r.DateOfBirth),
		gender:           lowered(r.Gender),
		email:            lowered(r.Email),
		contact:          trimmed(r.Contact),
		emergencyContact: trimmed(r.EmergencyContact),
		status:           lowered(r.Status),
	}
	if err := validatePatientFields(f); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	for column, value := range map[string]*string{
		"dob":               f.dob,
		"gender":            f.gender,
		"email":             f.email,
		"contact":           f.contact,
		"emergency_contact": f.emergencyContact,
		"status":            f.status,
		"address":           trimmed(r.Address),
	} {
		if value != nil {
			updates[column] = *value
		}
	}
	for column, value := range map[string]*string{"first_name": r.FirstName, "last_name": r.LastName} {
		if value == nil {
			continue
		}
		name := util.NormalizeName(*value)
		if name == "" {
			return nil, fmt.Errorf("%s cannot be empty", column)
		}
		updates[column] = name
	}
	if r.DoctorID != nil {
		id, ok := util.NormalizeID(*r.DoctorID)
		if !ok {
			return nil, fmt.Errorf("invalid doctor_id: %q", *r.DoctorID)
		}
		updates["doctor_id"] = id
	}
	if r.DisorderIDs != nil {
		ids, err := r.DisorderIDs.normalize()
		if err != nil {
			return nil, err
		}
		updates["disorder_ids"] = datatypes.JSONSlice[string](ids)
	}
	return updates, nil
}

// fetchPatients loads patients matching scope with their doctor and disorders expanded.
func fetchPatients(db *gorm.DB, scope func(*gorm.DB) *gorm.DB) ([]model.Patient, error) {
	var patients []model.Patient
	if err := scope(db.Preload("Doctor")).Order("created_at ASC").Find(&patients).Error; err != nil {
		return nil, err
	}
	if err := expandDisorders(db, patients); err != nil {
		return nil, err
	}
	return patients, nil
}

func fetchPatient(db *gorm.DB, id string) (model.Patient, error) {
	var patient model.Patient
	if err := db.Preload("Doctor").First(&patient, "id = ?", id).Error; err != nil {
		return patient, err
	}
	one := []model.Patient{patient}
	if err := expandDisorders(db, one); err != nil {
		return patient, err
	}
	return one[0], nil
}

// expandDisorders resolves disorder references in place. Ids that no longer
// resolve are skipped; the raw ids stay in DisorderIDs.
func expandDisorders(db *gorm.DB, patients []model.Patient) error {
	var ids []string
	for _, p := range patients {
		ids = append(ids, p.DisorderIDs...)
	}
	if len(ids) == 0 {
		return nil
	}

	var disorders []model.Disorder
	if err := db.Preload("TreatmentPlans").Where("id IN ?", ids).Find(&disorders).Error; err != nil {
		return err
	}
	byID := make(map[string]model.Disorder, len(disorders))
	for _, d := range disorders {
		byID[d.ID] = d
	}

	for i := range patients {
		for _, id := range patients[i].DisorderIDs {
			if d, ok := byID[id]; ok {
				patients[i].Disorders = append(patients[i].Disorders, d)
			}
		}
	}
	return nil
}

// CreatePatient godoc
// @Summary      Create a patient
// @Description  The doctor and disorder references must be well-formed ids; their existence is not checked.
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Param        request body createPatientRequest true "Patient details"
// @Success      201 {object} util.APIResponse{data=model.Patient} "Patient created"
// @Failure      400 {object} util.APIResponse "Invalid request or duplicate email"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/patients [post]
func CreatePatient(c *gin.Context) {
	var req createPatientRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}
	patient, err := req.toModel()
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid patient details", Err: err})
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	if err := db.Omit(clause.Associations).Create(&patient).Error; err != nil {
		if isDuplicateKeyError(err) {
			util.CallUserError(c, util.APIErrorParams{Msg: "A patient with this email already exists.", Err: errDuplicatePatientEmail})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create patient", Err: err})
		return
	}

	util.LogRecordChange(util.EventRecordCreated, "patient", patient.ID, c.ClientIP())
	util.CallCreated(c, util.APISuccessParams{Msg: "Patient created successfully", Data: patient})
}

// ListPatients godoc
// @Summary      List patients
// @Description  Doctor and disorder references are expanded.
// @Tags         Patient
// @Produce      json
// @Success      200 {object} util.APIResponse{data=[]model.Patient} "Patients retrieved"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/patients [get]
func ListPatients(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patients, err := fetchPatients(db, func(q *gorm.DB) *gorm.DB { return q })
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch patients", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patients retrieved", Data: patients})
}

// GetPatient godoc
// @Summary      Get a patient
// @Tags         Patient
// @Produce      json
// @Param        id path string true "Patient ID"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient retrieved"
// @Failure      400 {object} util.APIResponse "Invalid patient ID"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Router       /api/patients/{id} [get]
func GetPatient(c *gin.Context) {
	id, ok := parseIDParam(c, "patient")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patient, err := fetchPatient(db, id)
	if err != nil {
		respondLookupError(c, err, "patient")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patient retrieved", Data: patient})
}

// UpdatePatient godoc
// @Summary      Update a patient
// @Description  Provided fields are re-validated; untouched fields keep their values.
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Param        id path string true "Patient ID"
// @Param        request body updatePatientRequest true "Fields to update"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient updated"
// @Failure      400 {object} util.APIResponse "Invalid request or duplicate email"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Router       /api/patients/{id} [put]
func UpdatePatient(c *gin.Context) {
	id, ok := parseIDParam(c, "patient")
	if !ok {
		return
	}
	var req updatePatientRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}
	updates, err := req.toUpdates()
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid patient details", Err: err})
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var existing model.Patient
	if err := db.First(&existing, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "patient")
		return
	}
	if len(updates) > 0 {
		if err := db.Model(&existing).Omit(clause.Associations).Updates(updates).Error; err != nil {
			if isDuplicateKeyError(err) {
				util.CallUserError(c, util.APIErrorParams{Msg: "A patient with this email already exists.", Err: errDuplicatePatientEmail})
				return
			}
			util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update patient", Err: err})
			return
		}
	}

	patient, err := fetchPatient(db, id)
	if err != nil {
		respondLookupError(c, err, "patient")
		return
	}

	util.LogRecordChange(util.EventRecordUpdated, "patient", patient.ID, c.ClientIP())
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patient updated successfully", Data: patient})
}

// DeletePatient godoc
// @Summary      Delete a patient
// @Tags         Patient
// @Produce      json
// @Param        id path string true "Patient ID"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient deleted"
// @Failure      400 {object} util.APIResponse "Invalid patient ID"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Router       /api/patients/{id} [delete]
func DeletePatient(c *gin.Context) {
	id, ok := parseIDParam(c, "patient")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var patient model.Patient
	if err := db.First(&patient, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "patient")
		return
	}
	if err := db.Delete(&patient).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete patient", Err: err})
		return
	}

	util.LogRecordChange(util.EventRecordDeleted, "patient", patient.ID, c.ClientIP())
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patient deleted successfully", Data: patient})
}
