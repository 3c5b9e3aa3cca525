package endpoint

import (
	"fmt"
	"strings"

	"github.com/ariebrainware/neuro-clinic/model"
	"github.com/ariebrainware/neuro-clinic/util"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errDuplicateDisorderName = fmt.Errorf("duplicate key: disorder_name must be unique")

type treatmentPlanRequest struct {
	Name        string   `json:"name" example:"First-line anticonvulsant"`
	Medications []string `json:"medications" example:"Levetiracetam,Lamotrigine"`
}

type createDisorderRequest struct {
	DisorderName   string                 `json:"disorder_name" example:"Epilepsy"`
	Description    string                 `json:"description" example:"Recurrent unprovoked seizures"`
	TreatmentPlans []treatmentPlanRequest `json:"treatment_plans"`
}

type updateDisorderRequest struct {
	DisorderName   *string                 `json:"disorder_name"`
	Description    *string                 `json:"description"`
	TreatmentPlans *[]treatmentPlanRequest `json:"treatment_plans"`
}

func buildTreatmentPlans(disorderID string, reqs []treatmentPlanRequest) ([]model.TreatmentPlan, error) {
	plans := make([]model.TreatmentPlan, 0, len(reqs))
	for i, r := range reqs {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return nil, fmt.Errorf("treatment_plans[%d].name is required", i)
		}
		meds := make([]string, 0, len(r.Medications))
		for _, m := range r.Medications {
			if m = strings.TrimSpace(m); m != "" {
				meds = append(meds, m)
			}
		}
		plans = append(plans, model.TreatmentPlan{
			DisorderID:  disorderID,
			Name:        name,
			Medications: datatypes.JSONSlice[string](meds),
		})
	}
	return plans, nil
}

func (r createDisorderRequest) toModel() (model.Disorder, error) {
	d := model.Disorder{
		DisorderName: util.NormalizeName(r.DisorderName),
		Description:  strings.TrimSpace(r.Description),
	}
	missing := missingFields(map[string]string{
		"disorder_name": d.DisorderName,
		"description":   d.Description,
	}, []string{"disorder_name", "description"})
	if len(missing) > 0 {
		return d, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	plans, err := buildTreatmentPlans("", r.TreatmentPlans)
	if err != nil {
		return d, err
	}
	d.TreatmentPlans = plans
	return d, nil
}

func (r updateDisorderRequest) toUpdates() (map[string]interface{}, error) {
	updates := map[string]interface{}{}
	if r.DisorderName != nil {
		name := util.NormalizeName(*r.DisorderName)
		if name == "" {
			return nil, fmt.Errorf("disorder_name cannot be empty")
		}
		updates["disorder_name"] = name
	}
	if r.Description != nil {
		desc := strings.TrimSpace(*r.Description)
		if desc == "" {
			return nil, fmt.Errorf("description cannot be empty")
		}
		updates["description"] = desc
	}
	return updates, nil
}

func fetchDisorder(db *gorm.DB, id string) (model.Disorder, error) {
	var disorder model.Disorder
	err := db.Preload("TreatmentPlans", func(q *gorm.DB) *gorm.DB {
		return q.Order("created_at ASC")
	}).First(&disorder, "id = ?", id).Error
	return disorder, err
}

func respondDisorderWriteError(c *gin.Context, err error, msg string) {
	if isDuplicateKeyError(err) {
		util.CallUserError(c, util.APIErrorParams{Msg: "Validation failed", Err: errDuplicateDisorderName})
		return
	}
	util.CallServerError(c, util.APIErrorParams{Msg: msg, Err: err})
}

// CreateDisorder godoc
// @Summary      Create a disorder
// @Tags         Disorder
// @Accept       json
// @Produce      json
// @Param        request body createDisorderRequest true "Disorder details"
// @Success      201 {object} util.APIResponse{data=model.Disorder} "Disorder created"
// @Failure      400 {object} util.APIResponse "Validation failed"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/disorders [post]
func CreateDisorder(c *gin.Context) {
	var req createDisorderRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}
	disorder, err := req.toModel()
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Validation failed", Err: err})
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	if err := db.Create(&disorder).Error; err != nil {
		respondDisorderWriteError(c, err, "Failed to create disorder")
		return
	}

	util.InvalidateDisorderBriefCache()
	util.LogRecordChange(util.EventRecordCreated, "disorder", disorder.ID, c.ClientIP())
	util.CallCreated(c, util.APISuccessParams{Msg: "Disorder created successfully", Data: disorder})
}

// ListDisorders godoc
// @Summary      List disorders
// @Tags         Disorder
// @Produce      json
// @Success      200 {object} util.APIResponse{data=[]model.Disorder} "Disorders retrieved"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/disorders [get]
func ListDisorders(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var disorders []model.Disorder
	err := db.Preload("TreatmentPlans", func(q *gorm.DB) *gorm.DB {
		return q.Order("created_at ASC")
	}).Order("created_at ASC").Find(&disorders).Error
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch disorders", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Disorders retrieved", Data: disorders})
}

// ListDisorderBriefs godoc
// @Summary      List disorder names
// @Description  Id and name of every disorder, for selection controls
// @Tags         Disorder
// @Produce      json
// @Success      200 {object} util.APIResponse{data=[]model.DisorderBrief} "Disorders retrieved"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/disorders/brief [get]
func ListDisorderBriefs(c *gin.Context) {
	if briefs, ok := util.DisorderBriefCacheGet(); ok {
		util.CallSuccessOK(c, util.APISuccessParams{Msg: "Disorders retrieved", Data: briefs})
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	gen := util.DisorderBriefGeneration()
	briefs := []model.DisorderBrief{}
	err := db.Model(&model.Disorder{}).
		Select("id", "disorder_name").
		Order("disorder_name ASC").
		Find(&briefs).Error
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch disorders", Err: err})
		return
	}

	util.DisorderBriefCacheSet(gen, briefs)
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Disorders retrieved", Data: briefs})
}

// GetDisorder godoc
// @Summary      Get a disorder
// @Tags         Disorder
// @Produce      json
// @Param        id path string true "Disorder ID"
// @Success      200 {object} util.APIResponse{data=model.Disorder} "Disorder retrieved"
// @Failure      400 {object} util.APIResponse "Invalid disorder ID"
// @Failure      404 {object} util.APIResponse "Disorder not found"
// @Router       /api/disorders/{id} [get]
func GetDisorder(c *gin.Context) {
	id, ok := parseIDParam(c, "disorder")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	disorder, err := fetchDisorder(db, id)
	if err != nil {
		respondLookupError(c, err, "disorder")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Disorder retrieved", Data: disorder})
}

// UpdateDisorder godoc
// @Summary      Update a disorder
// @Description  When treatment_plans is present it replaces every existing plan.
// @Tags         Disorder
// @Accept       json
// @Produce      json
// @Param        id path string true "Disorder ID"
// @Param        request body updateDisorderRequest true "Fields to update"
// @Success      200 {object} util.APIResponse{data=model.Disorder} "Disorder updated"
// @Failure      400 {object} util.APIResponse "Validation failed"
// @Failure      404 {object} util.APIResponse "Disorder not found"
// @Router       /api/disorders/{id} [put]
func UpdateDisorder(c *gin.Context) {
	id, ok := parseIDParam(c, "disorder")
	if !ok {
		return
	}
	var req updateDisorderRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}
	updates, err := req.toUpdates()
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Validation failed", Err: err})
		return
	}
	var plans []model.TreatmentPlan
	if req.TreatmentPlans != nil {
		if plans, err = buildTreatmentPlans(id, *req.TreatmentPlans); err != nil {
			util.CallUserError(c, util.APIErrorParams{Msg: "Validation failed", Err: err})
			return
		}
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var existing model.Disorder
	if err := db.First(&existing, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "disorder")
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&existing).Omit(clause.Associations).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.TreatmentPlans == nil {
			return nil
		}
		if err := tx.Where("disorder_id = ?", id).Delete(&model.TreatmentPlan{}).Error; err != nil {
			return err
		}
		if len(plans) == 0 {
			return nil
		}
		return tx.Create(&plans).Error
	})
	if err != nil {
		respondDisorderWriteError(c, err, "Failed to update disorder")
		return
	}

	disorder, err := fetchDisorder(db, id)
	if err != nil {
		respondLookupError(c, err, "disorder")
		return
	}

	util.InvalidateDisorderBriefCache()
	util.LogRecordChange(util.EventRecordUpdated, "disorder", disorder.ID, c.ClientIP())
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Disorder updated successfully", Data: disorder})
}

// DeleteDisorder godoc
// @Summary      Delete a disorder
// @Description  Removes the disorder and its treatment plans. Patients referencing it are left untouched.
// @Tags         Disorder
// @Param        id path string true "Disorder ID"
// @Success      204 "Disorder deleted"
// @Failure      400 {object} util.APIResponse "Invalid disorder ID"
// @Failure      404 {object} util.APIResponse "Disorder not found"
// @Router       /api/disorders/{id} [delete]
func DeleteDisorder(c *gin.Context) {
	id, ok := parseIDParam(c, "disorder")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var disorder model.Disorder
	if err := db.First(&disorder, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "disorder")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("disorder_id = ?", id).Delete(&model.TreatmentPlan{}).Error; err != nil {
			return err
		}
		return tx.Delete(&disorder).Error
	})
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete disorder", Err: err})
		return
	}

	util.InvalidateDisorderBriefCache()
	util.LogRecordChange(util.EventRecordDeleted, "disorder", disorder.ID, c.ClientIP())
	util.CallNoContent(c)
}
