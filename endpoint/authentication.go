package endpoint

import (
	"errors"
	"fmt"
	"time"

	"github.com/ariebrainware/neuro-clinic/middleware"
	"github.com/ariebrainware/neuro-clinic/model"
	"github.com/ariebrainware/neuro-clinic/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"amelia.chen@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret-pass"`
}

type LoginResponse struct {
	Token  string       `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Doctor model.Doctor `json:"doctor"`
}

// LoginDoctor godoc
// @Summary      Doctor login
// @Description  Authenticate with email and password. Unknown emails answer 404, wrong passwords 401.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} util.APIResponse{data=LoginResponse} "Login successful"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      401 {object} util.APIResponse "Invalid credentials"
// @Failure      404 {object} util.APIResponse "Doctor not found"
// @Failure      429 {object} util.APIResponse "Too many attempts"
// @Router       /api/doctors/login [post]
func LoginDoctor(c *gin.Context) {
	var req LoginRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	ip, agent := c.ClientIP(), c.Request.UserAgent()
	email := util.NormalizeEmail(req.Email)

	var doctor model.Doctor
	err := db.Where("email = ?", email).First(&doctor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.LogLoginFailure(email, ip, agent, "doctor not found")
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Doctor not found", Err: err})
		return
	}
	if err != nil {
		util.LogLoginFailure(email, ip, agent, "database error")
		util.CallServerError(c, util.APIErrorParams{Msg: "Database error", Err: err})
		return
	}

	match, err := util.VerifyPassword(req.Password, doctor.Password)
	if err != nil {
		util.LogLoginFailure(email, ip, agent, "password verification error")
		util.CallServerError(c, util.APIErrorParams{Msg: "Password verification failed", Err: err})
		return
	}
	if !match {
		util.LogLoginFailure(email, ip, agent, "invalid password")
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Invalid credentials", Err: fmt.Errorf("invalid password")})
		return
	}

	token, err := util.GenerateDoctorToken(doctor.ID, doctor.Email, time.Now())
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to generate token", Err: err})
		return
	}
	if err := util.StoreDoctorSession(c.Request.Context(), doctor.ID, token, util.TokenTTL); err != nil {
		util.GetLogger().Error("failed to store session", zap.String("doctor_id", doctor.ID), zap.Error(err))
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create session", Err: err})
		return
	}

	util.LogLoginSuccess(doctor.ID, doctor.Email, ip, agent)
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Login successful",
		Data: LoginResponse{Token: token, Doctor: doctor},
	})
}

// LogoutDoctor godoc
// @Summary      Doctor logout
// @Description  Revoke the bearer token of the current session.
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse "Logout successful"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /api/doctors/logout [post]
func LogoutDoctor(c *gin.Context) {
	doctorID, ok := middleware.GetDoctorID(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Unauthorized", Err: util.ErrInvalidToken})
		return
	}

	if err := util.RevokeDoctorSession(c.Request.Context(), doctorID, middleware.GetSessionToken(c)); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to revoke session", Err: err})
		return
	}

	util.LogLogout(doctorID, middleware.GetDoctorEmail(c), c.ClientIP(), c.Request.UserAgent())
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Logout successful"})
}
