package middleware

import (
	"errors"
	"strings"

	"github.com/ariebrainware/neuro-clinic/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	doctorIDContextKey     = "doctor_id"
	doctorEmailContextKey  = "doctor_email"
	sessionTokenContextKey = "session_token"
)

var errMissingToken = errors.New("missing bearer token")

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", errMissingToken
	}
	return strings.TrimSpace(header[len(prefix):]), nil
}

// ValidateDoctorToken rejects requests without a valid, unrevoked doctor token and
// exposes the token's claims to downstream handlers.
func ValidateDoctorToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			unauthorized(c, "Authorization token required", err)
			return
		}

		claims, err := util.ParseDoctorToken(token)
		if err != nil {
			unauthorized(c, "Invalid or expired token", util.ErrInvalidToken)
			return
		}

		active, err := util.SessionActive(c.Request.Context(), token)
		if err != nil {
			util.GetLogger().Error("session lookup failed", zap.Error(err))
			util.CallServerError(c, util.APIErrorParams{Msg: "Failed to verify session", Err: err})
			c.Abort()
			return
		}
		if !active {
			unauthorized(c, "Session has been revoked", util.ErrInvalidToken)
			return
		}

		c.Set(doctorIDContextKey, claims.DoctorID)
		c.Set(doctorEmailContextKey, claims.Email)
		c.Set(sessionTokenContextKey, token)
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string, err error) {
	util.LogUnauthorizedAccess(c.ClientIP(), c.Request.URL.Path, err.Error())
	util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: msg, Err: err})
	c.Abort()
}

// GetDoctorID returns the authenticated doctor's id.
func GetDoctorID(c *gin.Context) (string, bool) {
	id := c.GetString(doctorIDContextKey)
	return id, id != ""
}

// GetDoctorEmail returns the authenticated doctor's email.
func GetDoctorEmail(c *gin.Context) string {
	return c.GetString(doctorEmailContextKey)
}

// GetSessionToken returns the raw bearer token of the current request.
func GetSessionToken(c *gin.Context) string {
	return c.GetString(sessionTokenContextKey)
}
