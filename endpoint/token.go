package endpoint

import (
	"github.com/ariebrainware/neuro-clinic/middleware"
	"github.com/ariebrainware/neuro-clinic/util"
	"github.com/gin-gonic/gin"
)

// ValidateToken godoc
// @Summary      Validate bearer token
// @Description  Echo the claims of a valid, unrevoked token
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse "Valid token"
// @Failure      401 {object} util.APIResponse "Invalid or expired token"
// @Router       /api/token/validate [get]
func ValidateToken(c *gin.Context) {
	doctorID, ok := middleware.GetDoctorID(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Invalid token", Err: util.ErrInvalidToken})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Valid token",
		Data: map[string]interface{}{
			"doctorId": doctorID,
			"email":    middleware.GetDoctorEmail(c),
		},
	})
}
