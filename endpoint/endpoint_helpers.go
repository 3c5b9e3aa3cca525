package endpoint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ariebrainware/neuro-clinic/middleware"
	"github.com/ariebrainware/neuro-clinic/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func bindJSONOrRespond(c *gin.Context, dst interface{}, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return false
	}
	return true
}

func getDBOrRespond(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Database connection not available", Err: fmt.Errorf("db is nil")})
		return nil, false
	}
	return db, true
}

// parseIDParam validates the :id path parameter and answers 400 when it is malformed.
func parseIDParam(c *gin.Context, resource string) (string, bool) {
	id, ok := util.NormalizeID(c.Param("id"))
	if !ok {
		util.CallUserError(c, util.APIErrorParams{
			Msg: fmt.Sprintf("Invalid %s ID.", resource),
			Err: fmt.Errorf("invalid %s id: %q", resource, c.Param("id")),
		})
		return "", false
	}
	return id, true
}

// respondLookupError maps a failed single-record lookup to 404 or 500.
func respondLookupError(c *gin.Context, err error, resource string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: fmt.Sprintf("%s not found.", capitalize(resource)),
			Err: err,
		})
		return
	}
	util.CallServerError(c, util.APIErrorParams{Msg: fmt.Sprintf("Failed to fetch %s", resource), Err: err})
}

// isDuplicateKeyError reports unique index violations. Drivers that GORM cannot
// translate are matched on their message.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry")
}

// missingFields returns the names of the fields whose value is blank.
func missingFields(fields map[string]string, order []string) []string {
	var missing []string
	for _, name := range order {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
