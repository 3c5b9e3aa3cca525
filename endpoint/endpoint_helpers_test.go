package endpoint

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyError(t *testing.T) {
	assert.False(t, isDuplicateKeyError(nil))
	assert.True(t, isDuplicateKeyError(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKeyError(fmt.Errorf("wrap: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, isDuplicateKeyError(errors.New("UNIQUE constraint failed: doctors.email")))
	assert.True(t, isDuplicateKeyError(errors.New("Error 1062: Duplicate entry 'a' for key 'email'")))
	assert.False(t, isDuplicateKeyError(errors.New("connection refused")))
}

func TestMissingFields(t *testing.T) {
	missing := missingFields(map[string]string{"a": "x", "b": " ", "c": ""}, []string{"a", "b", "c"})
	assert.Equal(t, []string{"b", "c"}, missing)
}

func TestGetDBOrRespond_NoDB(t *testing.T) {
	r := newTestRouter()

	w, resp, err := doRequestWithHandler(r, requestSpec{
		method:       http.MethodGet,
		registerPath: "/doctors",
		requestPath:  "/doctors",
		handler:      ListDoctors,
	})
	assert.NoError(t, err)
	assertStatus(t, w, http.StatusInternalServerError)
	assert.Equal(t, "db is nil", resp["error"])
}

func TestParseIDParam(t *testing.T) {
	r := newTestRouter()
	r.GET("/things/:id", func(c *gin.Context) {
		id, ok := parseIDParam(c, "thing")
		if !ok {
			return
		}
		c.String(http.StatusOK, id)
	})

	w, _, _ := performRequest(r, requestSpec{method: http.MethodGet, requestPath: "/things/9B2F7C1E-4D3A-4F6B-8C2D-1A2B3C4D5E6F"})
	assertStatus(t, w, http.StatusOK)
	assert.Equal(t, missingID, w.Body.String())

	w, resp, err := performRequest(r, requestSpec{method: http.MethodGet, requestPath: "/things/abc"})
	assert.NoError(t, err)
	assertStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "Invalid thing ID.", resp["msg"])
}
