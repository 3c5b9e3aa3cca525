package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/ariebrainware/neuro-clinic/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newAuthRouter() *gin.Engine {
	r := gin.New()
	r.GET("/secure", ValidateDoctorToken(), func(c *gin.Context) {
		id, _ := GetDoctorID(c)
		c.JSON(http.StatusOK, gin.H{
			"doctor_id": id,
			"email":     GetDoctorEmail(c),
			"token":     GetSessionToken(c),
		})
	})
	return r
}

func issueToken(t *testing.T) string {
	t.Helper()
	util.SetJWTSecret("middleware-test-secret")
	t.Cleanup(func() { util.SetJWTSecret("") })
	token, err := util.GenerateDoctorToken("doc-1", "doc@example.com", time.Now())
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func TestValidateDoctorToken_MissingHeader(t *testing.T) {
	withoutRedis(t)
	w := doRequest(newAuthRouter(), http.MethodGet, "/secure", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateDoctorToken_MalformedHeader(t *testing.T) {
	withoutRedis(t)
	w := doRequest(newAuthRouter(), http.MethodGet, "/secure", map[string]string{"Authorization": "Token abc"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateDoctorToken_InvalidToken(t *testing.T) {
	withoutRedis(t)
	issueToken(t)
	w := doRequest(newAuthRouter(), http.MethodGet, "/secure", map[string]string{"Authorization": "Bearer not-a-jwt"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateDoctorToken_ValidWithoutRedis(t *testing.T) {
	withoutRedis(t)
	token := issueToken(t)

	w := doRequest(newAuthRouter(), http.MethodGet, "/secure", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"doctor_id":"doc-1"`)
	assert.Contains(t, w.Body.String(), `"email":"doc@example.com"`)
}

func TestValidateDoctorToken_ActiveSession(t *testing.T) {
	token := issueToken(t)
	mock := useMockRedis(t)
	mock.ExpectGet("session:" + token).SetVal("doc-1")

	w := doRequest(newAuthRouter(), http.MethodGet, "/secure", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateDoctorToken_RevokedSession(t *testing.T) {
	token := issueToken(t)
	mock := useMockRedis(t)
	mock.ExpectGet("session:" + token).RedisNil()

	w := doRequest(newAuthRouter(), http.MethodGet, "/secure", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "revoked")
	assert.NoError(t, mock.ExpectationsWereMet())
}
