package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ariebrainware/neuro-clinic/config"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// useMockRedis installs a redismock client for the duration of the test.
func useMockRedis(t *testing.T) redismock.ClientMock {
	t.Helper()
	client, mock := redismock.NewClientMock()
	config.SetRedisClientForTest(client)
	t.Cleanup(func() { config.SetRedisClientForTest(nil) })
	return mock
}

func withoutRedis(t *testing.T) {
	t.Helper()
	config.SetRedisClientForTest(nil)
	t.Cleanup(func() { config.SetRedisClientForTest(nil) })
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

func doRequest(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "192.168.1.1:1234"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}
