package middleware

import (
	"time"

	"github.com/ariebrainware/neuro-clinic/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EndpointCallLogger writes one structured access log line per request.
// Server errors are logged at error level, client errors at warn.
func EndpointCallLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("raw_path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.String("ip", c.ClientIP()),
		}
		if doctorID, ok := GetDoctorID(c); ok {
			fields = append(fields, zap.String("doctor_id", doctorID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		log := util.GetLogger()
		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}
