package main

import (
	"fmt"
	"net/http"

	"github.com/ariebrainware/neuro-clinic/config"
	"github.com/ariebrainware/neuro-clinic/endpoint"
	"github.com/ariebrainware/neuro-clinic/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// newRouter wires every route of the API onto a fresh gin engine.
func newRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.EndpointCallLogger(),
		middleware.Metrics(),
		middleware.CORSMiddleware(cfg.CORSOrigins),
		middleware.DatabaseMiddleware(db),
	)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})
	router.GET("/metrics", middleware.MetricsHandler())

	api := router.Group("/api")
	auth := middleware.ValidateDoctorToken()

	doctors := api.Group("/doctors")
	{
		doctors.POST("", endpoint.CreateDoctor)
		doctors.GET("", endpoint.ListDoctors)
		doctors.POST("/login", middleware.RateLimiter(middleware.RateLimitConfig{}), endpoint.LoginDoctor)
		doctors.POST("/logout", auth, endpoint.LogoutDoctor)
		doctors.GET("/:id", endpoint.GetDoctor)
		doctors.PUT("/:id", endpoint.UpdateDoctor)
		doctors.DELETE("/:id", endpoint.DeleteDoctor)
		doctors.GET("/:id/patients", endpoint.ListPatientsForDoctor)
	}

	patients := api.Group("/patients")
	{
		patients.POST("", endpoint.CreatePatient)
		patients.GET("", endpoint.ListPatients)
		patients.GET("/:id", endpoint.GetPatient)
		patients.PUT("/:id", endpoint.UpdatePatient)
		patients.DELETE("/:id", endpoint.DeletePatient)
	}

	disorders := api.Group("/disorders")
	{
		disorders.POST("", endpoint.CreateDisorder)
		disorders.GET("", endpoint.ListDisorders)
		disorders.GET("/brief", endpoint.ListDisorderBriefs)
		disorders.GET("/:id", endpoint.GetDisorder)
		disorders.PUT("/:id", endpoint.UpdateDisorder)
		disorders.DELETE("/:id", endpoint.DeleteDisorder)
	}

	api.GET("/token/validate", auth, endpoint.ValidateToken)

	return router
}
