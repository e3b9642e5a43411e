package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func setupRouter(as *AppState) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(cors.Default())
	router.Use(RequestIDMiddleware())
	router.Use(AccessLogMiddleware(as.Logger))
	router.Use(gin.Recovery())
	router.Use(BodyLimitMiddleware(as.Config.Common.Http.MaxRequestSize))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"users":     as.UserStore.Count(),
		})
	})

	users := router.Group("/users")
	{
		users.GET("", listUsers(as))
		users.POST("", createUser(as))
		users.DELETE("/:id", deleteUser(as))
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found."})
	})

	return router
}
