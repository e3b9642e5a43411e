package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eion/userdir/internal/users"
)

const msgNameAndEmailRequired = "Name and email are required."

// User handlers

func listUsers(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, as.UserService.ListUsers(c.Request.Context()))
	}
}

func createUser(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		// an undecodable body is treated like one with the fields missing
		var req users.CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			as.Logger.Warn("Invalid create user body",
				zap.String("request_id", requestID(c)),
				zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"message": msgNameAndEmailRequired})
			return
		}

		user, err := as.UserService.CreateUser(c.Request.Context(), &req)
		if err != nil {
			if users.IsValidationError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"message": msgNameAndEmailRequired})
				return
			}
			as.Logger.Error("Failed to create user", zap.String("request_id", requestID(c)), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user."})
			return
		}

		as.Logger.Info("User created",
			zap.String("request_id", requestID(c)),
			zap.Int("user_id", user.ID))
		c.JSON(http.StatusCreated, user)
	}
}

func deleteUser(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawID := c.Param("id")

		// a non-numeric id cannot match any user
		id, err := strconv.Atoi(rawID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("User with ID %s not found.", rawID)})
			return
		}

		err = as.UserService.DeleteUser(c.Request.Context(), id)
		if err != nil {
			if users.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("User with ID %d not found.", id)})
				return
			}
			as.Logger.Error("Failed to delete user",
				zap.String("request_id", requestID(c)),
				zap.Int("user_id", id),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete user."})
			return
		}

		as.Logger.Info("User deleted",
			zap.String("request_id", requestID(c)),
			zap.Int("user_id", id))
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("User with ID %d deleted successfully.", id)})
	}
}
