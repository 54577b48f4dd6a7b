// internal/api/handlers/user_handler.go
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"bulk-order-api-server/internal/auth"
	"bulk-order-api-server/internal/database"
	"bulk-order-api-server/internal/models"

	"github.com/gin-gonic/gin"
)

type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type UserHandler struct {
	Users  UserFinder
	Issuer *auth.TokenIssuer
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.Users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			fail(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.Printf("ERROR: login lookup: %v", err)
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.Password) {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if user.Status != "" && user.Status != "active" {
		fail(c, http.StatusForbidden, "Account is not active")
		return
	}

	token, err := h.Issuer.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		log.Printf("ERROR: sign token: %v", err)
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond(c, http.StatusOK, "Login successful", gin.H{"token": token, "user": user})
}
