package handler

import (
	"crypto/subtle"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/sigfinder/sigfinder-go/internal/middleware"
	"github.com/sigfinder/sigfinder-go/pkg/response"
)

// AuthHandler issues JWTs for the single operator account
type AuthHandler struct {
	jwtSecret string
	username  string
	password  string
}

// NewAuthHandler creates an auth handler. Operator credentials come from
// AUTH_USERNAME / AUTH_PASSWORD with development defaults.
func NewAuthHandler(jwtSecret string) *AuthHandler {
	username := os.Getenv("AUTH_USERNAME")
	if username == "" {
		username = "operator"
	}
	password := os.Getenv("AUTH_PASSWORD")
	if password == "" {
		password = "change-me"
	}
	return &AuthHandler{jwtSecret: jwtSecret, username: username, password: password}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var body struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(body.Username), []byte(h.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(body.Password), []byte(h.password)) == 1
	if !userOK || !passOK {
		response.Unauthorized(c, "invalid credentials")
		return
	}

	token, err := middleware.GenerateToken(h.jwtSecret, body.Username)
	if err != nil {
		response.InternalError(c, "failed to issue token")
		return
	}
	response.Success(c, gin.H{"token": token})
}
