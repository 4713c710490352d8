package handlers

import (
	"net/http"
	"time"

	"linkup/apperr"
	"linkup/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Register(c *gin.Context) {
	var in registerRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, h.Logger, apperr.Validation("malformed request body"))
		return
	}
	if in.Name == "" || in.Email == "" || len(in.Password) < 8 {
		respondErr(c, h.Logger, apperr.Validation("name, email and a password of at least 8 characters are required"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		respondErr(c, h.Logger, apperr.Internal("hash password", err))
		return
	}
	user := models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hashed),
		Active:   true,
	}
	if err := h.Store.CreateUser(c.Request.Context(), &user); err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"id": user.ID, "name": user.Name})
}

func (h *Handler) Login(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, h.Logger, apperr.Validation("malformed request body"))
		return
	}

	user, err := h.Store.GetUserByEmail(c.Request.Context(), in.Email)
	if err != nil {
		respondErr(c, h.Logger, apperr.Validation("incorrect email or password"))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		respondErr(c, h.Logger, apperr.Validation("incorrect email or password"))
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(h.Cfg.JWTSecret)
	if err != nil {
		respondErr(c, h.Logger, apperr.Internal("sign token", err))
		return
	}
	respond(c, http.StatusOK, gin.H{"token": signed})
}
