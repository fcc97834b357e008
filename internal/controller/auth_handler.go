package controller

import (
	"net/http"
	"time"

	"github.com/clinichub/clinic-booking/internal/model"
	"github.com/clinichub/clinic-booking/internal/service"
	"github.com/gin-gonic/gin"
)

// TokenParser validates access tokens for the auth middleware.
type TokenParser interface {
	ParseAccessToken(token string) (*service.AccessClaims, error)
}

type AuthHandler struct {
	users *service.UserService
}

func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

type registerRequest struct {
	UserName    string    `json:"user_name" binding:"required"`
	Email       string    `json:"email" binding:"required,email"`
	Password    string    `json:"password" binding:"required,min=8"`
	DateOfBirth time.Time `json:"date_of_birth" binding:"required"`
	Gender      int       `json:"gender" binding:"required,oneof=1 2 3"`
	Province    string    `json:"province"`
	District    string    `json:"district"`
	Address     string    `json:"address"`
	PhoneNumber string    `json:"phone_number"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, service.MsgMissingRequiredFields)
		return
	}

	user, err := h.users.Register(c.Request.Context(), service.RegisterRequest{
		UserName:    req.UserName,
		Email:       req.Email,
		Password:    req.Password,
		DateOfBirth: req.DateOfBirth,
		Gender:      model.Gender(req.Gender),
		Province:    req.Province,
		District:    req.District,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, "User registered successfully", user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	AccessToken string      `json:"access_token"`
	User        *model.User `json:"user"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, service.MsgMissingRequiredFields)
		return
	}

	token, user, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "Login successful", loginResponse{AccessToken: token, User: user})
}

func (h *AuthHandler) Me(c *gin.Context) {
	actor := actorFrom(c)

	user, err := h.users.GetByID(c.Request.Context(), actor.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "OK", user)
}
