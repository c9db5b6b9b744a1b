package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mintygd/demonlist/internal/repository"
	"github.com/mintygd/demonlist/internal/service"
	"github.com/mintygd/demonlist/pkg/response"
	"github.com/mintygd/demonlist/pkg/validator"
)

type AuthHandler struct {
	service  service.AuthService
	userRepo repository.UserRepository
}

func NewAuthHandler(service service.AuthService, userRepo repository.UserRepository) *AuthHandler {
	return &AuthHandler{service: service, userRepo: userRepo}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input service.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.Register(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input service.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.Login(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.userRepo.FindByID(c.Request.Context(), userID.String())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}
