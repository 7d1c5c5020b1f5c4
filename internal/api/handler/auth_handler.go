package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fisker/zhr-backend/internal/api/middleware"
	"github.com/fisker/zhr-backend/internal/model"
	"github.com/fisker/zhr-backend/internal/service"
)

// AuthHandler 认证接口
type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Register 用户注册
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	user, err := h.service.Register(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}
	c.JSON(http.StatusOK, model.Success(user))
}

// Login 用户登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, err.Error()))
		return
	}

	resp, err := h.service.Login(&req, c.ClientIP())
	if err != nil {
		c.JSON(http.StatusUnauthorized, model.Error(401, err.Error()))
		return
	}
	c.JSON(http.StatusOK, model.Success(resp))
}

// GetCurrentUser 获取当前登录用户信息
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, model.Error(401, "未登录"))
		return
	}

	user, err := h.service.GetUser(userID)
	if err != nil {
		model.HandleError(c, 500, err, "查询用户失败")
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, model.Error(404, "用户不存在"))
		return
	}
	c.JSON(http.StatusOK, model.Success(user))
}
