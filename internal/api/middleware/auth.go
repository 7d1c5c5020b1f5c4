package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fisker/zhr-backend/internal/model"
	"github.com/fisker/zhr-backend/internal/service"
)

// AuthMiddleware JWT认证中间件
// WebSocket 升级请求允许通过 query 参数传递 token（浏览器WS API不能带Header）
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				c.JSON(http.StatusUnauthorized, model.Error(401, "Token格式错误：Authorization header 必须以 'Bearer ' 开头"))
				c.Abort()
				return
			}
		} else if strings.Contains(c.Request.URL.Path, "/ws/") {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, model.Error(401, "缺少Authorization Header"))
			c.Abort()
			return
		}

		claims, err := authService.ParseToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, model.Error(401, "Token无效或已过期"))
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireRole 角色检查中间件，必须在 AuthMiddleware 之后使用
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(c *gin.Context) {
		role := c.GetString("role")
		if !allowed[role] {
			c.JSON(http.StatusForbidden, model.Error(403, "没有权限执行此操作"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserID 从上下文取当前用户ID，由 AuthMiddleware 写入
func CurrentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// IsAdminRole 当前用户是否为管理类角色（admin 或 hr）
func IsAdminRole(c *gin.Context) bool {
	role := c.GetString("role")
	return role == "admin" || role == "hr"
}
