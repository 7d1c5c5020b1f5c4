package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/fisker/zhr-backend/internal/model"
	"github.com/fisker/zhr-backend/pkg/logger"
)

// RecoveryMiddleware 错误恢复中间件，带请求上下文的panic日志
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("%v", recovered)
		}

		fullURL := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			fullURL = fmt.Sprintf("%s?%s", fullURL, c.Request.URL.RawQuery)
		}

		logger.Errorf("Panic recovered: %v\nMethod: %s\nURL: %s\nClientIP: %s\nUser: %s\nStack:\n%s",
			err, c.Request.Method, fullURL, c.ClientIP(), c.GetString("username"), debug.Stack())

		c.JSON(http.StatusInternalServerError, model.Error(500, "服务器内部错误"))
		c.Abort()
	})
}
