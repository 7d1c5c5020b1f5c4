package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fisker/zhr-backend/internal/api/handler"
	"github.com/fisker/zhr-backend/internal/api/middleware"
	"github.com/fisker/zhr-backend/internal/service"
)

// Setup 组装全部HTTP路由
func Setup(
	authHandler *handler.AuthHandler,
	configHandler *handler.ForwardingConfigHandler,
	dispatcher *handler.RequestDispatcher,
	notificationHandler *handler.NotificationHandler,
	employeeHandler *handler.EmployeeHandler,
	organizationHandler *handler.OrganizationHandler,
	authService *service.AuthService,
) *gin.Engine {
	r := gin.New()

	// 使用自定义的 recovery 中间件（打印详细错误信息）
	r.Use(middleware.RecoveryMiddleware())
	// 使用 Gin 的 Logger 中间件（记录请求日志）
	r.Use(gin.Logger())

	// 中间件
	r.Use(middleware.CORS())
	r.Use(middleware.MetricsMiddleware())

	// 公开API（不需要认证）
	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}
	}

	// 需要认证的API
	authenticated := api.Group("")
	authenticated.Use(middleware.AuthMiddleware(authService))
	{
		// 用户相关
		authenticated.GET("/auth/me", authHandler.GetCurrentUser)

		// 审批流转配置（修改仅限管理类角色）
		configs := authenticated.Group("/approval-configs")
		{
			configs.GET("", configHandler.List)
			configs.GET("/:requestType", configHandler.Get)
			configs.POST("", middleware.RequireRole("admin", "hr"), configHandler.Create)
			configs.PUT("/:requestType", middleware.RequireRole("admin", "hr"), configHandler.Update)
			configs.DELETE("/:requestType", middleware.RequireRole("admin", "hr"), configHandler.Delete)
		}

		// 请求提交与审批，六类共用同一组路由
		// 注意：/pending 必须在 /:id 之前注册，否则会被动态路由匹配
		requests := authenticated.Group("/requests/:requestType")
		{
			requests.POST("", dispatcher.Submit)
			requests.GET("", dispatcher.List)
			requests.GET("/pending", dispatcher.Pending)
			requests.GET("/:id", dispatcher.Get)
			requests.POST("/:id/approve", dispatcher.Approve)
			requests.POST("/:id/reject", dispatcher.Reject)
		}

		// 审批收件箱（跨类型聚合）
		authenticated.GET("/approvals/inbox", dispatcher.Inbox)

		// 通知
		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
		}

		// 通知偏好
		preferences := authenticated.Group("/preferences/notifications")
		{
			preferences.GET("", notificationHandler.GetPreferences)
			preferences.PUT("", notificationHandler.UpdatePreferences)
		}

		// 员工档案（修改仅限管理类角色）
		employees := authenticated.Group("/employees")
		{
			employees.GET("", employeeHandler.List)
			employees.GET("/:id", employeeHandler.Get)
			employees.POST("", middleware.RequireRole("admin", "hr"), employeeHandler.Create)
			employees.PUT("/:id", middleware.RequireRole("admin", "hr"), employeeHandler.Update)
			employees.DELETE("/:id", middleware.RequireRole("admin", "hr"), employeeHandler.Delete)
		}

		// 部门与子部门（修改仅限管理类角色）
		departments := authenticated.Group("/departments")
		{
			departments.GET("", organizationHandler.ListDepartments)
			departments.GET("/:id", organizationHandler.GetDepartment)
			departments.POST("", middleware.RequireRole("admin", "hr"), organizationHandler.CreateDepartment)
			departments.PUT("/:id", middleware.RequireRole("admin", "hr"), organizationHandler.UpdateDepartment)
			departments.DELETE("/:id", middleware.RequireRole("admin", "hr"), organizationHandler.DeleteDepartment)
		}
		subDepartments := authenticated.Group("/sub-departments")
		{
			subDepartments.GET("", organizationHandler.ListSubDepartments)
			subDepartments.POST("", middleware.RequireRole("admin", "hr"), organizationHandler.CreateSubDepartment)
			subDepartments.PUT("/:id", middleware.RequireRole("admin", "hr"), organizationHandler.UpdateSubDepartment)
			subDepartments.DELETE("/:id", middleware.RequireRole("admin", "hr"), organizationHandler.DeleteSubDepartment)
		}

		// 通知实时推送（WebSocket 入口，token 走 query 参数）
		authenticated.GET("/ws/notifications", notificationHandler.HandleWebSocket)
	}

	// Prometheus Metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check (支持 GET 和 HEAD 方法)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"type":   "api-server",
		})
	})
	r.HEAD("/health", func(c *gin.Context) {
		c.Status(200)
	})

	// 静态文件由 Nginx 处理，后端不需要提供静态文件服务
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "The requested resource was not found.",
		})
	})

	return r
}
