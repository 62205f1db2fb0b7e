package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	_ "github.com/appforge/clientportal/docs"
	"github.com/appforge/clientportal/internal/config"
	"github.com/appforge/clientportal/internal/middleware"
	"github.com/appforge/clientportal/internal/modules/handler"
	"github.com/appforge/clientportal/internal/modules/serializer"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	Config           *config.Config
	Log              *zap.Logger
	Auth             middleware.IdentityResolver
	AuthHandler      *handler.AuthHandler
	ProjectHandler   *handler.ProjectHandler
	QuoteHandler     *handler.QuoteHandler
	UpdateHandler    *handler.UpdateHandler
	MilestoneHandler *handler.MilestoneHandler
	FeedbackHandler  *handler.FeedbackHandler
	GitHubHandler    *handler.GitHubHandler
	AdminHandler     *handler.AdminHandler
	ViewHandler      *handler.ViewHandler
	SetupHandler     *handler.SetupHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	// Initialize logger for serializer package
	serializer.SetLogger(d.Log)

	r := gin.New()
	r.Use(gin.Recovery())

	if d.Config.Telemetry.Enabled && d.Config.Telemetry.OtlpEndpoint != "" {
		r.Use(middleware.OtelTracing(d.Config.App.Name))
		r.Use(middleware.TraceID())
	}

	r.Use(middleware.ZapLogger(d.Log))
	r.Use(middleware.Metrics())

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// swagger
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	session := middleware.SessionAuth(d.Auth, d.Config.Auth.CookieName)

	// provider redirects here, outside the versioned API; a missing session
	// becomes an error redirect instead of a 401 body
	r.GET("/api/github/callback", middleware.OptionalSession(d.Auth, d.Config.Auth.CookieName), d.GitHubHandler.Callback)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/setup/status", d.SetupHandler.GetStatus)

		auth := v1.Group("/auth")
		{
			limiter := middleware.NewRateLimiter(d.Config.Auth.RateLimitRPS, d.Config.Auth.RateLimitBurst)
			auth.POST("/signup", limiter.Middleware(), d.AuthHandler.SignUp)
			auth.POST("/signin", limiter.Middleware(), d.AuthHandler.SignIn)
			auth.POST("/signout", d.AuthHandler.SignOut)
			auth.GET("/me", session, d.AuthHandler.Me)
		}

		authed := v1.Group("", session)

		project := authed.Group("/project")
		{
			project.GET("", d.ProjectHandler.ListProjects)
			project.POST("", d.ProjectHandler.CreateProject)
			project.GET("/summary", d.ProjectHandler.GetSummary)

			project.GET("/:project_id", d.ProjectHandler.GetProject)
			project.PUT("/:project_id", d.ProjectHandler.UpdateProject)
			project.DELETE("/:project_id", d.ProjectHandler.DeleteProject)

			project.POST("/:project_id/quote", d.QuoteHandler.CreateQuote)
			project.POST("/:project_id/update", d.UpdateHandler.CreateUpdate)
			project.POST("/:project_id/milestone", d.MilestoneHandler.CreateMilestone)
			project.POST("/:project_id/feedback", d.FeedbackHandler.CreateFeedback)

			gh := project.Group("/:project_id/github")
			{
				gh.GET("", d.GitHubHandler.GetBundle)
				gh.POST("/connect", d.GitHubHandler.ConnectRepository)
				gh.POST("/disconnect", d.GitHubHandler.DisconnectRepository)
			}
		}

		authed.PUT("/quote/:quote_id", d.QuoteHandler.UpdateQuote)
		authed.PUT("/milestone/:milestone_id", d.MilestoneHandler.UpdateMilestone)

		github := authed.Group("/github")
		{
			github.GET("/authorize", d.GitHubHandler.Authorize)
			github.GET("/token", d.GitHubHandler.GetTokenStatus)
			github.DELETE("/token", d.GitHubHandler.RevokeToken)
		}

		authed.GET("/view/stale", d.ViewHandler.GetStale)

		admin := authed.Group("/admin", middleware.RequireAdmin())
		{
			admin.GET("/stats", d.AdminHandler.GetStats)

			admin.GET("/project", d.AdminHandler.ListProjects)
			admin.GET("/project/:project_id", d.AdminHandler.GetProject)
			admin.PUT("/project/:project_id", d.AdminHandler.UpdateProject)
			admin.DELETE("/project/:project_id", d.AdminHandler.DeleteProject)
			admin.POST("/project/:project_id/quote", d.AdminHandler.CreateQuote)
			admin.POST("/project/:project_id/update", d.AdminHandler.CreateUpdate)
			admin.POST("/project/:project_id/milestone", d.AdminHandler.CreateMilestone)

			admin.PUT("/milestone/:milestone_id", d.AdminHandler.UpdateMilestone)

			admin.GET("/user", d.AdminHandler.ListUsers)
			admin.PUT("/user/:user_id/role", d.AdminHandler.UpdateUserRole)
		}
	}
	return r
}
