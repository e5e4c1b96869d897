package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/trisuaso/beambin/internal/config"
	"github.com/trisuaso/beambin/internal/identity"
	"github.com/trisuaso/beambin/internal/model"
	"github.com/trisuaso/beambin/internal/service"
)

type Handler struct {
	services *service.Service
	identity identity.Service
	cfg      *config.Config
}

func New(services *service.Service, identityService identity.Service, cfg *config.Config) *Handler {
	return &Handler{
		services: services,
		identity: identityService,
		cfg:      cfg,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{viper.GetString("client.origin")},
		AllowMethods:     []string{"POST", "GET"},
		AllowCredentials: true,
	}))

	v1 := r.Group("/api/v1")
	{
		posts := v1.Group("/posts")
		{
			posts.POST("", h.postsCreate)
			posts.POST("/clone", h.postsClone)

			post := posts.Group("/:slug")
			{
				post.GET("", h.postsGet)
				post.POST("/edit", h.notRequiredAuthMiddleware, h.postsEdit)
				post.POST("/context", h.notRequiredAuthMiddleware, h.postsEditContext)
				post.POST("/delete", h.notRequiredAuthMiddleware, h.postsDelete)
				post.GET("/views", h.postsViews)
				post.POST("/views", h.notRequiredAuthMiddleware, h.postsRecordView)
			}
		}
	}

	return r
}

func (h *Handler) getProfileFromRequest(c *gin.Context) *model.Profile {
	profileReq, _ := c.Get("profile")

	profile, ok := profileReq.(model.Profile)
	if !ok {
		return nil
	}

	return &profile
}

// realIP reads the configured forwarded-for header, falling back to the
// transport remote address.
func (h *Handler) realIP(c *gin.Context) string {
	if h.cfg.RealIPHeader != "" {
		if ip := c.GetHeader(h.cfg.RealIPHeader); ip != "" {
			return ip
		}
		return ""
	}

	return c.ClientIP()
}
