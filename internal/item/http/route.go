package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers item and comment routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, userMiddleware gin.HandlerFunc) {
	group := g.Group("/items")

	// Search does not depend on who is asking.
	group.GET("/search", h.Search)

	group.Use(userMiddleware)
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.PATCH("/:id", h.Update)
		group.POST("/:id/comment", h.Comment)
	}
}
