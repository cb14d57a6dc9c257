package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, userMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	// === Routes acting on behalf of the X-Sharer-User-Id caller ===
	group.Use(userMiddleware)
	{
		group.POST("", h.Create)
		group.GET("", h.ListForBooker)
		group.GET("/owner", h.ListForOwner)
		group.GET("/:id", h.Get)
		group.PATCH("/:id", h.Decide)
	}
}
