package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/shareit-backend/internal/booking/http"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	itemHttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	itemRequestHttp "github.com/nekogravitycat/shareit-backend/internal/itemrequest/http"
	"github.com/nekogravitycat/shareit-backend/internal/logging"
	"github.com/nekogravitycat/shareit-backend/internal/metrics"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/user"
	userHttp "github.com/nekogravitycat/shareit-backend/internal/user/http"
)

type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       zerolog.Logger
	Clock        clock.Clock

	UserService        user.Service
	ItemService        item.Service
	BookingService     booking.Service
	ItemRequestService itemrequest.Service
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (logging, recovery, metrics, CORS) and registers routes for each module.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - logging: attaches a request logger to the context and writes an access log line.
	// - Recovery: captures panics and returns a 500 error.
	// - metrics: counts requests per matched route.
	r.Use(logging.Middleware(cfg.Logger), gin.Recovery(), metrics.Middleware())
	r.Use(cors.New(corsConfig(cfg.IsProduction, cfg.ProdOrigins)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	userMiddleware := auth.UserRequired()

	userHandler := userHttp.NewHandler(cfg.UserService)
	itemHandler := itemHttp.NewHandler(cfg.ItemService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.Clock)
	itemRequestHandler := itemRequestHttp.NewHandler(cfg.ItemRequestService)

	root := r.Group("")
	{
		userHttp.RegisterRoutes(root, userHandler)
		itemHttp.RegisterRoutes(root, itemHandler, userMiddleware)
		bookingHttp.RegisterRoutes(root, bookingHandler, userMiddleware)
		itemRequestHttp.RegisterRoutes(root, itemRequestHandler, userMiddleware)
	}

	return r
}
