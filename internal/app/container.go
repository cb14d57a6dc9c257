package app

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/api"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Logger       zerolog.Logger
	Clock        clock.Clock
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router *gin.Engine
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.System()
	}

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo)

	// Booking storage is shared: items read booking history from it
	// and the booking service looks items up through the item service.
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)

	// Item Module
	itemRepo := item.NewPgxRepository(cfg.DBPool)
	itemService := item.NewService(itemRepo, userService, bookingRepo, clk)

	// Booking Module
	bookingService := booking.NewService(bookingRepo, userService, itemService, clk)

	// Item Request Module
	requestRepo := itemrequest.NewPgxRepository(cfg.DBPool)
	requestService := itemrequest.NewService(requestRepo, userService, itemService)

	router := api.NewRouter(api.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		Logger:             cfg.Logger,
		Clock:              clk,
		UserService:        userService,
		ItemService:        itemService,
		BookingService:     bookingService,
		ItemRequestService: requestService,
	})

	return &Container{Router: router}
}
