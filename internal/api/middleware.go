package api

import (
	"strings"

	"github.com/gin-contrib/cors"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
)

var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8081", // Swagger
}

// corsConfig allows the dev origins outside production and the configured
// comma-separated PROD_ORIGINS in production.
func corsConfig(isProduction bool, prodOrigins string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowOrigins = devOrigins

	if isProduction {
		var origins []string
		for _, o := range strings.Split(prodOrigins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		config.AllowOrigins = origins
		if len(origins) == 0 {
			// cors.New rejects a config with no way to allow an origin.
			config.AllowOriginFunc = func(string) bool { return false }
		}
	}

	config.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", auth.UserIDHeader}
	return config
}
