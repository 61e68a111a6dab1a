package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const devFrontendOrigin = "http://localhost:5173"

// CORS allows any origin outside production. In production only the
// storefront and the local dev server may call the API.
func CORS(production bool, frontendURL string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Encoding", "Authorization", "X-Zinipay-Signature"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	if !production {
		cfg.AllowAllOrigins = true
		return cors.New(cfg)
	}

	cfg.AllowCredentials = true
	cfg.AllowOrigins = []string{devFrontendOrigin}
	if origin := strings.TrimRight(frontendURL, "/"); isHTTPOrigin(origin) && origin != devFrontendOrigin {
		cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
	}
	return cors.New(cfg)
}

func isHTTPOrigin(origin string) bool {
	return strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://")
}
