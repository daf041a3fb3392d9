package bootstrap

import "github.com/gin-gonic/gin"

// SetGinMode silences gin's per-route debug output in production.
// Every other environment keeps the default debug mode.
func SetGinMode(env string) {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}
