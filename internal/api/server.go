// Package api exposes the read-only HTTP telemetry endpoint on loopback.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shaicoin/shaiminer/internal/telemetry"
)

// Addr is the fixed loopback address the telemetry endpoint binds to.
const Addr = "127.0.0.1:8844"

// NewRouter builds the gin engine serving GET /stats from counters.
func NewRouter(counters *telemetry.Counters) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, counters.Snapshot())
	})

	return r
}

// Serve blocks serving the telemetry router on Addr until the server
// errors or is shut down externally.
func Serve(counters *telemetry.Counters) error {
	return NewRouter(counters).Run(Addr)
}
