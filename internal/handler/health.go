package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is a liveness endpoint used by load balancers and monitoring
// systems.  It does not touch the upstream API or the stores.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
