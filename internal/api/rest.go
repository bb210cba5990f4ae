package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const EndpointPathAlive = "/alive/"

// CreateRestService creates the read-only REST interface of the daemon
func CreateRestService() *echo.Echo {
	echoRest := echo.New()
	echoRest.HideBanner = true
	echoRest.HidePort = true

	// Root level middleware
	echoRest.Pre(middleware.AddTrailingSlash())

	echoRest.Use(middleware.Secure())
	echoRest.Use(middleware.Recover())

	echoRest.GET(EndpointPathAlive, isAlive)
	echoRest.GET("/metrics/", echoprometheus.NewHandler())

	registerControllerEndpoints(echoRest)
	registerFanEndpoints(echoRest)
	registerSensorEndpoints(echoRest)

	return echoRest
}

// returns an empty "ok" answer
func isAlive(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}
