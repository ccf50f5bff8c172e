package statistics

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "pankha"

	EndpointPathMetrics = "/metrics"
)

func Register(collector prometheus.Collector) {
	prometheus.MustRegister(collector)
}

// CreateStatisticsService returns a webserver exposing all metrics of the given gatherer
func CreateStatisticsService(gatherer prometheus.Gatherer) *echo.Echo {
	server := echo.New()
	server.HideBanner = true
	server.HidePort = true

	server.Use(middleware.Recover())

	server.GET(EndpointPathMetrics, echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: gatherer,
	}))

	return server
}
