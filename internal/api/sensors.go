package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/qdm12/reprint"
	"github.com/vulnx/pankha/internal/configuration"
	"github.com/vulnx/pankha/internal/monitor"
	"github.com/vulnx/pankha/internal/sensors"
)

type SensorDto struct {
	Id      string                     `json:"id"`
	Config  configuration.SensorConfig `json:"config"`
	Value   *int                       `json:"value"`
	Average *float64                   `json:"average"`
}

func registerSensorEndpoints(rest *echo.Echo) {
	group := rest.Group("/sensor")

	group.GET("/", getSensors)
	group.GET("/:"+urlParamId+"/", getSensor)
}

func createSensorDto(sensor sensors.Sensor) SensorDto {
	dto := SensorDto{
		Id:     sensor.GetId(),
		Config: reprint.This(sensor.GetConfig()).(configuration.SensorConfig),
	}
	if m, ok := monitor.SensorMonitorMap.Get(sensor.GetId()); ok {
		last := m.GetLast().Value
		if last.Available() {
			value := int(last)
			dto.Value = &value
		}
		if avg, ok := m.GetAverage(); ok {
			dto.Average = &avg
		}
	}
	return dto
}

func getSensors(c echo.Context) error {
	data := map[string]SensorDto{}
	for id, sensor := range sensors.SensorMap.Items() {
		data[id] = createSensorDto(sensor)
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getSensor(c echo.Context) error {
	id := c.Param(urlParamId)

	sensor, exists := sensors.SensorMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, createSensorDto(sensor), indentationChar)
}
