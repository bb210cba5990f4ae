package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/fanner/internal/configuration"
	"github.com/markusressel/fanner/internal/sensors"
	"github.com/markusressel/fanner/internal/util"
	"github.com/qdm12/reprint"
)

type SensorDto struct {
	Id          string                     `json:"id"`
	Config      configuration.SensorConfig `json:"config"`
	Sample      uint8                      `json:"sample"`
	Temperature float64                    `json:"temperature"`
	PollCount   uint64                     `json:"pollCount"`
	ErrorCount  uint64                     `json:"errorCount"`
}

func registerSensorEndpoints(rest *echo.Echo) {
	group := rest.Group("/sensor")

	group.GET("/", getSensors)
	group.GET("/:"+urlParamId+"/", getSensor)
}

func newSensorDto(sensor sensors.Sensor) SensorDto {
	config := reprint.This(sensor.GetConfig()).(configuration.SensorConfig)
	sample := sensor.ReadSample()
	return SensorDto{
		Id:          sensor.GetId(),
		Config:      config,
		Sample:      sample,
		Temperature: config.GetFrontend().TemperatureForSample(sample),
		PollCount:   sensor.GetPollCount(),
		ErrorCount:  sensor.GetErrorCount(),
	}
}

func getSensors(c echo.Context) error {
	items := sensors.SensorMap.Items()
	data := []SensorDto{}
	for _, id := range util.SortedKeys(items) {
		data = append(data, newSensorDto(items[id]))
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getSensor(c echo.Context) error {
	id := c.Param(urlParamId)

	sensor, exists := sensors.SensorMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, newSensorDto(sensor), indentationChar)
}
