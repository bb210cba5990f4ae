package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/fanner/internal/configuration"
	"github.com/markusressel/fanner/internal/controller"
	"github.com/markusressel/fanner/internal/transfer"
	"github.com/markusressel/fanner/internal/util"
	"github.com/qdm12/reprint"
)

type ControllerDto struct {
	Id       string                         `json:"id"`
	Config   configuration.ControllerConfig `json:"config"`
	Function transfer.Function              `json:"function"`
	State    controller.Snapshot            `json:"state"`
}

func registerControllerEndpoints(rest *echo.Echo) {
	group := rest.Group("/controller")

	group.GET("/", getControllers)
	group.GET("/:"+urlParamId+"/", getController)
}

func newControllerDto(c controller.FanController) ControllerDto {
	return ControllerDto{
		Id:       c.GetId(),
		Config:   reprint.This(c.GetConfig()).(configuration.ControllerConfig),
		Function: c.GetFunction(),
		State:    c.GetSnapshot(),
	}
}

func getControllers(c echo.Context) error {
	items := controller.ControllerMap.Items()
	data := []ControllerDto{}
	for _, id := range util.SortedKeys(items) {
		data = append(data, newControllerDto(items[id]))
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getController(c echo.Context) error {
	id := c.Param(urlParamId)
	contr, exists := controller.ControllerMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, newControllerDto(contr), indentationChar)
}
