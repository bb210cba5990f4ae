package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/fanner/internal/configuration"
	"github.com/markusressel/fanner/internal/fans"
	"github.com/markusressel/fanner/internal/util"
	"github.com/qdm12/reprint"
)

type FanDto struct {
	Id     string                  `json:"id"`
	Config configuration.FanConfig `json:"config"`
	Duty   uint8                   `json:"duty"`
}

func registerFanEndpoints(rest *echo.Echo) {
	group := rest.Group("/fan")

	group.GET("/", getFans)
	group.GET("/:"+urlParamId+"/", getFan)
}

func newFanDto(fan fans.Fan) FanDto {
	return FanDto{
		Id:     fan.GetId(),
		Config: reprint.This(fan.GetConfig()).(configuration.FanConfig),
		Duty:   fan.GetDuty(),
	}
}

// returns a list of all currently configured fans
func getFans(c echo.Context) error {
	items := fans.FanMap.Items()
	data := []FanDto{}
	for _, id := range util.SortedKeys(items) {
		data = append(data, newFanDto(items[id]))
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getFan(c echo.Context) error {
	id := c.Param(urlParamId)
	fan, exists := fans.FanMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, newFanDto(fan), indentationChar)
}
