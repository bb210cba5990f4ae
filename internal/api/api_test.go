package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/markusressel/fanner/internal/configuration"
	"github.com/markusressel/fanner/internal/controller"
	"github.com/markusressel/fanner/internal/fans"
	"github.com/markusressel/fanner/internal/sensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRegistries(t *testing.T) {
	sample := 50
	sensor := sensors.NewSimulatedSensor(configuration.SensorConfig{
		ID:        "ambient",
		Simulated: &configuration.SimulatedSensorConfig{Sample: &sample},
	})
	fan := &fans.SimulatedFan{
		Config: configuration.FanConfig{ID: "case", Simulated: &configuration.SimulatedFanConfig{}},
	}
	require.NoError(t, fan.WriteDuty(100))
	contr, err := controller.NewFanController(configuration.ControllerConfig{
		ID:     "main",
		Sensor: "ambient",
		Fan:    "case",
	}, nil, sensor, fan)
	require.NoError(t, err)

	sensors.SensorMap.Set(sensor.GetId(), sensor)
	fans.FanMap.Set(fan.GetId(), fan)
	controller.ControllerMap.Set(contr.GetId(), contr)
	t.Cleanup(func() {
		sensors.SensorMap.Remove(sensor.GetId())
		fans.FanMap.Remove(fan.GetId())
		controller.ControllerMap.Remove(contr.GetId())
	})
}

func request(t *testing.T, path string) *httptest.ResponseRecorder {
	rest := CreateRestService()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	rest.ServeHTTP(rec, req)
	return rec
}

func TestIsAlive(t *testing.T) {
	// WHEN
	rec := request(t, "/alive")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetSensor(t *testing.T) {
	// GIVEN
	setupRegistries(t)

	// WHEN
	rec := request(t, "/sensor/ambient/")

	// THEN
	require.Equal(t, http.StatusOK, rec.Code)
	var dto SensorDto
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, "ambient", dto.Id)
	assert.Equal(t, uint8(50), dto.Sample)
	assert.InDelta(t, 48.04, dto.Temperature, 0.01)
}

func TestGetSensors(t *testing.T) {
	// GIVEN
	setupRegistries(t)

	// WHEN
	rec := request(t, "/sensor/")

	// THEN
	require.Equal(t, http.StatusOK, rec.Code)
	var dtos []SensorDto
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dtos))
	require.Len(t, dtos, 1)
	assert.Equal(t, "ambient", dtos[0].Id)
}

func TestGetSensorNotFound(t *testing.T) {
	// WHEN
	rec := request(t, "/sensor/missing/")

	// THEN
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var result Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "No item with id 'missing' found", result.Message)
}

func TestGetFans(t *testing.T) {
	// GIVEN
	setupRegistries(t)

	// WHEN
	rec := request(t, "/fan/")

	// THEN
	require.Equal(t, http.StatusOK, rec.Code)
	var dtos []FanDto
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dtos))
	require.Len(t, dtos, 1)
	assert.Equal(t, "case", dtos[0].Id)
	assert.Equal(t, uint8(100), dtos[0].Duty)
}

func TestGetController(t *testing.T) {
	// GIVEN
	setupRegistries(t)

	// WHEN
	rec := request(t, "/controller/main")

	// THEN
	require.Equal(t, http.StatusOK, rec.Code)
	var dto ControllerDto
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, "main", dto.Id)
	assert.Equal(t, "ambient", dto.Config.Sensor)
	assert.Equal(t, uint8(35), dto.Function.SampleLow)
	assert.Equal(t, uint8(66), dto.Function.SampleHigh)
}

func TestGetControllerNotFound(t *testing.T) {
	// WHEN
	rec := request(t, "/controller/missing/")

	// THEN
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetMetrics(t *testing.T) {
	// WHEN
	rec := request(t, "/metrics/")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
}
