package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markusressel/fanner/internal/api"
	"github.com/markusressel/fanner/internal/configuration"
	"github.com/markusressel/fanner/internal/controller"
	"github.com/markusressel/fanner/internal/fans"
	"github.com/markusressel/fanner/internal/hwmon"
	"github.com/markusressel/fanner/internal/persistence"
	"github.com/markusressel/fanner/internal/sensors"
	"github.com/markusressel/fanner/internal/statistics"
	"github.com/markusressel/fanner/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// Objects are the runtime instances created from the configuration
type Objects struct {
	Sensors     []sensors.Sensor
	Fans        []fans.Fan
	Controllers []controller.FanController
}

func RunDaemon() {
	if os.Geteuid() != 0 {
		ui.Warning("fanner is not running as root, hardware outputs may not be writable")
	}

	pers := persistence.NewPersistence(configuration.CurrentConfig.DbPath)
	err := pers.Init()
	if err != nil {
		ui.Fatal("Unable to prepare database %s: %v", configuration.CurrentConfig.DbPath, err)
	}

	objects, err := InitializeObjects(configuration.CurrentConfig, pers, hwmon.GetChips)
	if err != nil {
		ui.Fatal("%v", err)
	}
	if len(objects.Controllers) == 0 {
		ui.Fatal("No valid controller configurations, exiting.")
	}

	statistics.Register(statistics.NewSensorCollector(objects.Sensors))
	statistics.Register(statistics.NewFanCollector(objects.Fans))
	statistics.Register(statistics.NewControllerCollector(objects.Controllers))

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	if configuration.CurrentConfig.Statistics.Enabled {
		addStatisticsServer(&g, configuration.CurrentConfig.Statistics)
	}
	if configuration.CurrentConfig.Api.Enabled {
		addApiServer(&g, configuration.CurrentConfig.Api)
	}
	AddWorkers(ctx, &g, objects)
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case <-sig:
				ui.Info("Received SIGTERM signal, exiting...")
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}

// AddWorkers adds one sensor monitor per sensor and one control loop per controller to g
func AddWorkers(ctx context.Context, g *run.Group, objects Objects) {
	{
		// === sensor monitoring
		for _, sensor := range objects.Sensors {
			s := sensor
			config := s.GetConfig()
			mon := sensors.NewSensorMonitor(s, config.GetPollingRate())

			g.Add(func() error {
				err := mon.Run(ctx)
				ui.Info("Sensor Monitor for sensor %s stopped.", s.GetId())
				return err
			}, func(err error) {
				if err != nil {
					ui.Warning("Error monitoring sensor: %v", err)
				}
			})
		}
	}
	{
		// === fan controllers
		for _, fanController := range objects.Controllers {
			c := fanController

			g.Add(func() error {
				err := c.Run(ctx)
				ui.Info("Controller %s stopped.", c.GetId())
				return err
			}, func(err error) {
				if err != nil {
					ui.Warning("Something went wrong: %v", err)
				}
			})
		}
	}
}

func addStatisticsServer(g *run.Group, config configuration.StatisticsConfig) {
	port := config.Port
	if port <= 0 || port >= 65535 {
		port = 9000
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}

	g.Add(func() error {
		ui.Info("Serving metrics on %s/metrics", server.Addr)
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("cannot start prometheus metrics endpoint: %w", err)
	}, func(err error) {
		ui.Info("Stopping statistics server...")
		timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer timeoutCancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			ui.Warning("Error stopping statistics server: %v", err)
		}
	})
}

func addApiServer(g *run.Group, config configuration.ApiConfig) {
	rest := api.CreateRestService()
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)

	g.Add(func() error {
		ui.Info("Serving REST API on %s", addr)
		err := rest.Start(addr)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("cannot start REST API: %w", err)
	}, func(err error) {
		ui.Info("Stopping REST API...")
		timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer timeoutCancel()
		if err := rest.Shutdown(timeoutCtx); err != nil {
			ui.Warning("Error stopping REST API: %v", err)
		}
	})
}

// InitializeObjects creates all sensors, fans and controllers of config and registers
// them in their registries. chips is only called if a hwmon path needs to be resolved.
func InitializeObjects(
	config configuration.Configuration,
	pers persistence.Persistence,
	chips func() []*hwmon.HwMonController,
) (Objects, error) {
	var objects Objects

	var detected []*hwmon.HwMonController
	detectChips := func() []*hwmon.HwMonController {
		if detected == nil {
			detected = chips()
		}
		return detected
	}

	for _, sensorConfig := range config.Sensors {
		if sensorConfig.HwMon != nil {
			hwMonConfig := *sensorConfig.HwMon
			if len(hwMonConfig.TempInput) <= 0 {
				if err := hwmon.ResolveSensorConfig(detectChips(), &hwMonConfig); err != nil {
					return objects, fmt.Errorf("sensor %s: %w. Run 'fanner detect' and correct the configuration", sensorConfig.ID, err)
				}
			}
			sensorConfig.HwMon = &hwMonConfig
		}

		sensor, err := sensors.NewSensor(sensorConfig)
		if err != nil {
			return objects, fmt.Errorf("unable to process sensor configuration %s: %w", sensorConfig.ID, err)
		}

		err = sensor.Poll()
		if err != nil {
			ui.Warning("Error reading sensor %s: %v", sensorConfig.ID, err)
		}

		sensors.SensorMap.Set(sensorConfig.ID, sensor)
		objects.Sensors = append(objects.Sensors, sensor)
	}

	for _, fanConfig := range config.Fans {
		if fanConfig.HwMon != nil {
			hwMonConfig := *fanConfig.HwMon
			if len(hwMonConfig.PwmOutput) <= 0 {
				if err := hwmon.ResolveFanConfig(detectChips(), &hwMonConfig); err != nil {
					return objects, fmt.Errorf("fan %s: %w. Run 'fanner detect' and correct the configuration", fanConfig.ID, err)
				}
			}
			fanConfig.HwMon = &hwMonConfig
		}

		fan, err := fans.NewFan(fanConfig)
		if err != nil {
			return objects, fmt.Errorf("unable to process fan configuration %s: %w", fanConfig.ID, err)
		}

		fans.FanMap.Set(fanConfig.ID, fan)
		objects.Fans = append(objects.Fans, fan)
	}

	for _, controllerConfig := range config.Controllers {
		sensor, ok := sensors.SensorMap.Get(controllerConfig.Sensor)
		if !ok {
			return objects, fmt.Errorf("controller %s: sensor %s not found", controllerConfig.ID, controllerConfig.Sensor)
		}
		fan, ok := fans.FanMap.Get(controllerConfig.Fan)
		if !ok {
			return objects, fmt.Errorf("controller %s: fan %s not found", controllerConfig.ID, controllerConfig.Fan)
		}

		fanController, err := controller.NewFanController(controllerConfig, pers, sensor, fan)
		if err != nil {
			return objects, err
		}

		controller.ControllerMap.Set(controllerConfig.ID, fanController)
		objects.Controllers = append(objects.Controllers, fanController)
	}

	return objects, nil
}
