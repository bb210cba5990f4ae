package statistics

import (
	"github.com/markusressel/fanner/internal/controller"
	"github.com/prometheus/client_golang/prometheus"
)

const controllerSubsystem = "controller"

type ControllerCollector struct {
	controllers []controller.FanController

	current     *prometheus.Desc
	target      *prometheus.Desc
	sample      *prometheus.Desc
	iterations  *prometheus.Desc
	writeErrors *prometheus.Desc
}

func NewControllerCollector(controllers []controller.FanController) *ControllerCollector {
	return &ControllerCollector{
		controllers: controllers,
		current: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "duty_current"),
			"Duty cycle last written by this controller",
			[]string{"id", "fan"}, nil,
		),
		target: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "duty_target"),
			"Duty cycle the controller is ramping towards",
			[]string{"id", "fan"}, nil,
		),
		sample: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "sample"),
			"Raw sample used in the last iteration",
			[]string{"id", "sensor"}, nil,
		),
		iterations: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "iterations_total"),
			"Number of completed control loop iterations",
			[]string{"id"}, nil,
		),
		writeErrors: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "write_errors_total"),
			"Number of failed duty cycle writes",
			[]string{"id", "fan"}, nil,
		),
	}
}

func (collector *ControllerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.current
	ch <- collector.target
	ch <- collector.sample
	ch <- collector.iterations
	ch <- collector.writeErrors
}

// Collect implements required collect function for all prometheus collectors
func (collector *ControllerCollector) Collect(ch chan<- prometheus.Metric) {
	for _, contr := range collector.controllers {
		id := contr.GetId()
		config := contr.GetConfig()
		snapshot := contr.GetSnapshot()
		ch <- prometheus.MustNewConstMetric(collector.current, prometheus.GaugeValue, float64(snapshot.Current), id, config.Fan)
		ch <- prometheus.MustNewConstMetric(collector.target, prometheus.GaugeValue, float64(snapshot.Target), id, config.Fan)
		ch <- prometheus.MustNewConstMetric(collector.sample, prometheus.GaugeValue, float64(snapshot.Sample), id, config.Sensor)
		ch <- prometheus.MustNewConstMetric(collector.iterations, prometheus.CounterValue, float64(snapshot.Iterations), id)
		ch <- prometheus.MustNewConstMetric(collector.writeErrors, prometheus.CounterValue, float64(snapshot.WriteErrors), id, config.Fan)
	}
}
