package statistics

import (
	"github.com/markusressel/fanner/internal/sensors"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemSensor = "sensor"

type SensorCollector struct {
	sensors    []sensors.Sensor
	sample     *prometheus.Desc
	pollCount  *prometheus.Desc
	errorCount *prometheus.Desc
}

func NewSensorCollector(sensors []sensors.Sensor) *SensorCollector {
	return &SensorCollector{
		sensors: sensors,
		sample: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "sample"),
			"Latest raw sample of the sensor",
			[]string{"id"}, nil,
		),
		pollCount: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "polls_total"),
			"Number of successful acquisitions",
			[]string{"id"}, nil,
		),
		errorCount: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "errors_total"),
			"Number of failed acquisitions",
			[]string{"id"}, nil,
		),
	}
}

func (collector *SensorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.sample
	ch <- collector.pollCount
	ch <- collector.errorCount
}

// Collect implements required collect function for all prometheus collectors
func (collector *SensorCollector) Collect(ch chan<- prometheus.Metric) {
	for _, sensor := range collector.sensors {
		sensorId := sensor.GetId()
		ch <- prometheus.MustNewConstMetric(collector.sample, prometheus.GaugeValue, float64(sensor.ReadSample()), sensorId)
		ch <- prometheus.MustNewConstMetric(collector.pollCount, prometheus.CounterValue, float64(sensor.GetPollCount()), sensorId)
		ch <- prometheus.MustNewConstMetric(collector.errorCount, prometheus.CounterValue, float64(sensor.GetErrorCount()), sensorId)
	}
}
