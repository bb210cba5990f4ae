package statistics

import (
	"github.com/markusressel/fanner/internal/fans"
	"github.com/prometheus/client_golang/prometheus"
)

const fanSubsystem = "fan"

type FanCollector struct {
	fans []fans.Fan
	duty *prometheus.Desc
}

func NewFanCollector(fans []fans.Fan) *FanCollector {
	return &FanCollector{
		fans: fans,
		duty: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "duty"),
			"Last duty cycle successfully written to the fan",
			[]string{"id"}, nil,
		),
	}
}

func (collector *FanCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.duty
}

// Collect implements required collect function for all prometheus collectors
func (collector *FanCollector) Collect(ch chan<- prometheus.Metric) {
	for _, fan := range collector.fans {
		ch <- prometheus.MustNewConstMetric(collector.duty, prometheus.GaugeValue, float64(fan.GetDuty()), fan.GetId())
	}
}
