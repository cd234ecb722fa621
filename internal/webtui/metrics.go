package webtui

import "github.com/prometheus/client_golang/prometheus"

var Sessions = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "blockchart_webtui_sessions",
	Help: "Live browser terminal sessions.",
})

func init() {
	prometheus.MustRegister(Sessions)
}
