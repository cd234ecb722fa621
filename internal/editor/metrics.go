package editor

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// NodesAdded counts add-child actions.
	NodesAdded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "blockchart_nodes_added_total",
			Help: "Total number of nodes added to the canvas",
		},
	)

	// NodeMoves counts applied position updates by source (drag|drop|direct).
	NodeMoves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockchart_node_moves_total",
			Help: "Total number of applied node position updates",
		},
		[]string{"source"},
	)

	// DropsIgnored counts drops whose node id could not be resolved.
	DropsIgnored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "blockchart_drops_ignored_total",
			Help: "Total number of drops that matched no node",
		},
	)

	// Nodes tracks the size of the most recently mutated canvas.
	Nodes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "blockchart_nodes",
			Help: "Current number of nodes on the canvas",
		},
	)
)

func init() {
	prometheus.MustRegister(NodesAdded)
	prometheus.MustRegister(NodeMoves)
	prometheus.MustRegister(DropsIgnored)
	prometheus.MustRegister(Nodes)
}
