package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/san-kum/orrery/internal/physics"
)

// Collector exports the state of a running simulation to Prometheus. It
// implements sim.Observer and owns its registry, so several collectors can
// coexist in one process.
type Collector struct {
	registry *prometheus.Registry

	ticks        prometheus.Counter
	simDays      prometheus.Gauge
	totalEnergy  prometheus.Gauge
	bodySpeed    *prometheus.GaugeVec
	bodyDistance *prometheus.GaugeVec
	tickDuration prometheus.Histogram
	clients      prometheus.Gauge
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orrery_ticks_total",
			Help: "Number of completed simulation ticks",
		}),
		simDays: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orrery_simulated_days",
			Help: "Elapsed simulated time in days",
		}),
		totalEnergy: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orrery_total_energy_joules",
			Help: "Kinetic plus potential energy of the system",
		}),
		bodySpeed: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "orrery_body_speed_meters_per_second",
				Help: "Speed of each body",
			},
			[]string{"body"},
		),
		bodyDistance: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "orrery_body_distance_au",
				Help: "Distance of each body from the system center of mass",
			},
			[]string{"body"},
		),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "orrery_tick_duration_seconds",
			Help:    "Wall time spent computing one tick",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orrery_stream_clients",
			Help: "Connected snapshot stream clients",
		}),
	}

	c.registry.MustRegister(
		c.ticks,
		c.simDays,
		c.totalEnergy,
		c.bodySpeed,
		c.bodyDistance,
		c.tickDuration,
		c.clients,
	)
	return c
}

func (c *Collector) OnTick(tick int, t float64, bodies []*physics.Body) {
	c.ticks.Inc()
	c.simDays.Set(t / physics.Day)
	c.totalEnergy.Set(physics.TotalEnergy(bodies))

	com := physics.CenterOfMass(bodies)
	for _, b := range bodies {
		name := bodyLabel(b)
		c.bodySpeed.WithLabelValues(name).Set(b.Speed())
		c.bodyDistance.WithLabelValues(name).Set(b.Position.Sub(com).Len() / physics.AU)
	}
}

// RecordTickDuration observes the wall time of one tick.
func (c *Collector) RecordTickDuration(d time.Duration) {
	c.tickDuration.Observe(d.Seconds())
}

func (c *Collector) ClientConnected()    { c.clients.Inc() }
func (c *Collector) ClientDisconnected() { c.clients.Dec() }

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func bodyLabel(b *physics.Body) string {
	if b.Name != "" {
		return b.Name
	}
	return "body" + strconv.Itoa(b.Index)
}
