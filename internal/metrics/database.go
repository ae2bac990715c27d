package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// poolStatsCollector exposes pgxpool connection stats as gauges.
type poolStatsCollector struct {
	pool *pgxpool.Pool

	acquired    *prometheus.Desc
	idle        *prometheus.Desc
	total       *prometheus.Desc
	maxConns    *prometheus.Desc
	acquireWait *prometheus.Desc
}

// RegisterPool adds database pool metrics to the registry. Call once after
// the pool is created.
func RegisterPool(pool *pgxpool.Pool) {
	Registry.MustRegister(&poolStatsCollector{
		pool: pool,
		acquired: prometheus.NewDesc(
			namespace+"_db_connections_acquired",
			"Connections currently acquired from the pool.", nil, nil),
		idle: prometheus.NewDesc(
			namespace+"_db_connections_idle",
			"Idle connections in the pool.", nil, nil),
		total: prometheus.NewDesc(
			namespace+"_db_connections_total",
			"Total connections in the pool.", nil, nil),
		maxConns: prometheus.NewDesc(
			namespace+"_db_connections_max",
			"Configured maximum pool size.", nil, nil),
		acquireWait: prometheus.NewDesc(
			namespace+"_db_acquire_wait_seconds_total",
			"Cumulative time spent waiting to acquire a connection.", nil, nil),
	})
}

func (c *poolStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquired
	ch <- c.idle
	ch <- c.total
	ch <- c.maxConns
	ch <- c.acquireWait
}

func (c *poolStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.pool.Stat()
	ch <- prometheus.MustNewConstMetric(c.acquired, prometheus.GaugeValue, float64(stats.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(stats.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(stats.TotalConns()))
	ch <- prometheus.MustNewConstMetric(c.maxConns, prometheus.GaugeValue, float64(stats.MaxConns()))
	ch <- prometheus.MustNewConstMetric(c.acquireWait, prometheus.CounterValue, stats.AcquireDuration().Seconds())
}
