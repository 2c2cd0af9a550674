package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Connection pool
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec
	DBQueryDuration   *prometheus.HistogramVec
	DBErrorsTotal     *prometheus.CounterVec

	// Бронирования
	ReservationsTotal     *prometheus.CounterVec
	LockWaitDuration      *prometheus.HistogramVec
	ConsistencyViolations *prometheus.CounterVec

	serviceName string
}

// New регистрирует метрики в переданном registerer
func New(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		serviceName: serviceName,

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		DBOpenConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),

		DBInUse: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),

		DBIdle: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),

		DBWaitCount: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database call latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),

		DBErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "db_errors_total",
			Help: "Total number of failed database calls",
		}, []string{"service", "operation"}),

		ReservationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reservations_total",
			Help: "Book and cancel attempts by outcome",
		}, []string{"service", "operation", "outcome"}),

		LockWaitDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "slot_lock_wait_seconds",
			Help:    "Time spent waiting for a per-slot lock",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .25, .5, 1, 2.5},
		}, []string{"service", "driver", "result"}),

		ConsistencyViolations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "slot_consistency_violations_total",
			Help: "Detected mismatches between booked_count and confirmed bookings",
		}, []string{"service", "source"}),
	}
}

// ObserveHTTPRequest фиксирует обработанный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// ObserveDBCall фиксирует обращение к БД
func (m *Metrics) ObserveDBCall(operation string, duration time.Duration, err error) {
	m.DBQueryDuration.WithLabelValues(m.serviceName, operation).Observe(duration.Seconds())
	if err != nil {
		m.DBErrorsTotal.WithLabelValues(m.serviceName, operation).Inc()
	}
}

// ObserveReservation фиксирует исход операции бронирования или отмены
func (m *Metrics) ObserveReservation(operation, outcome string) {
	m.ReservationsTotal.WithLabelValues(m.serviceName, operation, outcome).Inc()
}

// ObserveLockWait фиксирует время ожидания блокировки слота
func (m *Metrics) ObserveLockWait(driver string, acquired bool, duration time.Duration) {
	result := "acquired"
	if !acquired {
		result = "failed"
	}
	m.LockWaitDuration.WithLabelValues(m.serviceName, driver, result).Observe(duration.Seconds())
}

// IncConsistencyViolation фиксирует обнаруженное расхождение счётчика
func (m *Metrics) IncConsistencyViolation(source string) {
	m.ConsistencyViolations.WithLabelValues(m.serviceName, source).Inc()
}

// ObservePool обновляет метрики connection pool
func (m *Metrics) ObservePool(stats sql.DBStats) {
	m.DBOpenConnections.WithLabelValues(m.serviceName).Set(float64(stats.OpenConnections))
	m.DBInUse.WithLabelValues(m.serviceName).Set(float64(stats.InUse))
	m.DBIdle.WithLabelValues(m.serviceName).Set(float64(stats.Idle))
	m.DBWaitCount.WithLabelValues(m.serviceName).Set(float64(stats.WaitCount))
}
