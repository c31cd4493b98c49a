package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор метрик сервиса
type Metrics struct {
	serviceName string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBConnections   *prometheus.GaugeVec

	BookingsCreated   *prometheus.CounterVec
	CapacityExceeded  prometheus.Counter
	StatusTransitions *prometheus.CounterVec
	DegradedMode      *prometheus.CounterVec
}

// New создает метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в указанном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		serviceName: serviceName,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: prometheus.Labels{"service": serviceName},
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: prometheus.Labels{"service": serviceName},
			Buckets:     []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "path"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: prometheus.Labels{"service": serviceName},
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: prometheus.Labels{"service": serviceName},
		}, []string{"operation"}),
		DBConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: prometheus.Labels{"service": serviceName},
		}, []string{"state"}),
		BookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Total number of bookings written to a ledger",
			ConstLabels: prometheus.Labels{"service": serviceName},
		}, []string{"status", "provisional"}),
		CapacityExceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "bookings_capacity_exceeded_total",
			Help:        "Total number of booking attempts rejected because the slot was full",
			ConstLabels: prometheus.Labels{"service": serviceName},
		}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_status_transitions_total",
			Help:        "Total number of booking status transitions",
			ConstLabels: prometheus.Labels{"service": serviceName},
		}, []string{"from", "to"}),
		DegradedMode: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "degraded_mode_total",
			Help:        "Total number of responses served from fallback data",
			ConstLabels: prometheus.Labels{"service": serviceName},
		}, []string{"component"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBConnections,
		m.BookingsCreated,
		m.CapacityExceeded,
		m.StatusTransitions,
		m.DegradedMode,
	)

	return m
}

// ServiceName возвращает имя сервиса, с которым созданы метрики
func (m *Metrics) ServiceName() string {
	return m.serviceName
}

// ObserveHTTPRequest записывает результат HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery записывает длительность и результат запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil && err != sql.ErrNoRows {
		m.DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetDBStats обновляет метрики пула соединений
func (m *Metrics) SetDBStats(stats sql.DBStats) {
	m.DBConnections.WithLabelValues("open").Set(float64(stats.OpenConnections))
	m.DBConnections.WithLabelValues("in_use").Set(float64(stats.InUse))
	m.DBConnections.WithLabelValues("idle").Set(float64(stats.Idle))
}

// IncBookingCreated учитывает созданное бронирование
func (m *Metrics) IncBookingCreated(status string, provisional bool) {
	m.BookingsCreated.WithLabelValues(status, strconv.FormatBool(provisional)).Inc()
}

// IncCapacityExceeded учитывает отказ по вместимости слота
func (m *Metrics) IncCapacityExceeded() {
	m.CapacityExceeded.Inc()
}

// IncStatusTransition учитывает смену статуса бронирования
func (m *Metrics) IncStatusTransition(from, to string) {
	m.StatusTransitions.WithLabelValues(from, to).Inc()
}

// IncDegraded учитывает ответ из резервных данных
func (m *Metrics) IncDegraded(component string) {
	m.DegradedMode.WithLabelValues(component).Inc()
}
