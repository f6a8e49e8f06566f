// Package metrics содержит prometheus-метрики API и воркера.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "workwhiz"

// Metrics - коллекторы процесса. Методы безопасны для nil.
type Metrics struct {
	// Исходы валидации по схеме
	ValidationTotal *prometheus.CounterVec
	// Длительность валидации по схеме
	ValidationDuration *prometheus.HistogramVec
	// Обработанные email-задачи по шаблону и статусу
	EmailJobs *prometheus.CounterVec
	// HTTP-запросы по маршруту и коду
	HTTPRequests *prometheus.CounterVec
	// Длина очередей
	QueueDepth *prometheus.GaugeVec

	registry *prometheus.Registry
}

// New регистрирует метрики в собственном реестре вместе с go/process коллекторами.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(reg)
	return &Metrics{
		ValidationTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_total",
			Help:      "Validations by schema kind and outcome",
		}, []string{"kind", "outcome"}),

		ValidationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_duration_seconds",
			Help:      "Duration of schema validation",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"kind"}),

		EmailJobs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "email_jobs_total",
			Help:      "Email jobs by template and status",
		}, []string{"template", "status"}), // status: enqueued, sent, retried, failed

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		QueueDepth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Number of jobs per queue state",
		}, []string{"state"}),

		registry: reg,
	}
}

// ObserveValidation учитывает результат валидации.
func (m *Metrics) ObserveValidation(kind string, valid bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "invalid"
	if valid {
		outcome = "valid"
	}
	m.ValidationTotal.WithLabelValues(kind, outcome).Inc()
	m.ValidationDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// IncEmailJob учитывает изменение состояния email-задачи.
func (m *Metrics) IncEmailJob(template, status string) {
	if m != nil {
		m.EmailJobs.WithLabelValues(template, status).Inc()
	}
}

// IncHTTPRequest учитывает HTTP-запрос.
func (m *Metrics) IncHTTPRequest(method, route string, status int) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	}
}

// SetQueueDepth сохраняет длину очереди.
func (m *Metrics) SetQueueDepth(state string, n int64) {
	if m != nil {
		m.QueueDepth.WithLabelValues(state).Set(float64(n))
	}
}

// Gatherer возвращает реестр метрик.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Handler отдает метрики в формате prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
