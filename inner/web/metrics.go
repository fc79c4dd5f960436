package web

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics счётчики запросов и отказов хранилища
type Metrics struct {
	requestCount    *prometheus.CounterVec
	storageFailures *prometheus.CounterVec
}

// NewMetrics регистрирует счётчики в переданном реестре; повторная регистрация паникует
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests processed.",
			},
			[]string{"method", "path", "status"},
		),
		storageFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "employee_storage_failures_total",
				Help: "Total number of failed employee storage operations.",
			},
			[]string{"op"},
		),
	}
	reg.MustRegister(m.requestCount, m.storageFailures)
	return m
}

// StorageFailure учитывает упавшую операцию хранилища
func (m *Metrics) StorageFailure(op string) {
	m.storageFailures.WithLabelValues(op).Inc()
}

// Handler middleware подсчёта запросов
func (m *Metrics) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// сами метрики не считаем
		if c.Path() == "/internal/metrics" {
			return c.Next()
		}

		err := c.Next()

		// шаблон маршрута, а не реальный путь: /employee/:id вместо /employee/7
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}

		// Method и Path ссылаются на буфер запроса fasthttp, который переиспользуется;
		// в метки уходят только копии
		method := utils.CopyString(c.Method())
		path = utils.CopyString(path)

		status := c.Response().StatusCode()
		if err != nil {
			status = statusOf(err)
		}

		m.requestCount.WithLabelValues(
			method,
			path,
			strconv.Itoa(status),
		).Inc()

		return err
	}
}
