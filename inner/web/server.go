package web

import (
	"employeeapi/inner/common"

	_ "employeeapi/docs"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// структура веб-сервера
type Server struct {
	App *fiber.App
	// группа непубличного API: health, info, metrics
	GroupInternal fiber.Router
	Metrics       *Metrics
}

// функция-конструктор
func NewServer(cfg common.Config, logger *common.Logger, registry *prometheus.Registry) *Server {
	metrics := NewMetrics(registry)

	// создаём новый веб-сервер; все ошибки обработчиков проходят через ErrorHandler
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(logger, metrics, cfg.ExposeStorageErrors),
	})

	// метрики снаружи recover: запрос с паникой тоже учитывается как 500
	app.Use(metrics.Handler())

	// Middleware для восстановления от паники
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// Middleware для добавления уникального ID к каждому запросу
	app.Use(requestid.New())

	// спан на каждый запрос; провайдер задаётся в tracing.Init
	app.Use(otelfiber.Middleware())

	// access log через zap
	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Logger,
		Fields: []string{"requestId", "method", "path", "status", "latency", "ip"},
	}))

	groupInternal := app.Group("/internal")

	// Middleware для внутренних маршрутов
	groupInternal.Use(func(c *fiber.Ctx) error {
		c.Set("X-Internal-API", "true")
		return c.Next()
	})
	groupInternal.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	registerSwagger(app)

	return &Server{
		App:           app,
		GroupInternal: groupInternal,
		Metrics:       metrics,
	}
}
