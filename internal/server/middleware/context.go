package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"github.com/ethica-ai/ethica/backend/internal/storage"
	"github.com/ethica-ai/ethica/backend/pkg/dataset"
)

type App struct {
	Store  storage.Store
	Loader *dataset.Loader

	// Queue is nil when the service runs without RabbitMQ; async
	// analysis is then unavailable.
	Queue *amqp091.Channel
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
