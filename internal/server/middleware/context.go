package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"github.com/gkf-project/gkf/backend/pkg/linking"
	"github.com/gkf-project/gkf/backend/pkg/store"
)

type App struct {
	Queue  *amqp091.Channel
	Linker *linking.EntityLinker
	Store  store.TripleStore
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(
	queue *amqp091.Channel,
	linkerClient *linking.EntityLinker,
	tripleStore store.TripleStore,
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			app := &App{
				Queue:  queue,
				Linker: linkerClient,
				Store:  tripleStore,
			}
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
