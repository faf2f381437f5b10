package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"inventory-system/pkg/contextkeys"
)

const HeaderUser = "X-User"

// Actor берет имя пользователя из заголовка X-User, иначе подставляет defaultActor.
// Аутентификации нет: заголовок используется только для подписи записей журнала.
func Actor(defaultActor string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := strings.TrimSpace(c.Request().Header.Get(HeaderUser))
			if actor == "" {
				actor = defaultActor
			}
			c.Set(string(contextkeys.ActorKey), actor)
			ctx := context.WithValue(c.Request().Context(), contextkeys.ActorKey, actor)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// ActorFrom возвращает имя пользователя, установленное мидлвэром Actor.
func ActorFrom(c echo.Context) string {
	if actor, ok := c.Get(string(contextkeys.ActorKey)).(string); ok {
		return actor
	}
	return ""
}
