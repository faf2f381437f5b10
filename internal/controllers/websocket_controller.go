package controllers

import (
	"net/http"

	"inventory-system/pkg/middleware"
	appwebsocket "inventory-system/pkg/websocket"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketController struct {
	hub    *appwebsocket.Hub
	logger *zap.Logger
}

func NewWebSocketController(hub *appwebsocket.Hub, logger *zap.Logger) *WebSocketController {
	return &WebSocketController{
		hub:    hub,
		logger: logger,
	}
}

// ServeActivity подключает клиента к ленте активности. Аутентификации нет,
// клиент подписывается именем из X-User или ?user=.
func (c *WebSocketController) ServeActivity(ctx echo.Context) error {
	actor := middleware.ActorFrom(ctx)
	if user := ctx.QueryParam("user"); user != "" {
		actor = user
	}

	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		c.logger.Error("WebSocket: не удалось улучшить соединение", zap.Error(err))
		return err
	}

	client := appwebsocket.NewClient(c.hub, conn, actor)
	client.Hub.Register <- client
	c.hub.Welcome(client)

	go client.WritePump()
	go client.ReadPump()

	c.logger.Info("WebSocket: клиент подключен к ленте", zap.String("actor", actor))
	return nil
}
