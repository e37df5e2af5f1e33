package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/mayankbisht-tech/excelidraw/controllers"
	"github.com/mayankbisht-tech/excelidraw/database"
	"github.com/mayankbisht-tech/excelidraw/realtime"
	"github.com/mayankbisht-tech/excelidraw/services"
	"github.com/mayankbisht-tech/excelidraw/shared"
)

func Setup(app *fiber.App, state *shared.State, registry *realtime.Registry) {
	app.Use(shared.GetRequestLoggingMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(200).JSON(fiber.Map{
			"message": "excelidraw is alive",
		})
	})

	store := database.NewShapeStore(state.Database)
	roomService := services.NewRoomService(state)
	shapeService := services.NewShapeService(store, registry)
	roomController := controllers.NewRoomController(roomService, shapeService, registry)

	app.Post("/api/room", roomController.CreateRoom)
	app.Get("/room/:roomId", roomController.GetRoom)
	app.Post("/room/:roomId", roomController.SubmitShape)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", roomController.Live())
}
