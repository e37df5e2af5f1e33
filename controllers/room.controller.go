package controllers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/mayankbisht-tech/excelidraw/realtime"
	"github.com/mayankbisht-tech/excelidraw/services"
	"github.com/mayankbisht-tech/excelidraw/shared"
)

type RoomController struct {
	roomService  *services.RoomService
	shapeService *services.ShapeService
	registry     *realtime.Registry
}

func NewRoomController(
	roomService *services.RoomService,
	shapeService *services.ShapeService,
	registry *realtime.Registry,
) *RoomController {
	return &RoomController{
		roomService:  roomService,
		shapeService: shapeService,
		registry:     registry,
	}
}

func (rc *RoomController) CreateRoom(c *fiber.Ctx) error {
	room, err := rc.roomService.Create()
	if err != nil {
		return shared.SendStandardResponse(
			c,
			shared.StatusInternalServerError,
			nil,
			"failed to create room",
		)
	}

	return shared.SendStandardResponse(
		c,
		shared.StatusOK,
		&map[string]interface{}{
			"room": room,
		},
		"room created successfully",
	)
}

// GetRoom serves the snapshot read path: the full current shape set of a
// room, flattened. Unknown rooms are empty rooms, never a 404.
func (rc *RoomController) GetRoom(c *fiber.Ctx) error {
	shapes, err := rc.shapeService.Snapshot(c.Context(), c.Params("roomId"))
	if err != nil {
		return c.Status(shared.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server error while fetching room data",
		})
	}

	return c.Status(shared.StatusOK).JSON(fiber.Map{
		"shapes": shapes,
	})
}

// SubmitShape ingests one shape mutation and echoes the submitted body
// back on success.
func (rc *RoomController) SubmitShape(c *fiber.Ctx) error {
	ack, err := rc.shapeService.Submit(c.Context(), c.Params("roomId"), c.Body())
	if err != nil {
		if shared.IsClientError(err) {
			return c.Status(shared.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		return c.Status(shared.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process shape.",
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(shared.StatusOK).Send(ack)
}

// Live upgrades to a websocket session and pumps it until disconnect. The
// session registers with the presence registry when the client sends its
// join frame; the HTTP snapshot endpoint is how it catches up afterwards.
func (rc *RoomController) Live() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := realtime.NewClient(conn, rc.registry)
		client.Run()
	})
}
