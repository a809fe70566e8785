package handlers

import (
	"net/http"

	"ambulance/internal/domain/models"
	"ambulance/internal/http/middleware"
	"ambulance/internal/realtime"
	"ambulance/internal/services"
	"ambulance/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const msgTripCreated = "trip_created"

// StreamHandler pushes newly created trips to websocket clients.
type StreamHandler struct {
	Gateway  *services.TripGateway
	Upgrader websocket.Upgrader
}

func NewStreamHandler(gw *services.TripGateway, allowedOrigins []string) StreamHandler {
	allowed := map[string]bool{}
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return StreamHandler{
		Gateway: gw,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// Stream upgrades the request and forwards every trip_created event until
// the client disconnects, then disposes the subscription.
func (h StreamHandler) Stream(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	rid := middleware.GetRequestID(c)

	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.LogEvent(rid, "stream", "upgrade", err.Error())
		return
	}
	defer conn.Close()

	client := realtime.NewClient(userID+"/"+rid, conn)
	dispose := h.Gateway.SubscribeToTrips(func(t models.TripData) {
		client.Enqueue(msgTripCreated, t)
	})
	defer dispose()

	utils.LogEvent(rid, "stream", "connect", "user_id="+userID)
	go client.WritePump()
	client.ReadPump()
	utils.LogEvent(rid, "stream", "disconnect", "user_id="+userID)
}
