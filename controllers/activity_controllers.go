package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/hostel-app/hub"
	"github.com/yeremiapane/hostel-app/middlewares"
)

type ActivityController struct {
	Hub      *hub.Hub
	upgrader websocket.Upgrader
}

// NewActivityController accepts websocket handshakes from the given origins;
// "*" or an empty list accepts any.
func NewActivityController(h *hub.Hub, origins []string) *ActivityController {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &ActivityController{
		Hub: h,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed["*"] || allowed[origin]
			},
		},
	}
}

// Recent lists the latest activity, newest first. ?limit= caps the count.
func (ac *ActivityController) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	c.JSON(http.StatusOK, ac.Hub.Recent(limit))
}

// Stream upgrades to a websocket and keeps it registered until the client
// goes away.
func (ac *ActivityController) Stream(c *gin.Context) {
	actor := middlewares.ActorFrom(c)
	if actor.UserID == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := ac.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	ac.Hub.RegisterClient(ws, string(actor.Role), actor.UserID)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	ac.Hub.UnregisterClient(ws)
}
