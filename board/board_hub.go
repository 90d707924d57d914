// Package board pushes live events to the staff board over websockets, so the
// stand screen updates without polling.
package board

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/qahs/toast-board/models"
	"github.com/qahs/toast-board/utils"
)

// Event types
const (
	EventOrderPlaced        = "order_placed"
	EventOrderServed        = "order_served"
	EventOrderTakingToggled = "order_taking_toggled"
	EventReadyTimeUpdated   = "ready_time_updated"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds all connected board clients (staff, admin).
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var boardHub = Hub{
	clients: make(map[*websocket.Conn]string),
}

func RegisterClient(conn *websocket.Conn, role string) {
	boardHub.mutex.Lock()
	defer boardHub.mutex.Unlock()
	boardHub.clients[conn] = role
}

func UnregisterClient(conn *websocket.Conn) {
	boardHub.mutex.Lock()
	defer boardHub.mutex.Unlock()
	delete(boardHub.clients, conn)
	conn.Close()
}

func BroadcastOrderPlaced(order models.Order) {
	broadcast(Message{
		Event: EventOrderPlaced,
		Data:  order,
	})
}

func BroadcastOrderServed(orderID uint) {
	broadcast(Message{
		Event: EventOrderServed,
		Data:  map[string]interface{}{"order_id": orderID},
	})
}

func BroadcastOrderTakingToggled(newValue string) {
	broadcast(Message{
		Event: EventOrderTakingToggled,
		Data:  map[string]interface{}{"value": newValue},
	})
}

func BroadcastReadyTimeUpdated(value string) {
	broadcast(Message{
		Event: EventReadyTimeUpdated,
		Data:  map[string]interface{}{"value": value},
	})
}

// broadcast sends best effort; a client that fails to receive is dropped.
func broadcast(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("marshal board event %s: %v", msg.Event, err)
		return
	}

	boardHub.mutex.Lock()
	defer boardHub.mutex.Unlock()

	for conn := range boardHub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(boardHub.clients, conn)
			conn.Close()
		}
	}
}
