package models

import (
	"time"

	"github.com/google/uuid"
)

// EventType представляет тип события
type EventType string

const (
	EventTypeRouteIssued   EventType = "route.issued"
	EventTypeRouteOpened   EventType = "route.opened"
	EventTypeRouteRejected EventType = "route.rejected"
)

// Event представляет базовое событие
type Event struct {
	ID        uuid.UUID   `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// RouteIssuedEvent представляет событие выдачи ссылки
type RouteIssuedEvent struct {
	RouteID           string    `json:"route_id"`
	TruckPlate        string    `json:"truck_plate"`
	DriverName        string    `json:"driver_name"`
	EntryGateID       int       `json:"entry_gate_id"`
	DestinationDockID int       `json:"destination_dock_id"`
	ExpiresAt         time.Time `json:"expires_at"`
}

// RouteAccessEvent представляет событие открытия ссылки водителем
type RouteAccessEvent struct {
	RouteID    string        `json:"route_id,omitempty"`
	TruckPlate string        `json:"truck_plate,omitempty"`
	Status     OpenStatus    `json:"status"`
	Reason     VerdictReason `json:"reason,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}
