package requests

import "encoding/json"

// Base request types.
const (
	TypeStop = "Stop"
	TypeBus  = "Bus"
)

// Stat request types.
const (
	StatBus   = "Bus"
	StatStop  = "Stop"
	StatRoute = "Route"
	StatMap   = "Map"
)

// Document is the whole request document.
type Document struct {
	SerializationSettings *SerializationSettings `json:"serialization_settings,omitempty"`
	RoutingSettings       *RoutingSettings       `json:"routing_settings,omitempty"`
	RenderSettings        json.RawMessage        `json:"render_settings,omitempty"`
	BaseRequests          []BaseRequest          `json:"base_requests" validate:"dive"`
	StatRequests          []StatRequest          `json:"stat_requests" validate:"dive"`
}

// SerializationSettings names the snapshot the document builds or reads.
type SerializationSettings struct {
	File string `json:"file" validate:"required"`
}

// RoutingSettings is the wait and velocity pair of the routing cost model.
type RoutingSettings struct {
	BusWaitTime uint32 `json:"bus_wait_time" validate:"min=1,max=1000"`
	BusVelocity uint32 `json:"bus_velocity" validate:"min=1,max=1000"`
}

// BaseRequest describes a stop or a bus. Fields not used by its type are
// ignored.
type BaseRequest struct {
	Type string `json:"type" validate:"required,oneof=Stop Bus"`
	Name string `json:"name" validate:"required"`

	// Stop
	Latitude      float64            `json:"latitude" validate:"min=-90,max=90"`
	Longitude     float64            `json:"longitude" validate:"min=-180,max=180"`
	RoadDistances map[string]float64 `json:"road_distances,omitempty" validate:"dive,keys,required,endkeys,min=0"`

	// Bus
	Stops       []string `json:"stops,omitempty" validate:"dive,required"`
	IsRoundtrip bool     `json:"is_roundtrip"`
}

// StatRequest is one query. Bus, Stop and Map requests use Name; Route
// requests use From and To.
type StatRequest struct {
	ID   int    `json:"id"`
	Type string `json:"type" validate:"required,oneof=Bus Stop Route Map"`
	Name string `json:"name,omitempty"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}
