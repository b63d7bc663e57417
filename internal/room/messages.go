package room

import "encoding/json"

// Wire event types on the room WebSocket.
const (
	EventJoin  = "join"
	EventData  = "data"
	EventAudio = "audio"
	EventLeave = "leave"
)

// Audio encodings a client may negotiate at join.
const (
	EncodingLinear16 = "linear16"
	EncodingPCMU     = "pcmu" // G.711 µ-law at 8kHz, SIP bridge clients
)

// Event is one message on the room WebSocket, either direction.
type Event struct {
	Event string `json:"event"`

	// Join fields.
	Room                string `json:"room,omitempty"`
	RoomMetadata        string `json:"roomMetadata,omitempty"`
	ParticipantMetadata string `json:"participantMetadata,omitempty"`
	Encoding            string `json:"encoding,omitempty"`

	// Data carries an inbound or outbound structured message.
	Data json.RawMessage `json:"data,omitempty"`

	// Payload carries base64 audio for audio events.
	Payload string `json:"payload,omitempty"`
}

// mediaEvent builds an outbound audio event.
func mediaEvent(base64Audio string) Event {
	return Event{Event: EventAudio, Payload: base64Audio}
}

// dataEvent wraps a structured message for the data channel.
func dataEvent(payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Event: EventData, Data: raw}, nil
}
