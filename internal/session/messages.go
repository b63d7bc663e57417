package session

import (
	"encoding/json"
	"fmt"
)

// Inbound message types on the room data channel.
const (
	MsgTypeActivity      = "activity"
	MsgTypeReadyForSanta = "ready_for_santa"
)

// Outbound message types on the room data channel.
const (
	MsgTypeActivityComplete = "activity_complete"
	MsgTypePhaseChange      = "phase_change"
)

// InboundMessage is a validated message from the child's client.
type InboundMessage struct {
	Type      string `json:"type"`
	Activity  string `json:"activity,omitempty"`
	ChildName string `json:"childName,omitempty"`
}

// ParseInbound decodes and validates a data-channel payload. Schema
// mismatches are rejected with an error rather than silently defaulted.
func ParseInbound(payload []byte) (*InboundMessage, error) {
	var msg InboundMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("malformed message: %w", err)
	}

	switch msg.Type {
	case MsgTypeActivity:
		if msg.Activity == "" {
			return nil, fmt.Errorf("activity message missing activity id")
		}
	case MsgTypeReadyForSanta:
		// No payload fields required.
	default:
		return nil, fmt.Errorf("unknown message type %q", msg.Type)
	}

	return &msg, nil
}

// ActivityComplete acknowledges one activity submission.
type ActivityComplete struct {
	Type     string `json:"type"`
	Activity string `json:"activity"`
}

// NewActivityComplete builds an acknowledgment for the given activity id.
func NewActivityComplete(activityID string) ActivityComplete {
	return ActivityComplete{Type: MsgTypeActivityComplete, Activity: activityID}
}

// PhaseChange notifies the remote party that the call entered a new phase.
type PhaseChange struct {
	Type  string `json:"type"`
	Phase string `json:"phase"`
}

// NewPhaseChange builds a phase notification.
func NewPhaseChange(phase Phase) PhaseChange {
	return PhaseChange{Type: MsgTypePhaseChange, Phase: string(phase)}
}
