package session

import (
	"encoding/json"
	"fmt"
)

// Default metadata values used when no source supplies a field.
const (
	DefaultChildName    = "friend"
	DefaultGender       = "child"
	DefaultRelationship = "family"
)

// Metadata describes the child and call, read once at session start.
type Metadata struct {
	ChildName    string `json:"child_name"`
	Gender       string `json:"gender"`
	Relationship string `json:"relationship"`
	CallID       string `json:"call_id"`
	LetterID     string `json:"letter_id"`
	AgentType    string `json:"agent_type"`
	AgentName    string `json:"agent_name"`
}

// ParseMetadata builds session metadata from the room-level and
// participant-level JSON blobs. The first non-empty source wins, room level
// preferred; parse failures fall through to the next source. Missing fields
// get defaults.
func ParseMetadata(roomMeta, participantMeta string) (Metadata, error) {
	var meta Metadata
	var parseErr error

	for _, raw := range []string{roomMeta, participantMeta} {
		if raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			parseErr = fmt.Errorf("malformed metadata: %w", err)
			meta = Metadata{}
			continue
		}
		parseErr = nil
		break
	}

	if meta.ChildName == "" {
		meta.ChildName = DefaultChildName
	}
	if meta.Gender == "" {
		meta.Gender = DefaultGender
	}
	if meta.Relationship == "" {
		meta.Relationship = DefaultRelationship
	}

	return meta, parseErr
}
