package session

import "strings"

const agentIdentifier = "call-santa"

// Admit decides whether the agent should take a call. A call is accepted
// when the metadata tags it as a santa call, or when the room name itself
// contains "santa" (case-insensitive).
func Admit(meta Metadata, roomName string) bool {
	if strings.EqualFold(meta.AgentType, "santa") {
		return true
	}
	if meta.AgentName == agentIdentifier {
		return true
	}
	return strings.Contains(strings.ToLower(roomName), "santa")
}
