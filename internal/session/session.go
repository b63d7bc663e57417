package session

import (
	"sync"
	"time"

	"github.com/soniqlabs/callsanta-gateway/internal/script"
)

// Phase is the coarse stage of the scripted call.
type Phase string

const (
	PhaseGreeting     Phase = "greeting_and_activities"
	PhaseConversation Phase = "conversation"
	PhaseEnded        Phase = "ended"
)

// phaseRank orders phases for the monotonicity check.
var phaseRank = map[Phase]int{
	PhaseGreeting:     0,
	PhaseConversation: 1,
	PhaseEnded:        2,
}

// CallSession is the per-room call state. One session per room; mutated
// only by the session's controller.
type CallSession struct {
	RoomName string
	Meta     Metadata
	Letter   *script.Letter

	mu         sync.RWMutex
	phase      Phase
	completed  []string // activity ids in first-seen order
	seen       map[string]bool
	transcript string
	startTime  time.Time
}

// NewCallSession creates a session in the greeting phase.
func NewCallSession(roomName string, meta Metadata) *CallSession {
	return &CallSession{
		RoomName:  roomName,
		Meta:      meta,
		phase:     PhaseGreeting,
		seen:      make(map[string]bool),
		startTime: time.Now(),
	}
}

// Phase returns the current phase.
func (s *CallSession) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// AdvanceTo moves the session forward. Transitions are monotonic: moving
// backward (or out of ended) is refused and reported false.
func (s *CallSession) AdvanceTo(next Phase) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if phaseRank[next] <= phaseRank[s.phase] {
		return false
	}
	s.phase = next
	return true
}

// RecordActivity adds an activity id to the completed set. Returns true on
// first submission, false on repeats; the set stays deduplicated either way.
func (s *CallSession) RecordActivity(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seen[id] {
		return false
	}
	s.seen[id] = true
	s.completed = append(s.completed, id)
	return true
}

// CompletedActivities returns the parsed activities in first-seen order.
func (s *CallSession) CompletedActivities() []script.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]script.Activity, 0, len(s.completed))
	for _, id := range s.completed {
		out = append(out, script.ParseActivity(id))
	}
	return out
}

// CompletedCount returns the number of distinct completed activities.
func (s *CallSession) CompletedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.completed)
}

// SetChildName updates the child's name from an inbound message.
func (s *CallSession) SetChildName(name string) {
	if name == "" {
		return
	}
	s.mu.Lock()
	s.Meta.ChildName = name
	s.mu.Unlock()
}

// ChildName returns the current child name.
func (s *CallSession) ChildName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Meta.ChildName
}

// SetTranscript stores the accumulated wishes transcript.
func (s *CallSession) SetTranscript(text string) {
	s.mu.Lock()
	s.transcript = text
	s.mu.Unlock()
}

// Transcript returns the accumulated wishes transcript.
func (s *CallSession) Transcript() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transcript
}

// Expired reports whether the whole-session wall-clock ceiling has passed.
func (s *CallSession) Expired(max time.Duration) bool {
	return time.Since(s.startTime) >= max
}
