package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/soniqlabs/callsanta-gateway/internal/observability"
	"github.com/soniqlabs/callsanta-gateway/internal/script"
	"github.com/soniqlabs/callsanta-gateway/internal/status"
)

// Narrator renders dialogue and sound effects. Implemented by voice.Renderer.
type Narrator interface {
	Speak(ctx context.Context, line script.ScriptLine)
	PlayAsset(ctx context.Context, name string)
}

// Messenger sends structured messages over the room data channel.
type Messenger interface {
	SendData(payload any) error
}

// Roster reports how many remote participants are in the room.
type Roster interface {
	RemoteParticipants() int
}

// Listener captures the child's spoken wishes during the listening window.
type Listener interface {
	Listen(ctx context.Context, window time.Duration) string
}

// Call end outcomes recorded in metrics.
const (
	outcomeCompleted = "completed"
	outcomeEmptyRoom = "empty_room"
	outcomeTimeout   = "timeout"
	outcomeCancelled = "cancelled"
)

// ControllerConfig holds the controller's timing knobs.
type ControllerConfig struct {
	SessionMax       time.Duration // whole-call wall-clock ceiling
	ActivityPhaseMax time.Duration // greeting phase fallback advance
	ListenWindow     time.Duration // wishes listening ceiling
	PollInterval     time.Duration // queue/roster poll cadence
}

// Controller runs the scripted call for one session. All speech, playback,
// and inbound messages flow through its single run loop, so the audio sink
// never sees concurrent writers.
type Controller struct {
	session  *CallSession
	narrator Narrator
	msgr     Messenger
	roster   Roster
	listener Listener // nil means a fixed silent wait stands in for listening
	reporter *status.Reporter
	cfg      ControllerConfig
	metrics  *observability.Metrics
	logger   zerolog.Logger

	queue chan *InboundMessage
}

// NewController wires a controller for one call session.
func NewController(s *CallSession, narrator Narrator, msgr Messenger, roster Roster, listener Listener, reporter *status.Reporter, cfg ControllerConfig, logger zerolog.Logger) *Controller {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 200 * time.Millisecond
	}
	return &Controller{
		session:  s,
		narrator: narrator,
		msgr:     msgr,
		roster:   roster,
		listener: listener,
		reporter: reporter,
		cfg:      cfg,
		metrics:  observability.NewCallMetrics(s.RoomName),
		logger:   logger,
		queue:    make(chan *InboundMessage, 32),
	}
}

// Enqueue hands an inbound message to the run loop. Never blocks; messages
// beyond the queue capacity are dropped with a log line.
func (c *Controller) Enqueue(msg *InboundMessage) {
	select {
	case c.queue <- msg:
	default:
		c.logger.Warn().Str("type", msg.Type).Msg("Inbound queue full, dropping message")
	}
}

// Run executes the whole scripted call and blocks until it ends.
func (c *Controller) Run(ctx context.Context) {
	c.metrics.RecordCallStart()
	c.reporter.Report(c.session.RoomName, status.StatusActive, "")
	c.logger.Info().Str("child", c.session.ChildName()).Msg("Santa call starting")

	outcome := c.run(ctx)

	c.session.AdvanceTo(PhaseEnded)
	c.sendPhaseChange(PhaseEnded)

	reportCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	c.reporter.ReportSync(reportCtx, c.session.RoomName, status.StatusCompleted, c.session.Transcript())

	c.metrics.RecordCallEnd(outcome)
	c.logger.Info().Str("outcome", outcome).Msg("Santa call ended")
}

func (c *Controller) run(ctx context.Context) string {
	if outcome := c.checkEnd(ctx); outcome != "" {
		return outcome
	}

	// Greeting phase: jingle, elf intro, then the activity loop.
	c.narrator.PlayAsset(ctx, "jingle")
	c.narrator.Speak(ctx, script.ElfGreeting(c.session.ChildName()))
	if c.session.Letter != nil {
		c.narrator.Speak(ctx, script.ElfLetterNotice(c.session.ChildName()))
	}

	if outcome := c.activityLoop(ctx); outcome != "" {
		return outcome
	}

	// Conversation phase.
	c.session.AdvanceTo(PhaseConversation)
	c.sendPhaseChange(PhaseConversation)

	return c.conversation(ctx)
}

// activityLoop drains the inbound queue until the child is ready for Santa,
// the phase times out, or the session ends early. Returns "" to continue
// into the conversation, or a terminal outcome.
func (c *Controller) activityLoop(ctx context.Context) string {
	deadline := time.Now().Add(c.cfg.ActivityPhaseMax)

	for {
		if outcome := c.checkEnd(ctx); outcome != "" {
			return outcome
		}
		if time.Now().After(deadline) {
			c.logger.Info().Msg("Activity phase timed out, advancing to Santa")
			return ""
		}

		select {
		case <-ctx.Done():
			return outcomeCancelled
		case msg := <-c.queue:
			switch msg.Type {
			case MsgTypeReadyForSanta:
				c.logger.Info().Msg("Child is ready for Santa")
				return ""
			case MsgTypeActivity:
				c.handleActivity(ctx, msg)
			}
		case <-time.After(c.cfg.PollInterval):
		}
	}
}

// handleActivity narrates the activity, plays its sound effect, and acks.
// The completed set is idempotent; the narration and ack are per submission.
func (c *Controller) handleActivity(ctx context.Context, msg *InboundMessage) {
	c.session.SetChildName(msg.ChildName)
	first := c.session.RecordActivity(msg.Activity)

	activity := script.ParseActivity(msg.Activity)
	c.logger.Info().Str("activity", msg.Activity).Bool("first", first).Msg("Activity submitted")

	c.narrator.Speak(ctx, script.ActivityLine(activity, c.session.ChildName()))
	if sound := script.ActivitySound(activity); sound != "" {
		c.narrator.PlayAsset(ctx, sound)
	}
	c.sendData(NewActivityComplete(msg.Activity))
}

// conversation runs the fixed Santa script and returns the call outcome.
func (c *Controller) conversation(ctx context.Context) string {
	name := c.session.ChildName()
	meta := c.session.Meta

	steps := []func(){
		func() { c.narrator.PlayAsset(ctx, "jingle") },
		func() { c.narrator.Speak(ctx, script.SantaGreeting(name, meta.Gender)) },
	}
	if letter := c.session.Letter; letter != nil {
		steps = append(steps,
			func() { c.narrator.Speak(ctx, script.SantaLetterIntro(letter, name)) },
			func() { c.narrator.Speak(ctx, script.SantaNiceThing(letter)) },
			func() { c.narrator.Speak(ctx, script.SantaWishes(letter)) },
			func() { c.narrator.Speak(ctx, script.SantaSnackThanks(letter)) },
		)
	}
	steps = append(steps,
		func() { c.narrator.Speak(ctx, script.ActivityRecap(c.session.CompletedActivities())) },
		func() { c.narrator.Speak(ctx, script.WishesPrompt()) },
		func() { c.listenForWishes(ctx) },
		func() { c.narrator.Speak(ctx, script.CheckingList()) },
		func() { c.narrator.PlayAsset(ctx, "riser") },
		func() { c.narrator.Speak(ctx, script.ListResponse(meta.Relationship)) },
		func() { c.narrator.Speak(ctx, script.Goodbye(name)) },
	)

	for _, step := range steps {
		if outcome := c.checkEnd(ctx); outcome != "" {
			return outcome
		}
		step()
	}
	return outcomeCompleted
}

// listenForWishes captures the child's response. Without a listener a fixed
// silent wait stands in; whatever transcript is available is accepted,
// defaulting to empty.
func (c *Controller) listenForWishes(ctx context.Context) {
	if c.listener == nil {
		select {
		case <-ctx.Done():
		case <-time.After(c.cfg.ListenWindow):
		}
		return
	}

	wishes := c.listener.Listen(ctx, c.cfg.ListenWindow)
	c.session.SetTranscript(wishes)
	if wishes != "" {
		c.logger.Info().Str("wishes", wishes).Msg("Heard gift wishes")
	}
}

// checkEnd returns a terminal outcome when the session must stop: context
// cancelled, wall-clock ceiling reached, or the room has emptied.
func (c *Controller) checkEnd(ctx context.Context) string {
	select {
	case <-ctx.Done():
		return outcomeCancelled
	default:
	}
	if c.session.Expired(c.cfg.SessionMax) {
		c.logger.Warn().Msg("Session ceiling reached, ending call")
		return outcomeTimeout
	}
	if c.roster != nil && c.roster.RemoteParticipants() == 0 {
		c.logger.Info().Msg("Room is empty, ending call")
		return outcomeEmptyRoom
	}
	return ""
}

func (c *Controller) sendPhaseChange(phase Phase) {
	c.sendData(NewPhaseChange(phase))
}

func (c *Controller) sendData(payload any) {
	if c.msgr == nil {
		return
	}
	if err := c.msgr.SendData(payload); err != nil {
		c.logger.Error().Err(err).Msg("Failed to send data message")
		c.metrics.RecordError("send_data", "controller")
	}
}
