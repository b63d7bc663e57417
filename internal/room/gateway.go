package room

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/soniqlabs/callsanta-gateway/internal/assets"
	"github.com/soniqlabs/callsanta-gateway/internal/audio"
	"github.com/soniqlabs/callsanta-gateway/internal/config"
	"github.com/soniqlabs/callsanta-gateway/internal/letter"
	"github.com/soniqlabs/callsanta-gateway/internal/observability"
	"github.com/soniqlabs/callsanta-gateway/internal/session"
	"github.com/soniqlabs/callsanta-gateway/internal/status"
	"github.com/soniqlabs/callsanta-gateway/internal/stt"
	"github.com/soniqlabs/callsanta-gateway/internal/tts"
	"github.com/soniqlabs/callsanta-gateway/internal/voice"
)

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// roomEntry tracks remote participants for one active room.
type roomEntry struct {
	participants int32
}

func (r *roomEntry) RemoteParticipants() int {
	return int(atomic.LoadInt32(&r.participants))
}

// Gateway accepts room connections and runs one santa call session per room.
type Gateway struct {
	cfg      *config.Config
	store    *assets.Store
	reporter *status.Reporter
	letters  *letter.Client
	santaTTS tts.Synthesizer
	elfTTS   tts.Synthesizer
	logger   zerolog.Logger

	mu    sync.Mutex
	rooms map[string]*roomEntry
}

// NewGateway wires the gateway and its shared clients.
func NewGateway(cfg *config.Config) *Gateway {
	return &Gateway{
		cfg:      cfg,
		store:    assets.NewStore(cfg.AudioDir, audio.DefaultSampleRate),
		reporter: status.NewReporter(cfg.SupabaseURL, cfg.SupabaseServiceKey),
		letters:  letter.NewClient(cfg.LetterAPIURL, cfg.RetryMaxAttempts, time.Duration(cfg.RetryInitialBackoff)*time.Millisecond),
		santaTTS: tts.NewDeepgramClient(cfg.DeepgramAPIKey, cfg.SantaVoice, audio.DefaultSampleRate),
		elfTTS:   tts.NewDeepgramClient(cfg.DeepgramAPIKey, cfg.ElfVoice, audio.DefaultSampleRate),
		logger:   observability.GetLogger().With().Str("component", "gateway").Logger(),
	}
}

// AssetStore exposes the asset store for readiness checks.
func (g *Gateway) AssetStore() *assets.Store {
	return g.store
}

// Handler returns the WebSocket handler for /rooms/.
func (g *Gateway) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			g.logger.Error().Err(err).Msg("WebSocket upgrade failed")
			return
		}
		defer conn.Close()

		join, ok := g.readJoin(conn)
		if !ok {
			return
		}

		roomName := join.Room
		if roomName == "" {
			roomName = strings.TrimPrefix(r.URL.Path, "/rooms/")
		}

		meta, err := session.ParseMetadata(join.RoomMetadata, join.ParticipantMetadata)
		if err != nil {
			g.logger.Warn().Err(err).Str("room", roomName).Msg("Bad call metadata, defaults retained")
		}

		if !session.Admit(meta, roomName) {
			g.logger.Info().Str("room", roomName).Str("agent_type", meta.AgentType).Msg("Rejecting non-santa call")
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "not a santa call"), time.Now().Add(time.Second))
			return
		}

		entry, ok := g.register(roomName)
		if !ok {
			g.logger.Warn().Str("room", roomName).Msg("Room already has an active call")
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "room busy"), time.Now().Add(time.Second))
			return
		}
		defer g.unregister(roomName)

		g.serve(r.Context(), conn, roomName, meta, join.Encoding, entry)
	}
}

// readJoin reads and validates the first event on a new connection.
func (g *Gateway) readJoin(conn *websocket.Conn) (*Event, bool) {
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	defer conn.SetReadDeadline(time.Time{})

	_, raw, err := conn.ReadMessage()
	if err != nil {
		g.logger.Debug().Err(err).Msg("Connection closed before join")
		return nil, false
	}

	var evt Event
	if err := json.Unmarshal(raw, &evt); err != nil || evt.Event != EventJoin {
		g.logger.Warn().Msg("First event was not a valid join")
		return nil, false
	}
	if evt.Encoding == "" {
		evt.Encoding = EncodingLinear16
	}
	return &evt, true
}

func (g *Gateway) register(roomName string) (*roomEntry, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.rooms[roomName]; exists {
		return nil, false
	}
	if g.rooms == nil {
		g.rooms = make(map[string]*roomEntry)
	}
	entry := &roomEntry{participants: 1}
	g.rooms[roomName] = entry
	return entry, true
}

func (g *Gateway) unregister(roomName string) {
	g.mu.Lock()
	delete(g.rooms, roomName)
	g.mu.Unlock()
}

// serve runs one call: the controller in a goroutine, the inbound pump here.
func (g *Gateway) serve(parent context.Context, conn *websocket.Conn, roomName string, meta session.Metadata, encoding string, entry *roomEntry) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	logger := observability.WithRoom(roomName)
	metrics := observability.NewCallMetrics(roomName)

	publisher := NewPublisher(conn, encoding, g.cfg.PlayoutBufferSize, metrics, logger)
	defer publisher.Close()

	renderer := voice.NewRenderer(g.santaTTS, g.elfTTS, g.store, publisher, voice.Config{
		SantaPitchSemitones: g.cfg.SantaPitchSemitones,
		SantaSpeedFactor:    g.cfg.SantaSpeedFactor,
	}, metrics, logger)

	sttClient := stt.NewDeepgramClient(g.cfg, audio.DefaultSampleRate)
	defer sttClient.Close()
	listener := NewWishListener(sttClient, audio.NewVADDetector(&audio.VADConfig{
		EnergyThreshold: g.cfg.VADEnergyThreshold,
		SilenceFrames:   g.cfg.VADSilenceFrames,
		FrameSize:       480,
	}), logger)

	sess := session.NewCallSession(roomName, meta)
	if meta.LetterID != "" {
		sess.Letter = g.letters.Fetch(ctx, meta.LetterID)
	}

	ctrl := session.NewController(sess, renderer, publisher, entry, listener, g.reporter, session.ControllerConfig{
		SessionMax:       time.Duration(g.cfg.SessionMaxSeconds) * time.Second,
		ActivityPhaseMax: time.Duration(g.cfg.ActivityPhaseMaxSeconds) * time.Second,
		ListenWindow:     time.Duration(g.cfg.ListenSeconds) * time.Second,
	}, logger)

	done := make(chan struct{})
	go func() {
		defer close(done)
		ctrl.Run(ctx)
	}()

	g.pump(conn, encoding, ctrl, listener, metrics, logger)

	// Client gone: the controller sees an empty roster and winds down.
	atomic.StoreInt32(&entry.participants, 0)
	<-done
}

// pump reads client events until the connection drops or the client leaves.
func (g *Gateway) pump(conn *websocket.Conn, encoding string, ctrl *session.Controller, listener *WishListener, metrics *observability.Metrics, logger zerolog.Logger) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Msg("WebSocket read error")
			}
			return
		}

		var evt Event
		if err := json.Unmarshal(raw, &evt); err != nil {
			logger.Warn().Err(err).Msg("Malformed room event")
			continue
		}

		switch evt.Event {
		case EventData:
			msg, err := session.ParseInbound(evt.Data)
			if err != nil {
				logger.Warn().Err(err).Msg("Rejected inbound message")
				metrics.RecordError("bad_message", "gateway")
				continue
			}
			ctrl.Enqueue(msg)

		case EventAudio:
			pcm, err := base64.StdEncoding.DecodeString(evt.Payload)
			if err != nil {
				logger.Warn().Err(err).Msg("Bad audio payload")
				continue
			}
			if encoding == EncodingPCMU {
				if pcm, err = audio.DecodeMulaw(pcm, telephonyRate, audio.DefaultSampleRate); err != nil {
					logger.Warn().Err(err).Msg("Bad mulaw payload")
					continue
				}
			}
			metrics.RecordAudioBytes("in", int64(len(pcm)))
			listener.feed(pcm)

		case EventLeave:
			logger.Info().Msg("Client left the room")
			return

		default:
			logger.Debug().Str("event", evt.Event).Msg("Unknown room event")
		}
	}
}
