package room

import (
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/soniqlabs/callsanta-gateway/internal/audio"
	"github.com/soniqlabs/callsanta-gateway/internal/observability"
)

const telephonyRate = 8000

// Publisher delivers paced audio frames and data messages to one client
// connection. It implements audio.Sink: the pacer writes frames into a
// playout buffer, and a writer goroutine drains the buffer onto the socket,
// keeping socket stalls out of the pacing loop.
type Publisher struct {
	conn     *websocket.Conn
	encoding string

	writeMu sync.Mutex // gorilla allows one concurrent writer

	bufMu  sync.Mutex
	buffer *audio.PlayoutBuffer

	done      chan struct{}
	closeOnce sync.Once
	metrics   *observability.Metrics
	logger    zerolog.Logger
}

// NewPublisher creates a publisher for a connection with a negotiated
// encoding and starts its writer goroutine.
func NewPublisher(conn *websocket.Conn, encoding string, bufferSize int, metrics *observability.Metrics, logger zerolog.Logger) *Publisher {
	p := &Publisher{
		conn:     conn,
		encoding: encoding,
		buffer:   audio.NewPlayoutBuffer(bufferSize),
		done:     make(chan struct{}),
		metrics:  metrics,
		logger:   logger,
	}
	go p.writeLoop()
	return p
}

// WriteFrame encodes a frame for the client and queues it for delivery.
func (p *Publisher) WriteFrame(frame audio.Frame) error {
	if err := frame.Validate(); err != nil {
		return err
	}

	data := frame.PCM
	if p.encoding == EncodingPCMU {
		encoded, err := audio.EncodeMulaw(frame.PCM, frame.SampleRate, telephonyRate)
		if err != nil {
			return fmt.Errorf("mulaw encode failed: %w", err)
		}
		data = encoded
	}

	p.bufMu.Lock()
	written := p.buffer.Write(data)
	p.bufMu.Unlock()

	if written < len(data) {
		p.logger.Warn().Int("dropped", len(data)-written).Msg("Playout buffer overflow")
	}

	observability.RecordFrameEmitted()
	p.metrics.RecordAudioBytes("out", int64(len(data)))
	return nil
}

// SendData sends a structured message on the data channel.
func (p *Publisher) SendData(payload any) error {
	evt, err := dataEvent(payload)
	if err != nil {
		return fmt.Errorf("failed to encode data message: %w", err)
	}
	return p.writeJSON(evt)
}

// writeLoop drains the playout buffer onto the socket at frame cadence.
func (p *Publisher) writeLoop() {
	ticker := time.NewTicker(audio.FrameDuration)
	defer ticker.Stop()

	chunk := make([]byte, 4096)
	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			p.bufMu.Lock()
			n := p.buffer.Read(chunk)
			p.bufMu.Unlock()
			if n == 0 {
				continue
			}

			evt := mediaEvent(base64.StdEncoding.EncodeToString(chunk[:n]))
			if err := p.writeJSON(evt); err != nil {
				p.logger.Debug().Err(err).Msg("Audio write failed, stopping publisher")
				return
			}
		}
	}
}

func (p *Publisher) writeJSON(v any) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.conn.WriteJSON(v)
}

// Close stops the writer goroutine. The connection itself is owned by the
// gateway.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() { close(p.done) })
}
