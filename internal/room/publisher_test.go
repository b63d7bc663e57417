package room

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/soniqlabs/callsanta-gateway/internal/audio"
	"github.com/soniqlabs/callsanta-gateway/internal/observability"
	"github.com/soniqlabs/callsanta-gateway/internal/session"
)

// dialTestPublisher stands up a server-side publisher and returns the client
// connection to observe its output.
func dialTestPublisher(t *testing.T, encoding string) (*Publisher, *websocket.Conn) {
	t.Helper()

	ready := make(chan *Publisher, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		p := NewPublisher(conn, encoding, 65536, observability.NewCallMetrics("t"), observability.GetLogger())
		ready <- p
		// Keep the connection open until the test finishes.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	p := <-ready
	t.Cleanup(p.Close)
	return p, client
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt Event
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return evt
}

func testFrame(samples int) audio.Frame {
	return audio.Frame{
		PCM:               make([]byte, samples*2),
		SampleRate:        audio.DefaultSampleRate,
		Channels:          1,
		SamplesPerChannel: samples,
	}
}

func TestPublisher_DeliversLinear16Audio(t *testing.T) {
	p, client := dialTestPublisher(t, EncodingLinear16)

	frame := testFrame(480)
	if err := p.WriteFrame(frame); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	evt := readEvent(t, client)
	if evt.Event != EventAudio {
		t.Fatalf("event = %q, want audio", evt.Event)
	}
	pcm, err := base64.StdEncoding.DecodeString(evt.Payload)
	if err != nil {
		t.Fatalf("payload decode: %v", err)
	}
	if len(pcm) != 960 {
		t.Errorf("payload = %d bytes, want 960", len(pcm))
	}
}

func TestPublisher_EncodesMulaw(t *testing.T) {
	p, client := dialTestPublisher(t, EncodingPCMU)

	if err := p.WriteFrame(testFrame(480)); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	evt := readEvent(t, client)
	data, err := base64.StdEncoding.DecodeString(evt.Payload)
	if err != nil {
		t.Fatalf("payload decode: %v", err)
	}
	// 480 samples at 24kHz resampled to 8kHz, one byte per sample.
	if len(data) != 160 {
		t.Errorf("payload = %d bytes, want 160", len(data))
	}
}

func TestPublisher_RejectsInvalidFrame(t *testing.T) {
	p, _ := dialTestPublisher(t, EncodingLinear16)

	bad := audio.Frame{PCM: make([]byte, 10), SampleRate: 24000, Channels: 1, SamplesPerChannel: 480}
	if err := p.WriteFrame(bad); err == nil {
		t.Error("expected validation error")
	}
}

func TestPublisher_SendData(t *testing.T) {
	p, client := dialTestPublisher(t, EncodingLinear16)

	if err := p.SendData(session.NewPhaseChange(session.PhaseConversation)); err != nil {
		t.Fatalf("SendData: %v", err)
	}

	evt := readEvent(t, client)
	if evt.Event != EventData {
		t.Fatalf("event = %q, want data", evt.Event)
	}
	var pc session.PhaseChange
	if err := json.Unmarshal(evt.Data, &pc); err != nil {
		t.Fatalf("data decode: %v", err)
	}
	if pc.Type != session.MsgTypePhaseChange || pc.Phase != "conversation" {
		t.Errorf("phase change = %+v", pc)
	}
}
