package device

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type doneToken struct {
	err  error
	done chan struct{}
}

func newDoneToken(fail bool) *doneToken {
	t := &doneToken{done: make(chan struct{})}
	if fail {
		t.err = errors.New("publish failed")
	}
	close(t.done)
	return t
}

func (t *doneToken) Wait() bool                       { return true }
func (t *doneToken) WaitTimeout(d time.Duration) bool { return true }
func (t *doneToken) Done() <-chan struct{}            { return t.done }
func (t *doneToken) Error() error                     { return t.err }

type publication struct {
	topic    string
	retained bool
	payload  []byte
}

// stubClient records publishes and fails topics containing failSubstring.
// The embedded interface satisfies the methods the transport never calls.
type stubClient struct {
	mqtt.Client

	mu            sync.Mutex
	published     []publication
	failSubstring string
}

func (c *stubClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	c.published = append(c.published, publication{
		topic:    topic,
		retained: retained,
		payload:  append([]byte(nil), payload.([]byte)...),
	})
	c.mu.Unlock()
	return newDoneToken(c.failSubstring != "" && strings.Contains(topic, c.failSubstring))
}

func (c *stubClient) find(topic string) *publication {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.published {
		if c.published[i].topic == topic {
			return &c.published[i]
		}
	}
	return nil
}

func TestSendFansOutPerDevice(t *testing.T) {
	client := &stubClient{}
	tr := NewMqttTransport(client, []string{"panel0", "panel1"}, "scenetx/stream", "scenetx/realtime")

	data := []byte{0xFF, 0xD8, 0x01, 0x02}
	results := tr.Send(data, 7)

	if len(results) != 2 || !results["panel0"] || !results["panel1"] {
		t.Errorf("results = %v, want both devices succeeding", results)
	}
	pub := client.find("scenetx/stream/panel0/frame")
	if pub == nil {
		t.Fatal("no publish recorded for panel0")
	}
	if pub.payload[0] != 7 {
		t.Errorf("payload transfer id = %d, want 7", pub.payload[0])
	}
	if !bytes.Equal(pub.payload[1:], data) {
		t.Error("payload should carry the frame bytes after the transfer id")
	}
	if pub.retained {
		t.Error("frame publishes must not be retained")
	}
}

func TestSendReportsPerDeviceFailure(t *testing.T) {
	client := &stubClient{failSubstring: "panel1"}
	tr := NewMqttTransport(client, []string{"panel0", "panel1"}, "scenetx/stream", "scenetx/realtime")

	results := tr.Send([]byte{1}, 3)
	if !results["panel0"] {
		t.Error("panel0 should succeed")
	}
	if results["panel1"] {
		t.Error("panel1 should fail")
	}
}

func TestSetRealTimeModeRetained(t *testing.T) {
	client := &stubClient{}
	tr := NewMqttTransport(client, []string{"panel0"}, "scenetx/stream", "scenetx/realtime")

	tr.SetRealTimeMode(true)
	pub := client.find("scenetx/realtime/panel0")
	if pub == nil {
		t.Fatal("no realtime publish recorded")
	}
	if !pub.retained {
		t.Error("realtime mode should be published retained")
	}
	if len(pub.payload) != 1 || pub.payload[0] != 1 {
		t.Errorf("payload = %v, want [1]", pub.payload)
	}
}
