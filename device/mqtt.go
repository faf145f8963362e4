package device

import (
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const publishTimeout = 2 * time.Second

// An MqttTransport sends frames to display devices over MQTT, one topic per
// device.
type MqttTransport struct {
	client        mqtt.Client
	devices       []string
	streamTopic   string
	realtimeTopic string
}

// NewMqttTransport creates a transport publishing to the given devices under
// the configured topic roots.
func NewMqttTransport(client mqtt.Client, devices []string, streamTopic, realtimeTopic string) *MqttTransport {
	t := new(MqttTransport)
	t.client = client
	t.devices = devices
	t.streamTopic = streamTopic
	t.realtimeTopic = realtimeTopic
	return t
}

// Send publishes the frame to every device concurrently. The payload is the
// transfer id byte followed by the compressed frame data.
func (t *MqttTransport) Send(data []byte, transferID byte) map[string]bool {
	payload := make([]byte, 0, len(data)+1)
	payload = append(payload, transferID)
	payload = append(payload, data...)

	return t.fanOut(func(dev string) bool {
		topic := fmt.Sprintf("%s/%s/frame", t.streamTopic, dev)
		return t.publish(topic, payload, false)
	})
}

// SetRealTimeMode publishes the mode flag to every device as a retained
// message so late joiners pick it up.
func (t *MqttTransport) SetRealTimeMode(enable bool) map[string]bool {
	payload := []byte{0}
	if enable {
		payload[0] = 1
	}

	return t.fanOut(func(dev string) bool {
		topic := fmt.Sprintf("%s/%s", t.realtimeTopic, dev)
		return t.publish(topic, payload, true)
	})
}

func (t *MqttTransport) fanOut(send func(dev string) bool) map[string]bool {
	results := make(map[string]bool, len(t.devices))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, dev := range t.devices {
		wg.Add(1)
		go func(dev string) {
			defer wg.Done()
			ok := send(dev)
			mu.Lock()
			results[dev] = ok
			mu.Unlock()
		}(dev)
	}
	wg.Wait()
	return results
}

func (t *MqttTransport) publish(topic string, payload []byte, retained bool) bool {
	token := t.client.Publish(topic, 2, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return false
	}
	return token.Error() == nil
}
