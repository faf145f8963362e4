package stream

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/matt-g-everett/scenetx/device"
)

// maxTransferID is the top of the rotating transfer id range; 0 is reserved
// by the transport framing.
const maxTransferID = 59

// A Dispatcher compresses frames and fans them out to display devices
// without ever blocking the render loop beyond starting the work.
type Dispatcher struct {
	transport device.Transport
	notifier  *Notifier

	mu         sync.Mutex
	transferID byte // next id to use

	quality  int32
	realTime int32

	inflight sync.WaitGroup
}

// NewDispatcher creates a Dispatcher sending through the given transport.
func NewDispatcher(transport device.Transport, notifier *Notifier, quality int) *Dispatcher {
	d := new(Dispatcher)
	d.transport = transport
	d.notifier = notifier
	d.transferID = 1
	d.quality = int32(ClampQuality(quality))
	return d
}

// SetQuality changes the JPEG quality used for subsequent frames. The value
// is clamped into [1,100].
func (d *Dispatcher) SetQuality(quality int) {
	atomic.StoreInt32(&d.quality, int32(ClampQuality(quality)))
}

// Quality returns the quality used for the next frame.
func (d *Dispatcher) Quality() int {
	return int(atomic.LoadInt32(&d.quality))
}

// RealTimeEnabled reports whether at least one device acknowledged real-time
// mode.
func (d *Dispatcher) RealTimeEnabled() bool {
	return atomic.LoadInt32(&d.realTime) == 1
}

// SetRealTimeMode asks every device to enter or leave real-time mode. The
// local flag only flips when at least one device acknowledges.
func (d *Dispatcher) SetRealTimeMode(enable bool) {
	results := d.transport.SetRealTimeMode(enable)
	succeeded := countSuccesses(results)
	if succeeded > 0 {
		v := int32(0)
		if enable {
			v = 1
		}
		atomic.StoreInt32(&d.realTime, v)
		d.notifier.Publish(Status{Text: fmt.Sprintf(
			"real-time mode %t acknowledged by %d/%d devices", enable, succeeded, len(results))})
	} else {
		d.notifier.Publish(Status{Text: fmt.Sprintf(
			"real-time mode %t rejected by all %d devices", enable, len(results))})
	}
}

// Dispatch encodes and sends the frame in the background. A slow or stalled
// device delays nothing but its own result.
func (d *Dispatcher) Dispatch(f *Frame) {
	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				d.notifier.Publish(Status{Text: fmt.Sprintf("dispatch failed: %v", r)})
			}
		}()
		d.dispatch(f)
	}()
}

// Drain waits for in-flight dispatches to finish.
func (d *Dispatcher) Drain() {
	d.inflight.Wait()
}

func (d *Dispatcher) dispatch(f *Frame) {
	quality := d.Quality()
	data, err := Encode(f, quality)
	if err != nil {
		d.notifier.Publish(Status{Text: fmt.Sprintf("frame dropped, encode failed: %v", err)})
		return
	}

	id := d.nextTransferID()
	results := d.transport.Send(data, id)
	succeeded := countSuccesses(results)
	total := len(results)

	if succeeded > 0 {
		d.notifier.Publish(FrameEncoded{Data: data, Quality: quality})
		d.notifier.Publish(SendResult{
			Bytes:     len(data),
			Succeeded: succeeded,
			Total:     total,
			Quality:   quality,
		})
	} else {
		d.notifier.Publish(Status{Text: fmt.Sprintf(
			"frame delivery failed on all %d devices", total)})
	}
}

// nextTransferID rotates the id through [1,59] under one lock so concurrent
// dispatches never reuse an id before it wraps.
func (d *Dispatcher) nextTransferID() byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.transferID
	if d.transferID >= maxTransferID {
		d.transferID = 1
	} else {
		d.transferID++
	}
	return id
}

func countSuccesses(results map[string]bool) int {
	n := 0
	for _, ok := range results {
		if ok {
			n++
		}
	}
	return n
}
