package device

import (
	"fmt"
	"github.com/jypelle/piradio/internal/srv/event"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
	"sync"
	"time"
)

const buttonRepeatDelay = 160 * time.Millisecond

type Button struct {
	buttonId       event.ButtonId
	pin            gpio.PinIO
	isPressed      bool
	pressStepCount int64
	lastChange     time.Time
}

func NewButton(buttonId event.ButtonId, pin gpio.PinIO) (*Button, error) {
	// Set it as input, with an internal pull up resistor:
	if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("failed to setup %s button: %w", pin.Name(), err)
	}
	return &Button{buttonId: buttonId, pin: pin}, nil
}

// Refresh samples the pin. A held button repeats its press event.
func (b *Button) Refresh(now time.Time, buttonEventChannel chan event.ButtonEvent) {
	wasPressed := b.isPressed
	b.isPressed = bool(!b.pin.Read())

	if !b.isPressed && wasPressed {
		b.lastChange = now
		buttonEventChannel <- event.ButtonEvent{ButtonId: b.buttonId, ButtonEventType: event.RELEASE_EVENT_TYPE, PressStepCount: b.pressStepCount}
		b.pressStepCount = 0
	} else if b.isPressed && b.lastChange.Add(buttonRepeatDelay).Before(now) {
		b.lastChange = now
		b.pressStepCount++
		buttonEventChannel <- event.ButtonEvent{ButtonId: b.buttonId, ButtonEventType: event.PRESS_EVENT_TYPE, PressStepCount: b.pressStepCount}
	}
}

// Buttons polls the GPIO push buttons wired to the radio.
type Buttons struct {
	lock         sync.RWMutex
	eventChannel chan event.ButtonEvent

	buttons []*Button

	checkTicker *time.Ticker

	askDone chan bool
	done    chan bool
}

// NewButtons maps button ids to GPIO pin names, empty names are ignored.
func NewButtons(pinNames map[event.ButtonId]string) (*Buttons, error) {
	device := Buttons{
		eventChannel: make(chan event.ButtonEvent),
		askDone:      make(chan bool),
		done:         make(chan bool),
	}

	hostReady := false
	for buttonId, name := range pinNames {
		if name == "" {
			continue
		}
		if !hostReady {
			if _, err := host.Init(); err != nil {
				return nil, err
			}
			hostReady = true
		}
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, fmt.Errorf("failed to find %s button", name)
		}
		button, err := NewButton(buttonId, pin)
		if err != nil {
			return nil, err
		}
		device.buttons = append(device.buttons, button)
	}

	return &device, nil
}

func (d *Buttons) Start() {
	d.lock.Lock()
	defer d.lock.Unlock()

	if len(d.buttons) == 0 {
		return
	}
	logrus.Infof("Start buttons device")

	// Start periodic check
	d.checkTicker = time.NewTicker(5 * time.Millisecond)
	go func() {
		for loop := true; loop; {
			select {
			case now := <-d.checkTicker.C:
				for _, button := range d.buttons {
					button.Refresh(now, d.eventChannel)
				}
			case <-d.askDone:
				loop = false
			}
		}
		d.done <- true
	}()
}

func (d *Buttons) StopSendingEvent() {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.checkTicker == nil {
		return
	}
	logrus.Infof("Stop buttons device")

	d.checkTicker.Stop()
	d.askDone <- true
	<-d.done
}

func (d *Buttons) EventChannel() chan event.ButtonEvent {
	return d.eventChannel
}
