package device

import (
	"github.com/jypelle/piradio/internal/srv/event"
	"github.com/sirupsen/logrus"
	"sync"
	"time"
)

// Clock ticks the screens so that elapsed times keep moving between status changes.
type Clock struct {
	lock         sync.RWMutex
	eventChannel chan event.TickerEvent
	period       time.Duration
	ticker       *time.Ticker

	askDone chan bool
	done    chan bool
}

func NewClock(period time.Duration) *Clock {
	clock := Clock{
		eventChannel: make(chan event.TickerEvent, 1),
		period:       period,
		askDone:      make(chan bool),
		done:         make(chan bool),
	}
	return &clock
}

func (d *Clock) Start() {
	logrus.Debugf("Start clock device")
	d.lock.Lock()
	defer d.lock.Unlock()

	d.ticker = time.NewTicker(d.period)

	go func() {
		for loop := true; loop; {
			select {
			case now := <-d.ticker.C:
				// Drop the tick when the previous one is still pending
				select {
				case d.eventChannel <- event.TickerEvent{Time: now}:
				default:
				}
			case <-d.askDone:
				loop = false
			}
		}
		d.done <- true
	}()
}

func (d *Clock) StopSendingEvent() {
	logrus.Debugf("Stop clock device")
	d.lock.Lock()
	defer d.lock.Unlock()

	d.ticker.Stop()
	d.askDone <- true
	<-d.done
}

func (d *Clock) EventChannel() chan event.TickerEvent {
	return d.eventChannel
}
