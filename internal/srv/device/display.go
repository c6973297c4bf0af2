package device

import (
	"fmt"
	"github.com/sirupsen/logrus"
	"image"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"
	"sync"
)

// Display is a 128x64 SSD1306 OLED screen on the first I²C bus.
type Display struct {
	oledLock    sync.Mutex
	oledDisplay *ssd1306.Dev
	i2cBus      i2c.BusCloser

	lock    sync.RWMutex
	on      bool
	lastImg image.Image

	askDone chan bool
	askImg  chan image.Image
	done    chan bool
}

func NewDisplay() (*Display, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}

	device := Display{
		askDone: make(chan bool),
		askImg:  make(chan image.Image),
		done:    make(chan bool),
	}

	return &device, nil
}

func (d *Display) Start() error {
	logrus.Infof("Start display device")

	var err error
	// Open a handle to the first available I²C bus:
	d.i2cBus, err = i2creg.Open("")
	if err != nil {
		return fmt.Errorf("unable to open i2c bus: %w", err)
	}

	// Open a handle to a ssd1306 connected on the I²C bus:
	d.oledDisplay, err = ssd1306.NewI2C(d.i2cBus, &ssd1306.DefaultOpts)
	if err != nil {
		d.i2cBus.Close()
		return fmt.Errorf("unable to initialize oled display: %w", err)
	}

	d.oledDisplay.SetContrast(1)
	d.on = true

	go func() {
		for loop := true; loop; {
			select {
			case <-d.askDone:
				loop = false
			case newImg := <-d.askImg:
				d.oledLock.Lock()
				if err := d.oledDisplay.Draw(d.oledDisplay.Bounds(), newImg, image.Point{}); err != nil {
					logrus.Warnf("Unable to refresh oled display: %v", err)
				}
				d.oledLock.Unlock()
			}
		}
		d.oledLock.Lock()
		d.oledDisplay.Halt()
		d.i2cBus.Close()
		d.oledLock.Unlock()
		d.done <- true
	}()
	return nil
}

func (d *Display) Stop() {
	logrus.Infof("Stop display device")

	d.askDone <- true
	<-d.done
}

func (d *Display) Bounds() image.Rectangle {
	return d.oledDisplay.Bounds()
}

func (d *Display) SetOff() {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.on = false
	d.oledLock.Lock()
	d.oledDisplay.Halt()
	d.oledLock.Unlock()
}

func (d *Display) SetOn() {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.on = true
	d.oledLock.Lock()
	d.oledDisplay.SetContrast(1) // Hack to force display on (calling Draw() is not enough)
	d.oledLock.Unlock()
	if d.lastImg != nil {
		d.askImg <- d.lastImg
	}
}

func (d *Display) IsOn() bool {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.on
}

func (d *Display) ShowImage(img image.Image) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.lastImg = img
	if d.on {
		d.askImg <- img
	}
}
