// Package st7789 drives the 240x240 IPS panel of the Pirate Audio HAT over
// SPI, using periph.io for the SPI port and the GPIO control lines.
package st7789

import (
	"fmt"
	"image"
	"time"

	"github.com/bearsamplr/bearsamplr"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// ST7789 command bytes.
const (
	cmdSWRESET = 0x01
	cmdSLPIN   = 0x10
	cmdSLPOUT  = 0x11
	cmdNORON   = 0x13
	cmdINVON   = 0x21
	cmdDISPOFF = 0x28
	cmdDISPON  = 0x29
	cmdCASET   = 0x2A
	cmdRASET   = 0x2B
	cmdRAMWR   = 0x2C
	cmdMADCTL  = 0x36
	cmdCOLMOD  = 0x3A
)

// maxTransfer is the largest single SPI write the Pi kernel driver accepts.
const maxTransfer = 4096

type Device struct {
	port      spi.PortCloser
	conn      spi.Conn
	dc        gpio.PinOut
	backlight gpio.PinOut

	width  int
	height int
	buf    []byte // RGB565 framebuffer staging
}

// New opens the display described by the config and runs the panel
// initialization sequence. The backlight is switched on once the first
// frame can be shown.
func New(cfg bearsamplr.DisplayConfig) (*Device, error) {
	port, err := spireg.Open(fmt.Sprintf("SPI0.%d", cfg.CS))
	if err != nil {
		return nil, fmt.Errorf("opening SPI port: %w", err)
	}
	conn, err := port.Connect(physic.Frequency(cfg.SPISpeedHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("configuring SPI port: %w", err)
	}
	dc := gpioreg.ByName(fmt.Sprintf("GPIO%d", cfg.PinDC))
	if dc == nil {
		port.Close()
		return nil, fmt.Errorf("no GPIO%d for the DC line", cfg.PinDC)
	}
	backlight := gpioreg.ByName(fmt.Sprintf("GPIO%d", cfg.PinBacklight))
	if backlight == nil {
		port.Close()
		return nil, fmt.Errorf("no GPIO%d for the backlight", cfg.PinBacklight)
	}
	d := &Device{
		port:      port,
		conn:      conn,
		dc:        dc,
		backlight: backlight,
		width:     cfg.Width,
		height:    cfg.Height,
		buf:       make([]byte, cfg.Width*cfg.Height*2),
	}
	if err := d.init(cfg.Rotation); err != nil {
		port.Close()
		return nil, err
	}
	return d, nil
}

func (d *Device) init(rotation int) error {
	madctl, err := madctlFor(rotation)
	if err != nil {
		return err
	}
	if err := d.command(cmdSWRESET); err != nil {
		return err
	}
	time.Sleep(150 * time.Millisecond)
	if err := d.command(cmdSLPOUT); err != nil {
		return err
	}
	time.Sleep(50 * time.Millisecond)
	steps := []struct {
		cmd  byte
		data []byte
	}{
		{cmdCOLMOD, []byte{0x55}}, // 16-bit RGB565
		{cmdMADCTL, []byte{madctl}},
		{cmdINVON, nil}, // IPS panels run inverted
		{cmdNORON, nil},
		{cmdDISPON, nil},
	}
	for _, s := range steps {
		if err := d.command(s.cmd, s.data...); err != nil {
			return err
		}
	}
	time.Sleep(50 * time.Millisecond)
	return nil
}

func madctlFor(rotation int) (byte, error) {
	switch rotation {
	case 0:
		return 0x00, nil
	case 90:
		return 0x60, nil
	case 180:
		return 0xC0, nil
	case 270:
		return 0xA0, nil
	}
	return 0, fmt.Errorf("unsupported display rotation %d", rotation)
}

// Display pushes a full frame to the panel.
func (d *Device) Display(img *image.RGBA) error {
	b := img.Bounds()
	if b.Dx() != d.width || b.Dy() != d.height {
		return fmt.Errorf("frame is %dx%d, display is %dx%d", b.Dx(), b.Dy(), d.width, d.height)
	}
	rgb565(img, d.buf)
	if err := d.setWindow(); err != nil {
		return err
	}
	if err := d.command(cmdRAMWR); err != nil {
		return err
	}
	return d.data(d.buf)
}

func (d *Device) setWindow() error {
	if err := d.command(cmdCASET, 0, 0, byte((d.width-1)>>8), byte(d.width-1)); err != nil {
		return err
	}
	return d.command(cmdRASET, 0, 0, byte((d.height-1)>>8), byte(d.height-1))
}

func (d *Device) SetBacklight(on bool) error {
	return d.backlight.Out(gpio.Level(on))
}

func (d *Device) Close() error {
	d.command(cmdDISPOFF)
	d.command(cmdSLPIN)
	d.backlight.Out(gpio.Low)
	return d.port.Close()
}

func (d *Device) command(cmd byte, data ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.conn.Tx([]byte{cmd}, nil); err != nil {
		return fmt.Errorf("sending command %#02x: %w", cmd, err)
	}
	if len(data) == 0 {
		return nil
	}
	return d.data(data)
}

func (d *Device) data(data []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	for len(data) > 0 {
		n := len(data)
		if n > maxTransfer {
			n = maxTransfer
		}
		if err := d.conn.Tx(data[:n], nil); err != nil {
			return fmt.Errorf("sending frame data: %w", err)
		}
		data = data[n:]
	}
	return nil
}

// rgb565 converts the RGBA frame to the big-endian 16-bit format of the
// panel.
func rgb565(img *image.RGBA, dst []byte) {
	b := img.Bounds()
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			r, g, bl := row[x*4], row[x*4+1], row[x*4+2]
			v := uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(bl)>>3
			dst[i] = byte(v >> 8)
			dst[i+1] = byte(v)
			i += 2
		}
	}
}
