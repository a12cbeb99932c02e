package display

import (
	"fmt"
	"image/color"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// ILI9340 command set.
const (
	cmdSWRESET  = 0x01
	cmdSLPOUT   = 0x11
	cmdGAMMASET = 0x26
	cmdDISPON   = 0x29
	cmdCASET    = 0x2A
	cmdPASET    = 0x2B
	cmdRAMWR    = 0x2C
	cmdMADCTL   = 0x36
	cmdPIXFMT   = 0x3A
	cmdFRMCTR1  = 0xB1
	cmdDFUNCTR  = 0xB6
	cmdPWCTR1   = 0xC0
	cmdPWCTR2   = 0xC1
	cmdVMCTR1   = 0xC5
	cmdVMCTR2   = 0xC7
	cmdGMCTRP1  = 0xE0
	cmdGMCTRN1  = 0xE1

	madctlMX  = 0x40
	madctlBGR = 0x08
)

// maxTx keeps single transfers under the default spidev buffer size.
const maxTx = 4096

type initStep struct {
	cmd  byte
	data []byte
}

var ili9340Init = []initStep{
	{0xEF, []byte{0x03, 0x80, 0x02}},
	{0xCF, []byte{0x00, 0xC1, 0x30}},
	{0xED, []byte{0x64, 0x03, 0x12, 0x81}},
	{0xE8, []byte{0x85, 0x00, 0x78}},
	{0xCB, []byte{0x39, 0x2C, 0x00, 0x34, 0x02}},
	{0xF7, []byte{0x20}},
	{0xEA, []byte{0x00, 0x00}},
	{cmdPWCTR1, []byte{0x23}},
	{cmdPWCTR2, []byte{0x10}},
	{cmdVMCTR1, []byte{0x3E, 0x28}},
	{cmdVMCTR2, []byte{0x86}},
	{cmdMADCTL, []byte{madctlMX | madctlBGR}},
	{cmdPIXFMT, []byte{0x55}},
	{cmdFRMCTR1, []byte{0x00, 0x18}},
	{cmdDFUNCTR, []byte{0x08, 0x82, 0x27}},
	{0xF2, []byte{0x00}},
	{cmdGAMMASET, []byte{0x01}},
	{cmdGMCTRP1, []byte{0x0F, 0x31, 0x2B, 0x0C, 0x0E, 0x08, 0x4E, 0xF1, 0x37, 0x07, 0x10, 0x03, 0x0E, 0x09, 0x00}},
	{cmdGMCTRN1, []byte{0x00, 0x0E, 0x14, 0x03, 0x11, 0x07, 0x31, 0xC1, 0x48, 0x08, 0x0F, 0x0C, 0x31, 0x36, 0x0F}},
}

// ILI9340Options describes panel geometry and text layout.
type ILI9340Options struct {
	Width, Height int
	Rows          int
	// BaseX and BaseY offset the first character of row 0.
	BaseX, BaseY int
	RowHeight    int
	Foreground   color.RGBA
	Background   color.RGBA
}

// DefaultILI9340Options lays out 15 rows on a portrait 240x320 panel.
func DefaultILI9340Options() ILI9340Options {
	return ILI9340Options{
		Width:      240,
		Height:     320,
		Rows:       15,
		BaseX:      5,
		BaseY:      10,
		RowHeight:  20,
		Foreground: color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		Background: color.RGBA{A: 0xFF},
	}
}

// txer is the part of spi.Conn the driver uses.
type txer interface {
	Tx(w, r []byte) error
}

// outPin is the part of gpio.PinIO the driver uses.
type outPin interface {
	Out(l gpio.Level) error
}

// ILI9340 drives an ILI9340 TFT over SPI with a data/command GPIO. Each text
// row owns a horizontal pixel band that is redrawn whole on DrawLine.
type ILI9340 struct {
	conn   txer
	dc     outPin
	rst    outPin
	opts   ILI9340Options
	font   tinyfont.Fonter
	band   *pixelBand
	closer interface{ Close() error }
	sleep  func(time.Duration)
}

// ILI9340Config names the host resources for OpenILI9340.
type ILI9340Config struct {
	Port     string // spireg name, empty for the first port
	Hz       int64
	DCPin    string
	ResetPin string // optional
	Options  ILI9340Options
}

// OpenILI9340 initializes the host, opens the SPI port and GPIO pins, and
// brings the panel up.
func OpenILI9340(cfg ILI9340Config) (*ILI9340, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}
	port, err := spireg.Open(cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", cfg.Port, err)
	}
	hz := cfg.Hz
	if hz <= 0 {
		hz = 40_000_000
	}
	conn, err := port.Connect(physic.Frequency(hz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("connect spi: %w", err)
	}
	dc := gpioreg.ByName(cfg.DCPin)
	if dc == nil {
		_ = port.Close()
		return nil, fmt.Errorf("gpio pin %q not found", cfg.DCPin)
	}
	var rst outPin
	if cfg.ResetPin != "" {
		p := gpioreg.ByName(cfg.ResetPin)
		if p == nil {
			_ = port.Close()
			return nil, fmt.Errorf("gpio pin %q not found", cfg.ResetPin)
		}
		rst = p
	}

	d := NewILI9340(conn, dc, rst, cfg.Options)
	d.closer = port
	if err := d.Init(); err != nil {
		_ = port.Close()
		return nil, err
	}
	return d, nil
}

// NewILI9340 wraps an already connected SPI link. rst may be nil. Call Init
// before drawing.
func NewILI9340(conn txer, dc, rst outPin, opts ILI9340Options) *ILI9340 {
	def := DefaultILI9340Options()
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = def.Width, def.Height
	}
	if opts.Rows <= 0 {
		opts.Rows = def.Rows
	}
	if opts.RowHeight <= 0 {
		opts.RowHeight = def.RowHeight
	}
	if opts.Foreground == (color.RGBA{}) && opts.Background == (color.RGBA{}) {
		opts.Foreground, opts.Background = def.Foreground, def.Background
	}
	return &ILI9340{
		conn:  conn,
		dc:    dc,
		rst:   rst,
		opts:  opts,
		font:  &proggy.TinySZ8pt7b,
		band:  newPixelBand(opts.Width, opts.RowHeight),
		sleep: time.Sleep,
	}
}

// Init resets the controller and sends the power-on sequence.
func (d *ILI9340) Init() error {
	if d.rst != nil {
		for _, step := range []struct {
			level gpio.Level
			wait  time.Duration
		}{{gpio.High, 5 * time.Millisecond}, {gpio.Low, 20 * time.Millisecond}, {gpio.High, 150 * time.Millisecond}} {
			if err := d.rst.Out(step.level); err != nil {
				return fmt.Errorf("reset pin: %w", err)
			}
			d.sleep(step.wait)
		}
	} else {
		if err := d.command(cmdSWRESET); err != nil {
			return err
		}
		d.sleep(150 * time.Millisecond)
	}

	for _, step := range ili9340Init {
		if err := d.command(step.cmd, step.data...); err != nil {
			return err
		}
	}
	if err := d.command(cmdSLPOUT); err != nil {
		return err
	}
	d.sleep(120 * time.Millisecond)
	return d.command(cmdDISPON)
}

// DrawLine renders text into the band for row and pushes it to the panel.
func (d *ILI9340) DrawLine(row int, text string) error {
	if row < 0 || row >= d.opts.Rows {
		return fmt.Errorf("row %d out of range [0,%d)", row, d.opts.Rows)
	}
	top := d.opts.BaseY + row*d.opts.RowHeight
	if top+d.opts.RowHeight > d.opts.Height {
		return fmt.Errorf("row %d does not fit on a %d pixel panel", row, d.opts.Height)
	}

	d.band.fill(d.opts.Background)
	baseline := int16(d.opts.RowHeight * 3 / 4)
	tinyfont.WriteLine(d.band, d.font, int16(d.opts.BaseX), baseline, text, d.opts.Foreground)

	if err := d.setWindow(0, top, d.opts.Width-1, top+d.opts.RowHeight-1); err != nil {
		return err
	}
	return d.memoryWrite(d.band.pix)
}

// Clear fills the whole panel with the background color.
func (d *ILI9340) Clear() error {
	return d.FillRect(0, 0, d.opts.Width, d.opts.Height, d.opts.Background)
}

// FillRect paints a w x h rectangle at (x, y).
func (d *ILI9340) FillRect(x, y, w, h int, c color.RGBA) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	if err := d.setWindow(x, y, x+w-1, y+h-1); err != nil {
		return err
	}
	px := ColorFromRGB(c.R, c.G, c.B)
	chunk := make([]byte, 0, maxTx)
	for len(chunk)+2 <= maxTx {
		chunk = append(chunk, byte(px>>8), byte(px))
	}

	if err := d.command(cmdRAMWR); err != nil {
		return err
	}
	remaining := w * h * 2
	for remaining > 0 {
		n := min(remaining, len(chunk))
		if err := d.data(chunk[:n]); err != nil {
			return err
		}
		remaining -= n
	}
	return nil
}

// Close releases the SPI port when the panel was opened with OpenILI9340.
func (d *ILI9340) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

func (d *ILI9340) setWindow(x1, y1, x2, y2 int) error {
	if err := d.command(cmdCASET, byte(x1>>8), byte(x1), byte(x2>>8), byte(x2)); err != nil {
		return err
	}
	return d.command(cmdPASET, byte(y1>>8), byte(y1), byte(y2>>8), byte(y2))
}

func (d *ILI9340) memoryWrite(pix []byte) error {
	if err := d.command(cmdRAMWR); err != nil {
		return err
	}
	for len(pix) > 0 {
		n := min(len(pix), maxTx)
		if err := d.data(pix[:n]); err != nil {
			return err
		}
		pix = pix[n:]
	}
	return nil
}

func (d *ILI9340) command(cmd byte, args ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return fmt.Errorf("dc pin: %w", err)
	}
	if err := d.conn.Tx([]byte{cmd}, nil); err != nil {
		return fmt.Errorf("write command 0x%02X: %w", cmd, err)
	}
	if len(args) == 0 {
		return nil
	}
	return d.data(args)
}

func (d *ILI9340) data(b []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("dc pin: %w", err)
	}
	if err := d.conn.Tx(b, nil); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	return nil
}

// ColorFromRGB packs 8-bit channels into RGB565.
func ColorFromRGB(r, g, b uint8) uint16 {
	return uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3
}

// pixelBand is an RGB565 big-endian framebuffer for one text row. It
// satisfies the displayer interface tinyfont draws into.
type pixelBand struct {
	w, h int
	pix  []byte
}

func newPixelBand(w, h int) *pixelBand {
	return &pixelBand{w: w, h: h, pix: make([]byte, w*h*2)}
}

func (b *pixelBand) Size() (x, y int16) { return int16(b.w), int16(b.h) }

func (b *pixelBand) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || int(x) >= b.w || int(y) >= b.h {
		return
	}
	px := ColorFromRGB(c.R, c.G, c.B)
	i := (int(y)*b.w + int(x)) * 2
	b.pix[i] = byte(px >> 8)
	b.pix[i+1] = byte(px)
}

func (b *pixelBand) Display() error { return nil }

func (b *pixelBand) fill(c color.RGBA) {
	px := ColorFromRGB(c.R, c.G, c.B)
	for i := 0; i < len(b.pix); i += 2 {
		b.pix[i] = byte(px >> 8)
		b.pix[i+1] = byte(px)
	}
}
