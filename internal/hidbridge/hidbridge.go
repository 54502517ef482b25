// Package hidbridge pushes the layout engine's HID reports to a real
// USB test fixture over a vendor control interface, so a developer can
// exercise the engine against actual USB framing before flashing
// firmware onto the target MCU.
//
// It generalizes the teacher's aoa.Device (aoa/aoa.go): the same
// gousb.OpenDevices/Control-transfer shape, but talking to any device
// exposing a vendor "send HID report" control request instead of
// registering an Android Open Accessory HID descriptor.
package hidbridge

import (
	"fmt"

	"github.com/google/gousb"

	"github.com/kbfw/firmware/internal/hidlock"
)

const (
	// bReqSendReport is the test fixture's vendor control request that
	// accepts a raw boot-protocol keyboard report as its data stage,
	// the same bmRequestTypeOut|vendor|device shape aoa.Device uses for
	// ACCESSORY_SEND_HID_EVENT.
	bReqSendReport   = 1
	bReqSetLEDSink   = 2
	bmRequestTypeOut = 0x40
)

// Bridge wraps a libusb handle to a USB HID test fixture.
type Bridge struct {
	ctx *gousb.Context
	dev *gousb.Device
}

// Open finds a test fixture by vendor/product ID and opens it.
func Open(vid, pid uint16) (*Bridge, error) {
	ctx := gousb.NewContext()

	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return uint16(desc.Vendor) == vid && uint16(desc.Product) == pid
	})
	if err != nil && len(devs) == 0 {
		ctx.Close()
		return nil, fmt.Errorf("hidbridge: no fixture found (VID:0x%04x PID:0x%04x): %w", vid, pid, err)
	}
	if len(devs) == 0 {
		ctx.Close()
		return nil, fmt.Errorf("hidbridge: no fixture found (VID:0x%04x PID:0x%04x)", vid, pid)
	}
	dev := devs[0]
	for _, extra := range devs[1:] {
		extra.Close()
	}
	dev.SetAutoDetach(true)

	return &Bridge{ctx: ctx, dev: dev}, nil
}

// WriteReport implements hidlock.Reporter, sending a raw HID report to
// the fixture over a control transfer. A USB transfer failure that
// looks like a busy endpoint is surfaced as hidlock.ErrWouldBlock so
// the caller retries instead of dropping the report.
func (b *Bridge) WriteReport(report []byte) error {
	err := b.controlTransfer(bReqSendReport, 0, 0, report)
	if err != nil && isTransientUSBError(err) {
		return hidlock.ErrWouldBlock
	}
	return err
}

// SetLEDSink forwards a host LED byte to the fixture so its firmware
// emulation can echo num/caps/scroll lock state back visually.
func (b *Bridge) SetLEDSink(ledByte byte) error {
	return b.controlTransfer(bReqSetLEDSink, uint16(ledByte), 0, nil)
}

// Close releases USB resources.
func (b *Bridge) Close() {
	b.dev.Close()
	b.ctx.Close()
}

func (b *Bridge) controlTransfer(bRequest uint8, wValue, wIndex uint16, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	_, err := b.dev.Control(bmRequestTypeOut, bRequest, wValue, wIndex, data)
	if err != nil {
		return fmt.Errorf("hidbridge: control transfer (req=%d wValue=%d wIndex=%d): %w", bRequest, wValue, wIndex, err)
	}
	return nil
}
