//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris || zos
// +build aix darwin dragonfly freebsd linux netbsd openbsd solaris zos

package hidbridge

import (
	"errors"

	"golang.org/x/sys/unix"
)

// isTransientUSBError reports whether err looks like a transient,
// retryable USB condition (e.g. EBUSY/EAGAIN surfaced from libusb)
// rather than a fixture that's genuinely gone.
func isTransientUSBError(err error) bool {
	return errors.Is(err, unix.EBUSY) || errors.Is(err, unix.EAGAIN)
}
