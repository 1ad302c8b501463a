//go:build !unix

package stderr

import "github.com/rs/zerolog"

// Capture is a no-op where fd 2 cannot be redirected.
type Capture struct{}

// Start does nothing on this platform.
func Start(zerolog.Logger) (*Capture, error) { return &Capture{}, nil }

// Stop does nothing on this platform.
func (c *Capture) Stop() {}
