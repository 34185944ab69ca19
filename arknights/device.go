package arknights

import (
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

// DeviceIDs is the triple of device identifiers attached to attested
// requests: two UUID-derived 32-character ids and an IMEI-shaped numeric id.
type DeviceIDs [3]string

// newDeviceIDs generates a fresh triple. The middle identifier is a 15-digit
// string with a fixed carrier prefix; upstream tolerates the missing IMEI
// check digit.
func newDeviceIDs() DeviceIDs {
	return DeviceIDs{
		strings.ReplaceAll(uuid.NewString(), "-", ""),
		"86" + randomDigits(13),
		strings.ReplaceAll(uuid.NewString(), "-", ""),
	}
}

func randomDigits(n int) string {
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(byte('0' + rand.IntN(10)))
	}
	return b.String()
}

// RegenerateDeviceIDs replaces the client's device identity triple. In-flight
// requests holding the old values are unaffected.
func (c *Client) RegenerateDeviceIDs() {
	c.mu.Lock()
	c.devices = newDeviceIDs()
	c.mu.Unlock()
}

// DeviceIDs returns the client's current device identity triple.
func (c *Client) DeviceIDs() DeviceIDs {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.devices
}
