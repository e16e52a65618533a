package codec

import "fmt"

// Limit wraps another codec and rejects oversized payloads at Decode time.
// A header block in a stored frame is normally a few hundred bytes; with a
// shared provider the cap stops a mangled or hostile frame before the inner
// decoder allocates for it. Encode is forwarded unchanged.
// MaxDecode <= 0 disables the cap.
type Limit[V any] struct {
	Inner     Codec[V]
	MaxDecode int
}

func (c Limit[V]) Encode(v V) ([]byte, error) { return c.Inner.Encode(v) }
func (c Limit[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, fmt.Errorf("payload too large: %d > %d", len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
