package codec

import (
	"net/http"
	"reflect"
	"strings"
	"testing"
)

func TestHeaderCodecsRoundTrip(t *testing.T) {
	cb, err := NewCBOR[http.Header]()
	if err != nil {
		t.Fatalf("NewCBOR: %v", err)
	}
	codecs := map[string]Codec[http.Header]{
		"cbor":    cb,
		"json":    JSON[http.Header]{},
		"msgpack": Msgpack[http.Header]{},
	}

	h := http.Header{}
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Cache-Control", "no-cache")
	h.Add("Vary", "Accept")
	h.Add("Vary", "Accept-Encoding")

	for name, c := range codecs {
		t.Run(name, func(t *testing.T) {
			b, err := c.Encode(h)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := c.Decode(b)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(got, h) {
				t.Fatalf("round trip mismatch:\n got %v\nwant %v", got, h)
			}
		})
	}
}

func TestLimitCapsDecodeOnly(t *testing.T) {
	h := http.Header{}
	h.Set("X-Big", strings.Repeat("a", 256))

	l := Limit[http.Header]{Inner: JSON[http.Header]{}, MaxDecode: 64}

	// Encode is forwarded regardless of size.
	b, err := l.Encode(h)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(b) <= l.MaxDecode {
		t.Fatalf("test payload too small: %d bytes", len(b))
	}

	if _, err := l.Decode(b); err == nil {
		t.Fatalf("oversized payload decoded")
	}

	// Under the cap the inner codec decides.
	l.MaxDecode = len(b) + 1
	got, err := l.Decode(b)
	if err != nil {
		t.Fatalf("Decode under cap: %v", err)
	}
	if got.Get("X-Big") != h.Get("X-Big") {
		t.Fatalf("decoded header mismatch")
	}
}
