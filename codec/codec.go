// Package codec provides pluggable serialization for values stored inside
// wire frames. The controller uses a Codec[http.Header] for stored response
// headers; CBOR is the default, with JSON and Msgpack as alternatives.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
