package offcache

import "net/http"

// ResponseClass is how the fetch layer classifies a response relative to the
// configured origin. Only Basic and Opaque responses may be stored.
type ResponseClass uint8

const (
	// ClassBasic is a same-origin response.
	ClassBasic ResponseClass = iota
	// ClassOpaque is a cross-origin response, cacheable as an atomic blob.
	ClassOpaque
	// ClassError marks a response synthesized by the controller itself
	// (the offline fallback). Never stored.
	ClassError
)

func (c ResponseClass) String() string {
	switch c {
	case ClassBasic:
		return "basic"
	case ClassOpaque:
		return "opaque"
	case ClassError:
		return "error"
	default:
		return "unknown"
	}
}

// Request identifies one interceptable request. URL is either a bare path
// resolved against the origin's base ("/map") or an absolute URL for
// cross-origin assets. Body is only used for non-GET passthrough.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Key returns the cache identity of the request: method + URL.
// Entries are unique per key within a generation.
func (r *Request) Key() string {
	return r.Method + " " + r.URL
}

// Response is a fully buffered response. The body is plain bytes rather than
// a stream so the duplicate-before-dual-use rule is explicit: code that both
// returns a response to a caller and persists it must Clone first.
type Response struct {
	Class  ResponseClass
	Status int
	Header http.Header
	Body   []byte
}

// Cacheable reports whether a successfully fetched response may be stored:
// same-origin ("basic") and cross-origin opaque responses only, regardless
// of status code.
func (r *Response) Cacheable() bool {
	return r != nil && (r.Class == ClassBasic || r.Class == ClassOpaque)
}

// Clone returns a deep copy sharing nothing with the receiver.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	cp := &Response{
		Class:  r.Class,
		Status: r.Status,
	}
	if r.Header != nil {
		cp.Header = r.Header.Clone()
	}
	if r.Body != nil {
		cp.Body = make([]byte, len(r.Body))
		copy(cp.Body, r.Body)
	}
	return cp
}

// offlineResponse is the synthetic fallback served when no cached entry
// exists and the origin fetch fails.
func offlineResponse() *Response {
	h := http.Header{}
	h.Set("Content-Type", "text/plain; charset=utf-8")
	return &Response{
		Class:  ClassError,
		Status: http.StatusServiceUnavailable,
		Header: h,
		Body:   []byte("Offline"),
	}
}
