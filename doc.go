// Package offcache implements an offline-first asset cache with
// stale-while-revalidate semantics and versioned cache generations.
// A cached entry is returned immediately while a background fetch refreshes
// it for next time; when neither cache nor network can answer, a fixed
// 503 "Offline" response is served instead of an error.
//
// Components:
//   - Provider: byte store with TTL (e.g. Ristretto, BigCache, Redis).
//   - Fetcher: the upstream ("network") side; origin.Client wraps net/http.
//   - GenStore: generation registry (labels, key membership, current label).
//     Local (in-process) by default, optional Redis implementation for
//     multi-replica deployments.
//   - Codec[http.Header]: serializes stored response headers (CBOR default).
//
// Keys:
//
//	asset:<version>:<method> <url>  - one stored response per request identity
//
// Lifecycle:
//
//	ctrl, _ := offcache.New(offcache.Options{Version: "v3", Provider: p, Origin: o})
//	_ = ctrl.Install(ctx)  // precache; all-or-nothing
//	_ = ctrl.Activate(ctx) // claim control, purge superseded generations
//	resp, _ := ctrl.Handle(ctx, &offcache.Request{Method: "GET", URL: "/map"})
package offcache
