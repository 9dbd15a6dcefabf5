package main

import (
	"fmt"
	"net/http"
)

// upstreamTransport wraps a RoundTripper to add the Authorization header and to
// forward the request ID of the inbound request that triggered the call.
type upstreamTransport struct {
	BaseTransport http.RoundTripper
	Token         string
}

// RoundTrip implements the RoundTripper interface to modify the request.
func (t *upstreamTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid side effects
	reqClone := req.Clone(req.Context())

	if t.Token != "" {
		reqClone.Header.Set("Authorization", fmt.Sprintf("Bearer %s", t.Token))
	}
	if id := requestIDFromContext(req.Context()); id != "" && reqClone.Header.Get(requestIDHeader) == "" {
		reqClone.Header.Set(requestIDHeader, id)
	}

	base := t.BaseTransport
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(reqClone)
}
