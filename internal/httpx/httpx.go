// Package httpx bridges fasthttp request state into net/http types so the
// resolution pipeline can stay transport-agnostic and directly testable.
package httpx

import (
	"net/http"

	"github.com/valyala/fasthttp"
)

// RequestHeaders copies the headers of a fasthttp request into an
// http.Header. Keys are canonicalized the net/http way, which is what the
// pipeline's lookups expect.
func RequestHeaders(req *fasthttp.Request) http.Header {
	h := make(http.Header)
	req.Header.VisitAll(func(key, value []byte) {
		h.Add(string(key), string(value))
	})
	return h
}
