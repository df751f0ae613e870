package request

import (
	"net/http"

	dErrors "cyphex/pkg/domain-errors"
	"cyphex/pkg/platform/httputil"
)

// BodyLimit caps request bodies at maxBytes. A declared Content-Length over the
// limit is rejected up front; otherwise the body is wrapped in
// http.MaxBytesReader and the decoder reports the overflow.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				httputil.WriteError(w, dErrors.New(dErrors.CodePayloadTooLarge, "request body too large"))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
