package kit

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// UnmatchedRoute labels requests no route claimed. Raw paths would let any
// client mint new label values.
const UnmatchedRoute = "unmatched"

// RouteLabel returns the chi pattern that served r, e.g.
// "/api/categories/{categoryId}". It must run after routing. A pattern still
// ending in "/*" means a sub-router took the prefix but nothing inside matched.
func RouteLabel(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return UnmatchedRoute
	}
	if rp := rctx.RoutePattern(); rp != "" && !strings.HasSuffix(rp, "/*") {
		return rp
	}
	return UnmatchedRoute
}
