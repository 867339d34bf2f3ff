package web

import (
	"context"
	"net/http"

	"github.com/martyvasquez/lineupai-sub000/internal/core"
	mw "github.com/martyvasquez/lineupai-sub000/internal/web/middleware"
)

// withClient adds the client IP and User-Agent to the request context for
// the import history.
func withClient(r *http.Request) context.Context {
	return core.ContextWithClient(r.Context(), mw.ClientIP(r), r.UserAgent())
}
