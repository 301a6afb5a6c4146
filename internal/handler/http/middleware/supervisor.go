package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/arcadehq/workforce-client-go/internal/handler/http/response"
)

// SupervisorRequired gates destructive local endpoints behind a valid
// supervisor unlock token.
func SupervisorRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "Supervisor unlock required")
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.Unauthorized(w, "Supervisor unlock required")
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != "supervisor" || !ok {
				response.Unauthorized(w, "Supervisor unlock required")
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
