package middleware

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"zoo/pkg/auth"
	apperrors "zoo/pkg/errors"
	httputil "zoo/pkg/http"
	"zoo/pkg/logger"
)

type AccessVerifier interface {
	VerifyAccess(token string) (*auth.AccessClaims, error)
}

// Guard authenticates bearer tokens and enforces role and permission policy
// per route.
type Guard struct {
	verifier AccessVerifier
	log      *logger.Logger
}

func NewGuard(verifier AccessVerifier, log *logger.Logger) *Guard {
	return &Guard{verifier: verifier, log: log}
}

// Authenticated admits any caller holding a valid access token.
func (g *Guard) Authenticated(next httprouter.Handle) httprouter.Handle {
	return g.Protect(nil, nil, next)
}

// RequirePermission admits callers holding every listed permission.
func (g *Guard) RequirePermission(next httprouter.Handle, perms ...string) httprouter.Handle {
	return g.Protect(nil, perms, next)
}

// RequireRole admits callers whose role is listed.
func (g *Guard) RequireRole(next httprouter.Handle, roles ...string) httprouter.Handle {
	return g.Protect(roles, nil, next)
}

func (g *Guard) Protect(roles, perms []string, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token := httputil.BearerToken(r)
		if token == "" {
			_ = httputil.WriteError(w, apperrors.Unauthorized("Access token required"))
			return
		}

		claims, err := g.verifier.VerifyAccess(token)
		if err != nil {
			g.log.FromContext(r.Context()).Debug("Rejected access token", "error", err)
			_ = httputil.WriteError(w, apperrors.Unauthorized("Invalid or expired token"))
			return
		}

		if !auth.Allowed(claims, roles, perms) {
			g.log.FromContext(r.Context()).Warn("Access denied",
				"staff_id", claims.Subject,
				"role", claims.Role,
				"path", r.URL.Path,
			)
			_ = httputil.WriteError(w, apperrors.Forbidden("Insufficient permissions"))
			return
		}

		next(w, r.WithContext(auth.ContextWithClaims(r.Context(), claims)), ps)
	}
}
