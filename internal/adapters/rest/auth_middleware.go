package rest

import (
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
	"landmark-service/internal/core/port/usecases_port"
	"net/http"
	"strings"
)

type AuthMiddleware struct {
	validateUC usecases_port.ValidateTokenUseCasePort
}

func NewAuthMiddleware(validateUC usecases_port.ValidateTokenUseCasePort) *AuthMiddleware {
	return &AuthMiddleware{validateUC: validateUC}
}

// Authenticate resolves the bearer token once per request and stores the caller identity
// in the context.
func (am *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"middleware": "Authenticate"})

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			WriteJSONError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			WriteJSONError(w, http.StatusUnauthorized, "Invalid token format")
			return
		}

		identity, err := am.validateUC.Execute(r.Context(), tokenString)
		if err != nil {
			logger.Warn("Token rejected", port.Fields{"error": err.Error()})
			WriteJSONError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := contextkeys.ContextWithIdentity(r.Context(), identity)
		ctx = contextkeys.ContextWithLogger(ctx, contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
			"user_id": identity.UserID.String(),
		}))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// identityFromRequest writes 401 when the request carries no identity.
func identityFromRequest(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	identity, ok := contextkeys.IdentityFromContext(r.Context())
	if !ok {
		contextkeys.LoggerFromContext(r.Context()).Error("Identity missing in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
		return domain.Identity{}, false
	}
	return identity, true
}
