package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/promptdeck/promptdeck/pkg/handlers"
	"github.com/promptdeck/promptdeck/pkg/lifecycle"
	"github.com/promptdeck/promptdeck/pkg/response"
)

// TokenVerifier validates a raw bearer token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (Claims, error)
}

// System authenticates requests and attaches the acting identity to the
// request context.
type System interface {
	// Start registers a startup hook discovering the OIDC provider.
	Start(lc *lifecycle.Coordinator) error
	// Middleware returns the authentication middleware.
	Middleware() func(http.Handler) http.Handler
}

type authenticator struct {
	cfg    *Config
	logger *slog.Logger

	mu       sync.RWMutex
	verifier TokenVerifier
}

// New creates a session system from the given configuration. Provider
// discovery is deferred until Start.
func New(cfg *Config, logger *slog.Logger) System {
	return &authenticator{
		cfg:    cfg,
		logger: logger.With("system", "session"),
	}
}

// NewWithVerifier creates a session system with a pre-built verifier,
// bypassing provider discovery.
func NewWithVerifier(cfg *Config, logger *slog.Logger, verifier TokenVerifier) System {
	return &authenticator{
		cfg:      cfg,
		logger:   logger.With("system", "session"),
		verifier: verifier,
	}
}

func (a *authenticator) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting session system")

	lc.OnStartup(func() {
		a.mu.RLock()
		ready := a.verifier != nil
		a.mu.RUnlock()
		if ready {
			return
		}

		provider, err := oidc.NewProvider(lc.Context(), a.cfg.Issuer)
		if err != nil {
			a.logger.Error("oidc provider discovery failed", "issuer", a.cfg.Issuer, "error", err)
			return
		}

		verifier := oidcVerifier{
			verifier: provider.Verifier(&oidc.Config{ClientID: a.cfg.ClientID}),
		}

		a.mu.Lock()
		a.verifier = verifier
		a.mu.Unlock()

		a.logger.Info("session system ready", "issuer", a.cfg.Issuer)
	})

	return nil
}

// Middleware verifies the bearer token, builds the acting identity, and
// stores it on the request context. Requests without a valid token receive
// an UNAUTHORIZED envelope.
func (a *authenticator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a.mu.RLock()
			verifier := a.verifier
			a.mu.RUnlock()

			if verifier == nil {
				handlers.RespondError(
					w, a.logger,
					http.StatusServiceUnavailable,
					fmt.Errorf("authentication not ready"),
				)
				return
			}

			raw, ok := bearerToken(r)
			if !ok {
				respondUnauthorized(w, "Missing bearer token")
				return
			}

			claims, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				a.logger.Warn("token verification failed", "error", err)
				respondUnauthorized(w, "Invalid bearer token")
				return
			}

			identity := Identity{
				ID:      HashID(claims.Subject),
				Email:   claims.Email,
				IsAdmin: a.cfg.IsAdminEmail(claims.Email),
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

type oidcVerifier struct {
	verifier *oidc.IDTokenVerifier
}

func (o oidcVerifier) Verify(ctx context.Context, raw string) (Claims, error) {
	token, err := o.verifier.Verify(ctx, raw)
	if err != nil {
		return Claims{}, err
	}

	var extra struct {
		Email string `json:"email"`
	}
	if err := token.Claims(&extra); err != nil {
		return Claims{}, fmt.Errorf("decode claims: %w", err)
	}

	return Claims{Subject: token.Subject, Email: extra.Email}, nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	envelope := response.Unauthorized[struct{}](message)
	handlers.RespondJSON(w, http.StatusUnauthorized, envelope)
}
