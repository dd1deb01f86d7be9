package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"saweb/api/internal/auth"
	"saweb/api/internal/model"
	"saweb/api/internal/revoke"
)

type claimsKey struct{}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

// authenticate verifies the bearer claim and stores it in the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.BearerToken(r.Header.Get("Authorization"))
		switch {
		case errors.Is(err, auth.ErrMissingToken):
			writeError(w, http.StatusUnauthorized, "No authentication token provided")
			return
		case err != nil:
			writeError(w, http.StatusUnauthorized, "Invalid token format")
			return
		}

		claims, err := auth.ParseToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, token)
		if err != nil {
			s.log.Debug("token verification failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
			s.writeFailure(w, http.StatusForbidden, "Token invalid or expired", err)
			return
		}

		if claims.IssuedAt != nil {
			// Lookup errors fail open.
			revoked, err := revoke.Revoked(r.Context(), s.revoked, claims.UserID, claims.IssuedAt.Time)
			if err != nil {
				s.log.Warn("revocation lookup failed", "error", err, "user_id", claims.UserID)
			} else if revoked {
				writeError(w, http.StatusForbidden, "Token invalid or expired")
				return
			}
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authorize admits only claims whose role is in allowed.
func (s *Server) authorize(allowed ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := auth.Authorize(claimsFromContext(r.Context()), allowed...)
			switch {
			case errors.Is(err, auth.ErrUnauthenticated):
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			case err != nil:
				writeError(w, http.StatusForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// recoverer turns a handler panic into the generic 500 response.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			s.log.Error("unhandled panic",
				"panic", fmt.Sprint(rec),
				"path", r.URL.Path,
				"request_id", middleware.GetReqID(r.Context()),
				"stack", string(debug.Stack()),
			)
			s.writeFailure(w, http.StatusInternalServerError, "Server error", fmt.Errorf("%v", rec))
		}()
		next.ServeHTTP(w, r)
	})
}
