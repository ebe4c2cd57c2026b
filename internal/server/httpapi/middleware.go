package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/wallet/internal/common"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging logs method, path, status and duration for every request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// withIdentityResolution is the request filter. It never rejects: a missing
// or malformed Authorization header, an unparsable token, or a token that
// does not verify against its own subject's record all degrade the request
// to anonymous. requireAuth decides whether anonymous is acceptable.
func (s *Server) withIdentityResolution(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		subject, err := s.auth.ExtractSubject(token)
		if err != nil {
			s.logger.Debug(r.Context(), "token rejected", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		user, err := s.auth.ResolveIdentity(r.Context(), subject)
		if err != nil || !s.auth.VerifyTokenFor(token, user) {
			s.logger.Debug(r.Context(), "identity resolution failed", "subject", subject)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), user.Identity())))
	})
}

// requireAuth rejects requests that carry no resolved identity.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFrom(r.Context()); !ok {
			s.writeError(w, r, common.ErrAuthenticationRequired)
			return
		}
		next(w, r)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
