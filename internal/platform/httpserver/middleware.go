package httpserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	forumentities "moringadesk/contexts/community-qa/forum-service/domain/entities"
	authentities "moringadesk/contexts/identity-access/auth-service/domain/entities"
	autherrors "moringadesk/contexts/identity-access/auth-service/domain/errors"
)

const viewerSessionHeader = "X-Viewer-Session"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.metrics.inFlight.Inc()
		defer s.metrics.inFlight.Dec()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		_, route := s.mux.Handler(r)
		if route == "" {
			route = "unmatched"
		}
		s.metrics.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		s.metrics.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if _, ok := s.origins[origin]; ok && origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+viewerSessionHeader)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// authenticate resolves the bearer token. It writes the 401 itself and
// reports false when the caller is not signed in.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (authentities.Identity, bool) {
	token := bearerToken(r)
	if token == "" {
		writeDomainError(w, autherrors.ErrUnauthenticated)
		return authentities.Identity{}, false
	}
	identity, err := s.auth.Handler.ResolveIdentityHandler(r.Context(), token)
	if err != nil {
		writeDomainError(w, err)
		return authentities.Identity{}, false
	}
	return identity, true
}

func (s *Server) forumActor(w http.ResponseWriter, r *http.Request) (forumentities.Actor, bool) {
	identity, ok := s.authenticate(w, r)
	if !ok {
		return forumentities.Actor{}, false
	}
	return toForumActor(identity), true
}

// optionalIdentity resolves a bearer token when one is present and valid.
func (s *Server) optionalIdentity(r *http.Request) (authentities.Identity, bool) {
	token := bearerToken(r)
	if token == "" {
		return authentities.Identity{}, false
	}
	identity, err := s.auth.Handler.ResolveIdentityHandler(r.Context(), token)
	if err != nil {
		return authentities.Identity{}, false
	}
	return identity, true
}

func toForumActor(identity authentities.Identity) forumentities.Actor {
	return forumentities.Actor{
		UserID: identity.UserID,
		Role:   forumentities.Role(identity.Role),
	}
}
