package httpserver

import (
	"net/http"

	authhttp "moringadesk/contexts/identity-access/auth-service/transport/http"
)

func (s *Server) registerAuthRoutes() {
	s.mux.HandleFunc("POST /auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /auth/login", s.handleLogin)
	s.mux.HandleFunc("POST /auth/forgot-password", s.handleForgotPassword)
	s.mux.HandleFunc("POST /auth/reset-password", s.handleResetPassword)
	s.mux.HandleFunc("GET /auth/me", s.handleMe)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req authhttp.RegisterRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := s.auth.Handler.RegisterHandler(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req authhttp.LoginRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := s.auth.Handler.LoginHandler(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req authhttp.ForgotPasswordRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := s.auth.Handler.ForgotPasswordHandler(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req authhttp.ResetPasswordRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := s.auth.Handler.ResetPasswordHandler(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	resp, err := s.auth.Handler.MeHandler(r.Context(), identity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
