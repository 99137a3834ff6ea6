package httpserver

import (
	"net/http"

	forumhttp "moringadesk/contexts/community-qa/forum-service/transport/http"
	authhttp "moringadesk/contexts/identity-access/auth-service/transport/http"
)

func (s *Server) registerAdminRoutes() {
	s.mux.HandleFunc("PATCH /admin/content/questions/{question_id}", s.handleAdminUpdateQuestion)
	s.mux.HandleFunc("DELETE /admin/content/questions/{question_id}", s.handleAdminDeleteQuestion)
	s.mux.HandleFunc("PATCH /admin/content/answers/{answer_id}", s.handleAdminUpdateAnswer)
	s.mux.HandleFunc("DELETE /admin/content/answers/{answer_id}", s.handleAdminDeleteAnswer)

	s.mux.HandleFunc("GET /admin/users", s.handleListUsers)
	s.mux.HandleFunc("PATCH /admin/users/{user_id}", s.handleUpdateRole)
	s.mux.HandleFunc("DELETE /admin/users/{user_id}", s.handleDeleteUser)
}

func (s *Server) handleAdminUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	var req forumhttp.UpdateQuestionRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := s.forum.Handler.UpdateQuestionHandler(r.Context(), actor, r.PathValue("question_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdminDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	if err := s.forum.Handler.DeleteQuestionHandler(r.Context(), actor, r.PathValue("question_id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forumhttp.DeletedResponse{Deleted: true})
}

func (s *Server) handleAdminUpdateAnswer(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	var req forumhttp.UpdateAnswerRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := s.forum.Handler.UpdateAnswerHandler(r.Context(), actor, r.PathValue("answer_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdminDeleteAnswer(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	if err := s.forum.Handler.DeleteAnswerHandler(r.Context(), actor, r.PathValue("answer_id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forumhttp.DeletedResponse{Deleted: true})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	items, err := s.auth.Handler.ListUsersHandler(r.Context(), identity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	var req authhttp.UpdateRoleRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := s.auth.Handler.UpdateRoleHandler(r.Context(), identity, r.PathValue("user_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	resp, err := s.auth.Handler.DeleteUserHandler(r.Context(), identity, r.PathValue("user_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
