package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"moringadesk/contexts/community-qa/forum-service/application/queries"
	forumhttp "moringadesk/contexts/community-qa/forum-service/transport/http"
)

func (s *Server) registerForumRoutes() {
	s.mux.HandleFunc("GET /questions", s.handleListQuestions)
	s.mux.HandleFunc("POST /questions", s.handleCreateQuestion)
	s.mux.HandleFunc("GET /questions/duplicates", s.handleDuplicates)
	s.mux.HandleFunc("GET /questions/{question_id}", s.handleQuestionDetail)
	s.mux.HandleFunc("GET /questions/{question_id}/answers", s.handleListAnswers)
	s.mux.HandleFunc("POST /questions/{question_id}/answers", s.handleCreateAnswer)
	s.mux.HandleFunc("POST /questions/{question_id}/answers/{answer_id}/accept", s.handleAcceptAnswer)
	s.mux.HandleFunc("POST /questions/{question_id}/follow", s.handleFollow)
	s.mux.HandleFunc("DELETE /questions/{question_id}/follow", s.handleUnfollow)
	s.mux.HandleFunc("POST /questions/{question_id}/tags", s.handleAttachTags)
	s.mux.HandleFunc("GET /questions/{question_id}/related", s.handleRelated)
	s.mux.HandleFunc("POST /questions/{question_id}/related", s.handleLinkRelated)

	s.mux.HandleFunc("POST /votes", s.handleCastVote)
	s.mux.HandleFunc("GET /votes/score", s.handleScore)

	s.mux.HandleFunc("GET /flags", s.handleListFlags)
	s.mux.HandleFunc("POST /flags", s.handleCreateFlag)
	s.mux.HandleFunc("DELETE /flags/{flag_id}", s.handleDismissFlag)

	s.mux.HandleFunc("GET /notifications", s.handleNotifications)
	s.mux.HandleFunc("POST /notifications/mark-all-read", s.handleMarkAllRead)

	s.mux.HandleFunc("GET /me/questions", s.handleMyQuestions)
	s.mux.HandleFunc("GET /me/answers", s.handleMyAnswers)
	s.mux.HandleFunc("GET /me/follows", s.handleMyFollows)

	s.mux.HandleFunc("GET /tags", s.handleListTags)
	s.mux.HandleFunc("POST /tags", s.handleCreateTag)

	s.mux.HandleFunc("GET /faqs", s.handleListFAQs)
	s.mux.HandleFunc("POST /faqs", s.handleCreateFAQ)
	s.mux.HandleFunc("PATCH /faqs/{faq_id}", s.handleUpdateFAQ)
	s.mux.HandleFunc("DELETE /faqs/{faq_id}", s.handleDeleteFAQ)
}

// queryInt reads a non-negative integer query parameter. Missing or
// malformed values fall back to def.
func queryInt(r *http.Request, key string, def int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return def
	}
	return value
}

func queryBool(r *http.Request, key string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get(key)))
	return err == nil && value
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	items, err := s.forum.Handler.ListQuestionsHandler(r.Context(), forumhttp.ListQuestionsRequest{
		Category: query.Get("category"),
		Stage:    query.Get("stage"),
		Tag:      query.Get("tag"),
		Search:   query.Get("q"),
		Limit:    queryInt(r, "limit", 0),
		Offset:   queryInt(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	var req forumhttp.CreateQuestionRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := s.forum.Handler.CreateQuestionHandler(r.Context(), actor, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleDuplicates(w http.ResponseWriter, r *http.Request) {
	items, err := s.forum.Handler.DuplicatesHandler(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleQuestionDetail(w http.ResponseWriter, r *http.Request) {
	viewer := queries.Viewer{SessionID: r.Header.Get(viewerSessionHeader)}
	if identity, ok := s.optionalIdentity(r); ok {
		viewer.UserID = identity.UserID
	}
	resp, err := s.forum.Handler.QuestionDetailHandler(r.Context(), r.PathValue("question_id"), viewer)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAnswers(w http.ResponseWriter, r *http.Request) {
	items, err := s.forum.Handler.ListAnswersHandler(r.Context(), r.PathValue("question_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateAnswer(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	var req forumhttp.CreateAnswerRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := s.forum.Handler.CreateAnswerHandler(r.Context(), actor, r.PathValue("question_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleAcceptAnswer(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	resp, err := s.forum.Handler.AcceptAnswerHandler(
		r.Context(),
		actor,
		r.PathValue("question_id"),
		r.PathValue("answer_id"),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	resp, err := s.forum.Handler.FollowHandler(r.Context(), actor, r.PathValue("question_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	if err := s.forum.Handler.UnfollowHandler(r.Context(), actor, r.PathValue("question_id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAttachTags(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	var req forumhttp.AttachTagsRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := s.forum.Handler.AttachTagsHandler(r.Context(), actor, r.PathValue("question_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRelated(w http.ResponseWriter, r *http.Request) {
	items, err := s.forum.Handler.RelatedHandler(r.Context(), r.PathValue("question_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleLinkRelated(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	var req forumhttp.LinkRelatedRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := s.forum.Handler.LinkRelatedHandler(r.Context(), actor, r.PathValue("question_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	var req forumhttp.CastVoteRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := s.forum.Handler.CastVoteHandler(r.Context(), actor, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.forum.Handler.ScoreHandler(r.Context(), query.Get("target_type"), query.Get("target_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListFlags(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	items, err := s.forum.Handler.ListFlagsHandler(r.Context(), actor, query.Get("target_type"), query.Get("target_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateFlag(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	var req forumhttp.CreateFlagRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := s.forum.Handler.CreateFlagHandler(r.Context(), actor, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleDismissFlag(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	if err := s.forum.Handler.DismissFlagHandler(r.Context(), actor, r.PathValue("flag_id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	items, err := s.forum.Handler.NotificationsHandler(r.Context(), actor, queryBool(r, "unread_only"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	resp, err := s.forum.Handler.MarkAllReadHandler(r.Context(), actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMyQuestions(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	items, err := s.forum.Handler.MyQuestionsHandler(
		r.Context(),
		actor,
		queryInt(r, "limit", 0),
		queryInt(r, "offset", 0),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleMyAnswers(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	items, err := s.forum.Handler.MyAnswersHandler(r.Context(), actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleMyFollows(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	items, err := s.forum.Handler.MyFollowsHandler(r.Context(), actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	items, err := s.forum.Handler.ListTagsHandler(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	var req forumhttp.CreateTagRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := s.forum.Handler.CreateTagHandler(r.Context(), actor, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListFAQs(w http.ResponseWriter, r *http.Request) {
	items, err := s.forum.Handler.ListFAQsHandler(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateFAQ(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	var req forumhttp.CreateFAQRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := s.forum.Handler.CreateFAQHandler(r.Context(), actor, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateFAQ(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	var req forumhttp.UpdateFAQRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := s.forum.Handler.UpdateFAQHandler(r.Context(), actor, r.PathValue("faq_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteFAQ(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.forumActor(w, r)
	if !ok {
		return
	}
	if err := s.forum.Handler.DeleteFAQHandler(r.Context(), actor, r.PathValue("faq_id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
