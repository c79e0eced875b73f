// ABOUTME: HTTP handlers for the card registry, including the rule-gated stage change.
// ABOUTME: Listing accepts an assignee or stage filter; stage outcomes feed the transition counter.
package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/2389-research/kanban/board"
)

// handleListCards serves all cards, or a filtered listing when exactly one
// of ?assignee= or ?stage= is present.
func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	_, byAssignee := q["assignee"]
	_, byStage := q["stage"]

	var (
		cards []board.Card
		err   error
	)
	switch {
	case byAssignee && byStage:
		writeFailure(w, http.StatusBadRequest, KindValidation, "filter by assignee or stage, not both")
		return
	case byAssignee:
		cards, err = s.board.ListCardsByAssignee(r.Context(), q.Get("assignee"))
	case byStage:
		cards, err = s.board.ListCardsByStage(r.Context(), q.Get("stage"))
	default:
		cards, err = s.board.ListCards(r.Context())
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, cards)
}

func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	var req board.CardPayload
	if !decodeBody(w, r, &req) {
		return
	}
	card, err := s.board.AddCard(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, card)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	card, err := s.board.GetCard(r.Context(), chi.URLParam(r, "cardID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, card)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	var req board.CardPayload
	if !decodeBody(w, r, &req) {
		return
	}
	card, err := s.board.UpdateCard(r.Context(), chi.URLParam(r, "cardID"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	card, err := s.board.DeleteCard(r.Context(), chi.URLParam(r, "cardID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, card)
}

func (s *Server) handleUpdateCardStage(w http.ResponseWriter, r *http.Request) {
	var req board.StagePayload
	if !decodeBody(w, r, &req) {
		return
	}
	stage, err := s.board.UpdateCardStage(r.Context(), chi.URLParam(r, "cardID"), req.Stage)
	switch {
	case errors.Is(err, board.ErrInvalidTransition):
		s.metrics.transition(transitionDenied)
	case err == nil:
		s.metrics.transition(transitionAllowed)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, board.StagePayload{Stage: stage})
}
