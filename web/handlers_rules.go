// ABOUTME: HTTP handlers for the configuration singleton, the transition rule registry, and the
// ABOUTME: standalone transition check.
package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/2389-research/kanban/board"
)

func (s *Server) handleGetConfiguration(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.board.GetConfiguration(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, cfg)
}

func (s *Server) handleSetConfiguration(w http.ResponseWriter, r *http.Request) {
	var req board.Configuration
	if !decodeBody(w, r, &req) {
		return
	}
	cfg, err := s.board.SetConfiguration(r.Context(), req.InitialStage)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, cfg)
}

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.board.ListRules(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, rules)
}

func (s *Server) handleAddRule(w http.ResponseWriter, r *http.Request) {
	var req board.RulePayload
	if !decodeBody(w, r, &req) {
		return
	}
	rule, err := s.board.AddRule(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, rule)
}

func (s *Server) handleGetRule(w http.ResponseWriter, r *http.Request) {
	rule, err := s.board.GetRule(r.Context(), chi.URLParam(r, "ruleID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, rule)
}

func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	var req board.RulePayload
	if !decodeBody(w, r, &req) {
		return
	}
	rule, err := s.board.UpdateRule(r.Context(), chi.URLParam(r, "ruleID"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, rule)
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	rule, err := s.board.DeleteRule(r.Context(), chi.URLParam(r, "ruleID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, rule)
}

type transitionCheck struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Allowed bool   `json:"allowed"`
}

func (s *Server) handleCheckTransition(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	allowed, err := s.board.IsTransitionAllowed(r.Context(), from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, transitionCheck{From: from, To: to, Allowed: allowed})
}
