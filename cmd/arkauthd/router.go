package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/myrtle-moe/arkauth/arknights"
)

type server struct {
	client *arknights.Client
}

func newRouter(client *arknights.Client) *mux.Router {
	s := &server{client: client}

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/send-code", s.handleSendCode).Methods("POST")
	api.HandleFunc("/auth/login", s.handleLogin).Methods("POST")
	api.HandleFunc("/user/sync", s.handleSync).Methods("POST")
	return r
}

type sendCodeRequest struct {
	Email  string `json:"email"`
	Server string `json:"server"`
}

type loginRequest struct {
	Email  string `json:"email"`
	Code   string `json:"code"`
	Server string `json:"server"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	UID     string `json:"uid,omitempty"`
	Secret  string `json:"secret,omitempty"`
	Seqnum  int    `json:"seqnum,omitempty"`
	Error   string `json:"error,omitempty"`
}

type syncRequest struct {
	Server string `json:"server"`
	UID    string `json:"uid"`
	Secret string `json:"secret"`
	Seqnum int    `json:"seqnum"`
}

func (s *server) handleSendCode(w http.ResponseWriter, r *http.Request) {
	var req sendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	region, err := arknights.ParseRegion(req.Server)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := s.client.SendCode(r.Context(), req.Email, region); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	region, err := arknights.ParseRegion(req.Server)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || req.Code == "" {
		writeError(w, http.StatusBadRequest, "email and code are required")
		return
	}

	sess, err := s.client.Login(r.Context(), req.Email, req.Code, region, nil)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Success: true,
		UID:     sess.UID,
		Secret:  sess.Secret,
		Seqnum:  sess.Seqnum,
	})
}

func (s *server) handleSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	region, err := arknights.ParseRegion(req.Server)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := &arknights.Session{UID: req.UID, Secret: req.Secret, Seqnum: req.Seqnum}
	data, err := s.client.AuthRequest(r.Context(), "account/syncData", sess, &arknights.RequestArgs{
		Body: map[string]int{"platform": 1},
	}, region)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"seqnum":  sess.Seqnum,
		"data":    json.RawMessage(data),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, arknights.ErrRegionUnsupported),
		errors.Is(err, arknights.ErrInvalidRegion),
		errors.Is(err, arknights.ErrNotLoggedIn):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write response: %s", err)
	}
}
