package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Zahir-Seid/recycle-rewards-hub/internal/server/models"
)

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	FaydaNumber string `json:"fayda_number"`
	PhoneNumber string `json:"phone_number"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type startSessionRequest struct {
	MachineID string `json:"machine_id"`
	Code      string `json:"code"`
}

type bindSessionRequest struct {
	Code string `json:"code"`
}

type depositRequest struct {
	MachineID string `json:"machine_id"`
	Code      string `json:"code"`
	Count     int    `json:"count"`
}

type depositResponse struct {
	ID        string    `json:"id"`
	MachineID string    `json:"machine_id"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"created_at"`
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := s.users.Register(r.Context(), req.Email, req.Password, req.FullName, req.FaydaNumber, req.PhoneNumber)
	if err != nil {
		s.logger.Error(r.Context(), "registration failed", "error", err.Error())
		writeDomainError(w, err)
		return
	}

	s.logger.Info(r.Context(), "registered", "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "registered"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}

	token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"access_token": token})
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if !decode(w, r, &req) {
		return
	}

	sessionID, err := s.sessions.StartSession(r.Context(), req.MachineID, req.Code)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.logger.Info(r.Context(), "session created", "session_id", sessionID, "machine_id", req.MachineID)
	writeJSON(w, http.StatusOK, map[string]string{
		"message":    "session created",
		"session_id": sessionID,
	})
}

func (s *Server) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")

	status, err := s.sessions.Status(r.Context(), code)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]models.SessionStatus{"status": status})
}

func (s *Server) handleBindSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req bindSessionRequest
	if !decode(w, r, &req) {
		return
	}

	if err := s.sessions.Bind(r.Context(), req.Code, userID); err != nil {
		writeDomainError(w, err)
		return
	}

	s.logger.Info(r.Context(), "session bound", "user_id", userID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "session bound"})
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if !decode(w, r, &req) {
		return
	}

	depositID, err := s.sessions.RecordDeposit(r.Context(), req.Code, req.MachineID, req.Count)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.logger.Info(r.Context(), "deposit saved", "deposit_id", depositID, "machine_id", req.MachineID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "deposit saved"})
}

func (s *Server) handleListDeposits(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	history, err := s.deposits.History(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result := make([]depositResponse, 0, len(history))
	for _, d := range history {
		result = append(result, depositResponse{
			ID:        d.ID,
			MachineID: d.MachineID,
			Count:     d.Count,
			CreatedAt: d.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"deposits": result})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	user, err := s.users.Profile(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":           user.ID,
		"email":        user.Email,
		"full_name":    user.FullName,
		"fayda_number": user.FaydaNumber,
		"phone_number": user.PhoneNumber,
	})
}
