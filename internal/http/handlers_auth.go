package http

import (
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/auth"
	"fintrack/internal/core"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "malformed request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	user, err := s.users.CreateUser(r.Context(), core.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         core.RoleMember,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "User registered", "user_id", user.ID, "email", user.Email)

	respondData(w, http.StatusCreated, userResponse{
		ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "malformed request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	user, err := s.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		// same response for unknown email and wrong password
		if errors.Is(err, core.ErrNotFound) {
			writeJSON(w, http.StatusUnauthorized, envelope{
				Status: "error", Code: http.StatusUnauthorized, Message: "invalid credentials",
			})
			return
		}
		respondError(w, r, err)
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		writeJSON(w, http.StatusUnauthorized, envelope{
			Status: "error", Code: http.StatusUnauthorized, Message: "invalid credentials",
		})
		return
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"token": token,
		"user": userResponse{
			ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role,
		},
	})
}

func (s *Server) handleUserDetails(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	user, err := s.users.GetUser(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusOK, userResponse{
		ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role,
	})
}
