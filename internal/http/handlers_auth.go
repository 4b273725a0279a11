package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AlexKMarshall/fm-personal-finance-app/internal/auth"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/core"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/storage"
)

const minPasswordLength = 8

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = sanitizeInput(req.Name)
	req.Email = strings.ToLower(sanitizeInput(req.Email))

	if req.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid email address")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusUnprocessableEntity, "password must be at least 8 characters")
		return
	}

	hash, err := s.authService.HashPassword(req.Password)
	if err != nil {
		slog.ErrorContext(r.Context(), "Password hashing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user := core.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(r.Context(), user); err != nil {
		writeStorageError(w, r, err)
		return
	}

	token, err := s.authService.GenerateToken(user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Token generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.SetCookie(w, s.authService.SessionCookie(token))
	slog.InfoContext(r.Context(), "User signed up", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.ToLower(sanitizeInput(req.Email))

	user, err := s.users.UserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Same response as a wrong password, so login probes can't
			// enumerate accounts.
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		writeStorageError(w, r, err)
		return
	}

	if err := s.authService.CompareHashAndPassword(user.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := s.authService.GenerateToken(user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Token generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.SetCookie(w, s.authService.SessionCookie(token))
	slog.InfoContext(r.Context(), "User logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ClearSessionCookie())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, userID string) {
	user, err := s.users.UserByID(r.Context(), userID)
	if err != nil {
		writeStorageError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}
