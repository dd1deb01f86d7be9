package http

import (
	"errors"
	"net/http"

	"saweb/api/internal/auth"
	"saweb/api/internal/crypto"
	"saweb/api/internal/model"
	"saweb/api/internal/repository"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

type verifiedUser struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type verifyResponse struct {
	Message string       `json:"message"`
	User    verifiedUser `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.bind(w, r, &req, "Username and password required") {
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid login credentials")
			return
		}
		s.log.Error("login lookup failed", "error", err)
		s.writeFailure(w, http.StatusInternalServerError, "Database connection error", err)
		return
	}

	if err := crypto.CheckPassword(user.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid login credentials")
		return
	}
	if !user.Role.Valid() {
		s.log.Warn("login for user with unknown role", "user_id", user.ID)
		writeError(w, http.StatusUnauthorized, "Invalid login credentials")
		return
	}

	token, err := auth.NewAccessToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.TokenTTL, auth.Claims{
		UserID: user.ID,
		Role:   user.Role.String(),
	})
	if err != nil {
		s.log.Error("sign token", "error", err)
		s.writeFailure(w, http.StatusInternalServerError, "Server error", err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user.Public()})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	writeJSON(w, http.StatusOK, verifyResponse{
		Message: "Token valid",
		User:    verifiedUser{UserID: claims.UserID, Role: claims.Role},
	})
}
