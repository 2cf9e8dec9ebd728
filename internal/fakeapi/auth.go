package fakeapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/upscprep/prepdesk/internal/domain"
)

func (s *Server) tokenResponse(w http.ResponseWriter, status int, id domain.Identity) {
	access, refresh, err := s.tokens.issue(id.ID)
	if err != nil {
		s.logger.Error("Failed to issue tokens", "user_id", id.ID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to issue tokens")
		return
	}
	JSON(w, status, domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		User:         id,
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &in) {
		return
	}

	id, err := s.data.authenticate(in.Email, in.Password)
	if err != nil {
		Error(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	s.logger.Info("User signed in", "user_id", id.ID)
	s.tokenResponse(w, http.StatusOK, id)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in domain.Registration
	if !decode(w, r, &in) {
		return
	}
	if !strings.Contains(in.Email, "@") || len(in.Password) < 6 || strings.TrimSpace(in.FullName) == "" {
		Error(w, http.StatusUnprocessableEntity, "email, password (min 6) and full_name are required")
		return
	}
	if in.Role == "" {
		in.Role = domain.RoleCandidate
	}
	if !in.Role.Valid() {
		Error(w, http.StatusUnprocessableEntity, "role must be aspirant or mentor")
		return
	}

	id, err := s.data.register(in)
	if errors.Is(err, errEmailTaken) {
		Error(w, http.StatusBadRequest, "Email already registered")
		return
	}
	if err != nil {
		s.logger.Error("Failed to register user", "error", err)
		Error(w, http.StatusInternalServerError, "failed to register")
		return
	}
	s.logger.Info("User registered", "user_id", id.ID, "role", id.Role)
	s.tokenResponse(w, http.StatusCreated, id)
}

// refresh accepts the refresh token as a JSON body or as a query parameter.
func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("refresh_token")
	if token == "" {
		var in struct {
			RefreshToken string `json:"refresh_token"`
		}
		if !decode(w, r, &in) {
			return
		}
		token = in.RefreshToken
	}

	userID, err := s.tokens.verify(token, tokenTypeRefresh)
	if err != nil {
		Error(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	id, ok := s.data.userByID(userID)
	if !ok {
		Error(w, http.StatusUnauthorized, "User not found or deactivated")
		return
	}
	s.tokenResponse(w, http.StatusOK, id)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	id, ok := s.data.userByID(UserIDFromContext(r.Context()))
	if !ok {
		Error(w, http.StatusUnauthorized, "User not found or deactivated")
		return
	}
	JSON(w, http.StatusOK, id)
}
