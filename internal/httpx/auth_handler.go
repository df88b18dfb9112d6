package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ariefcatur/go-restaurant-pos.git/internal/auth"
	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	Users  *auth.Repo
	Issuer *auth.TokenIssuer
}

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResp struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        *auth.User `json:"user"`
}

func (h *AuthHandler) Register(r *chi.Mux, mw *AuthMiddleware) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
	r.With(mw.RequireUser).Get("/auth/me", h.me)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing fields")
		return
	}
	if req.Role == "" {
		req.Role = auth.RoleCashier
	}
	if !auth.ValidRole(req.Role) {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	u := &auth.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashed,
		Role:           req.Role,
		IsActive:       true,
	}
	if err := h.Users.Create(r.Context(), u); err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			writeError(w, http.StatusBadRequest, "username already registered")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// login accepts JSON or an OAuth2-style password form.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form")
			return
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing fields")
		return
	}

	u, err := h.Users.GetByUsername(r.Context(), req.Username)
	if err != nil || !auth.CheckPassword(req.Password, u.HashedPassword) {
		writeError(w, http.StatusUnauthorized, "incorrect username or password")
		return
	}
	if !u.IsActive {
		writeError(w, http.StatusBadRequest, "inactive user")
		return
	}

	tok, err := h.Issuer.Issue(u)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tokenResp{AccessToken: tok, TokenType: "bearer", User: u})
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, UserFrom(r.Context()))
}
