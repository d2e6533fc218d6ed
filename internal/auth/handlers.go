package auth

import (
	"log"
	"net/http"
	"strings"

	"github.com/imobiliaria/imoveis-api/internal/apperr"
	"github.com/imobiliaria/imoveis-api/internal/utils"
)

var ErrMissingCredentials = apperr.Validation("CPF e senha são obrigatórios")

type Handler struct {
	users        *UserStore
	tokens       *TokenStore
	maxBodyBytes int64
}

func NewHandler(users *UserStore, tokens *TokenStore, maxBodyBytes int64) *Handler {
	return &Handler{users: users, tokens: tokens, maxBodyBytes: maxBodyBytes}
}

type LoginRequest struct {
	CPF      string `json:"cpf"`
	Password string `json:"senha"`
}

type LoginResponse struct {
	Token   string     `json:"token"`
	User    PublicUser `json:"usuario"`
	Message string     `json:"message"`
}

type MeResponse struct {
	User PublicUser `json:"usuario"`
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) error {
	var req LoginRequest
	if err := utils.DecodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.CPF) == "" || req.Password == "" {
		return ErrMissingCredentials
	}

	user, err := h.users.Authenticate(req.CPF, req.Password)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindAuth {
			log.Printf("[auth] failed login from %s", r.RemoteAddr)
		}
		return err
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		return apperr.Internal(err)
	}

	utils.WriteJSON(w, http.StatusOK, LoginResponse{
		Token:   token,
		User:    user.Public(),
		Message: "Login realizado com sucesso",
	})
	return nil
}

// Logout handles POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) error {
	if token, ok := utils.GetTokenFromContext(r.Context()); ok {
		h.tokens.Revoke(token)
	}
	utils.WriteJSON(w, http.StatusOK, utils.Message{Message: "Logout realizado com sucesso"})
	return nil
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) error {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return ErrInvalidToken
	}
	user, err := h.users.FindUserByID(userID)
	if err != nil {
		return err
	}
	utils.WriteJSON(w, http.StatusOK, MeResponse{User: user.Public()})
	return nil
}
