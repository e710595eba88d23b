package handlers

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/iudanet/authvault/internal/auth"
	"github.com/iudanet/authvault/pkg/api"
)

// IdentityHandler обрабатывает запросы token endpoint
type IdentityHandler struct {
	logger *slog.Logger
	auth   *auth.Service
}

// NewIdentityHandler создает новый handler для token endpoint
func NewIdentityHandler(logger *slog.Logger, authService *auth.Service) *IdentityHandler {
	return &IdentityHandler{
		logger: logger,
		auth:   authService,
	}
}

// ConnectToken обрабатывает POST /identity/connect/token
// Принимает form-encoded запрос password или refresh_token grant
func (h *IdentityHandler) ConnectToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		h.logger.WarnContext(ctx, "failed to parse form body", slog.Any("error", err))
		h.sendError(w, "invalid_request", "invalid form body", http.StatusBadRequest)
		return
	}

	req := auth.ParseConnectForm(h.logger, r.PostForm)
	ip := clientIP(r)

	result, err := h.auth.Login(ctx, req, ip)
	if err != nil {
		if auth.IsClientError(err) {
			h.sendError(w, "invalid_grant", err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "login attempt failed", slog.Any("error", err))
		h.sendError(w, "server_error", "internal server error", http.StatusInternalServerError)
		return
	}

	// Challenge-pending: не успех и не ошибка, клиент должен повторить
	// запрос с two_factor_token
	if result.Challenge != nil {
		h.sendJSON(w, challengeResponse(result.Challenge), http.StatusBadRequest)
		return
	}

	token := result.Token
	h.sendJSON(w, api.TokenResponse{
		AccessToken:    token.AccessToken,
		ExpiresIn:      token.ExpiresIn,
		TokenType:      "Bearer",
		RefreshToken:   token.RefreshToken,
		Key:            token.Key,
		PrivateKey:     token.PrivateKey,
		TwoFactorToken: token.TwoFactorToken,
	}, http.StatusOK)
}

// challengeResponse переводит challenge ядра в wire формат
func challengeResponse(challenge *auth.TwoFactorChallenge) api.TwoFactorResponse {
	providers := make([]string, 0, len(challenge.Providers))
	for _, p := range challenge.Providers {
		providers = append(providers, strconv.Itoa(int(p)))
	}

	return api.TwoFactorResponse{
		Error:            "invalid_grant",
		ErrorDescription: "Two factor required.",
		Providers:        providers,
		Providers2:       challenge.Payloads,
	}
}

// clientIP извлекает IP клиента из запроса с учетом reverse proxy
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// sendJSON отправляет JSON ответ
func (h *IdentityHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func (h *IdentityHandler) sendError(w http.ResponseWriter, code, message string, statusCode int) {
	h.sendJSON(w, api.ErrorResponse{
		Error:   code,
		Message: message,
	}, statusCode)
}
