package api

import (
	"encoding/json"
	"net/http"

	"github.com/aliraza-a/portfolio-backend/auth"
	"github.com/aliraza-a/portfolio-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder     Responder
	logger        zerolog.Logger
	gate          *auth.Gate
	secureCookies bool
}

func newAuthHandler(gate *auth.Gate, secureCookies bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		gate:          gate,
		secureCookies: secureCookies,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login validates the admin credentials and sets the session cookie. Wrong
// email and wrong password both produce the same 401.
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if req.Email == "" || req.Password == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("email and password are required"))
			return
		}

		token, err := h.gate.Authenticate(req.Email, req.Password)
		if err != nil {
			h.logger.Warn().Str("email", req.Email).Msg("Failed login attempt")
			h.responder.WriteError(w, errs.NewUnauthorizedError("invalid credentials"))
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   int(auth.SessionTTL.Seconds()),
			HttpOnly: true,
			Secure:   h.secureCookies,
			SameSite: http.SameSiteLaxMode,
		})

		h.responder.WriteJSON(w, successResponse{Success: true})
	}
}

// logout clears the session cookie. The token itself stays valid until its
// expiry; there is no server-side session store to revoke it from.
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.secureCookies,
			SameSite: http.SameSiteLaxMode,
		})

		h.responder.WriteJSON(w, successResponse{Success: true})
	}
}

// check reports whether the request carries a valid session. Runs behind the
// session middleware, so reaching it means the session is valid.
func (h authHandler) check() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]any{
			"authenticated": true,
			"email":         ctxIdentity(r.Context()),
		})
	}
}
