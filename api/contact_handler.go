package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/aliraza-a/portfolio-backend/database"
	"github.com/aliraza-a/portfolio-backend/errs"
	"github.com/aliraza-a/portfolio-backend/models"
	"github.com/aliraza-a/portfolio-backend/services"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// cooldownWindow is the minimum gap between accepted submissions from the
// same email address.
const cooldownWindow = 5 * time.Minute

type contactHandler struct {
	responder   Responder
	logger      zerolog.Logger
	messageRepo *database.MessageRepo
	notifier    *services.Notifier
	validate    *validator.Validate
}

func newContactHandler(messageRepo *database.MessageRepo, notifier *services.Notifier) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		messageRepo: messageRepo,
		notifier:    notifier,
		validate:    validator.New(),
	}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// normalizeContact trims every field and lower-cases the email.
func normalizeContact(req contactRequest) contactRequest {
	return contactRequest{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}
}

// validateContact checks the normalized payload: all four fields required,
// email must have a local@domain.tld shape.
func (h contactHandler) validateContact(req contactRequest) *errs.ApiErr {
	if req.Name == "" || req.Email == "" || req.Subject == "" || req.Message == "" {
		return errs.NewBadRequestError("all fields are required")
	}
	if err := h.validate.Var(req.Email, "email"); err != nil {
		return errs.NewBadRequestErrorWithField("invalid email address", "email", err.Error())
	}
	return nil
}

// submitMessage accepts a public contact-form submission. Submissions from
// the same email inside the cooldown window are rejected with 429. On
// success, the admin notification and auto-reply are dispatched fire and
// forget; their outcome never reaches the submitter.
func (h contactHandler) submitMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contactRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode contact request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		req = normalizeContact(req)
		if apiErr := h.validateContact(req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		recent, err := h.messageRepo.FindRecentByEmail(req.Email, time.Now().Add(-cooldownWindow))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("check recent messages", "message", err))
			return
		}
		if recent != nil {
			h.responder.WriteError(w, errs.NewRateLimitedError("please wait a few minutes before sending another message"))
			return
		}

		message := models.Message{
			ID:      uuid.New(),
			Name:    req.Name,
			Email:   req.Email,
			Subject: req.Subject,
			Message: req.Message,
			Status:  models.MessageStatusUnread,
			Starred: false,
		}

		if err := h.messageRepo.Add(&message); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create message", "message", err))
			return
		}

		h.notifier.DispatchContactEmails(message)

		h.responder.WriteJSONStatus(w, http.StatusCreated, successResponse{Success: true, Message: "Message sent successfully!"})
	}
}
