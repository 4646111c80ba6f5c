package api

import (
	"encoding/json"
	"net/http"

	"github.com/aliraza-a/portfolio-backend/database"
	"github.com/aliraza-a/portfolio-backend/errs"
	"github.com/aliraza-a/portfolio-backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type messageHandler struct {
	responder   Responder
	logger      zerolog.Logger
	messageRepo *database.MessageRepo
}

func newMessageHandler(messageRepo *database.MessageRepo) messageHandler {
	logger := log.With().Str("handlerName", "messageHandler").Logger()

	return messageHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		messageRepo: messageRepo,
	}
}

// messageListResponse pairs the filtered listing with the aggregate counts
// the dashboard shows.
type messageListResponse struct {
	Messages []*models.Message   `json:"messages"`
	Stats    models.MessageStats `json:"stats"`
}

// messagePatch carries a partial message update. Pointer fields distinguish
// "absent" from zero values.
type messagePatch struct {
	Status  *string `json:"status"`
	Starred *bool   `json:"starred"`
}

// listMessages returns messages matching the status/starred filters, newest
// first, plus aggregate stats over all messages.
func (h messageHandler) listMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := database.MessageFilter{
			Status:      r.URL.Query().Get("status"),
			StarredOnly: r.URL.Query().Get("starred") == "true",
		}

		messages, err := h.messageRepo.FindAll(filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find messages", "messages", err))
			return
		}
		if messages == nil {
			messages = []*models.Message{}
		}

		stats, err := h.messageRepo.Stats()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count messages", "messages", err))
			return
		}

		h.responder.WriteJSON(w, messageListResponse{Messages: messages, Stats: stats})
	}
}

// getMessage retrieves a message. Opening an UNREAD message advances it to
// READ in the store; the transition happens once, further reads are no-ops.
func (h messageHandler) getMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messageID, err := uuid.Parse(chi.URLParam(r, "messageID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid messageID"))
			return
		}

		message, err := h.messageRepo.FindByID(messageID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find message", "message", err))
			return
		}
		if message == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("message not found"))
			return
		}

		if message.Status == models.MessageStatusUnread {
			if err := h.messageRepo.MarkRead(messageID); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("mark message read", "message", err))
				return
			}
		}

		h.responder.WriteJSON(w, message)
	}
}

// updateMessage applies a partial status/starred update. An invalid status is
// silently ignored rather than rejected; unspecified fields are left alone.
func (h messageHandler) updateMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messageID, err := uuid.Parse(chi.URLParam(r, "messageID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid messageID"))
			return
		}

		var patch messagePatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode message patch body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		existing, err := h.messageRepo.FindByID(messageID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find message", "message", err))
			return
		}
		if existing == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("message not found"))
			return
		}

		fields := map[string]any{}
		if patch.Status != nil && models.ValidMessageStatus(*patch.Status) {
			fields["status"] = *patch.Status
		}
		if patch.Starred != nil {
			fields["starred"] = *patch.Starred
		}

		if len(fields) > 0 {
			if err := h.messageRepo.UpdateFields(messageID, fields); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("update message", "message", err))
				return
			}
		}

		updated, err := h.messageRepo.FindByID(messageID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated message", "message", err))
			return
		}

		h.responder.WriteJSON(w, updated)
	}
}

// deleteMessage removes a message unconditionally. Messages own no media, so
// there is no cascading cleanup.
func (h messageHandler) deleteMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messageID, err := uuid.Parse(chi.URLParam(r, "messageID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid messageID"))
			return
		}

		if err := h.messageRepo.Delete(messageID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete message", "message", err))
			return
		}

		h.responder.WriteJSON(w, successResponse{Success: true})
	}
}
