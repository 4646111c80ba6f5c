package api

import (
	"io"
	"net/http"

	"github.com/aliraza-a/portfolio-backend/errs"
	"github.com/aliraza-a/portfolio-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	blobs     *storage.Client
}

func newUploadHandler(blobs *storage.Client) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		blobs:     blobs,
	}
}

type uploadResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// uploadImage accepts a multipart image, validates type and size, and stores
// it publicly readable under a collision-resistant path.
func (h uploadHandler) uploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, storage.MaxUploadSize+1024*1024)

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("no file provided"))
			return
		}
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		if !storage.AllowedContentType(contentType) {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid file type, only JPEG, PNG, GIF, WebP, and SVG are allowed"))
			return
		}

		if header.Size > storage.MaxUploadSize {
			h.responder.WriteError(w, errs.NewBadRequestError("file too large, maximum size is 5MB"))
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read uploaded file")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read uploaded file"))
			return
		}

		path := storage.ObjectPath(header.Filename)
		url, err := h.blobs.Upload(r.Context(), path, contentType, data)
		if err != nil {
			h.logger.Error().Err(err).Str("path", path).Msg("Failed to upload file to object storage")
			h.responder.WriteError(w, errs.NewInternalError("failed to upload file"))
			return
		}

		h.responder.WriteJSON(w, uploadResponse{URL: url, Filename: path})
	}
}

// deleteImage removes a stored image by URL. Only URLs inside the configured
// storage domain are accepted; deleting an already-gone object still
// succeeds.
func (h uploadHandler) deleteImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url := r.URL.Query().Get("url")
		if url == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("no URL provided"))
			return
		}

		if !h.blobs.Owns(url) {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid URL, only storage URLs can be deleted"))
			return
		}

		if err := h.blobs.Delete(r.Context(), url); err != nil {
			// Idempotent delete: a missing object or a flaky store never
			// fails the request.
			h.logger.Error().Err(err).Str("url", url).Msg("Failed to delete image from object storage")
		}

		h.responder.WriteJSON(w, successResponse{Success: true})
	}
}
