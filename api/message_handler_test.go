package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aliraza-a/portfolio-backend/database"
	"github.com/aliraza-a/portfolio-backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageRouter(repo *database.MessageRepo) chi.Router {
	handler := newMessageHandler(repo)
	r := chi.NewRouter()
	r.Get("/messages/{messageID}", handler.getMessage())
	r.Patch("/messages/{messageID}", handler.updateMessage())
	return r
}

func TestGetMessageMarksRead(t *testing.T) {
	repo := testDatabase(t).MessageRepo()
	msg := &models.Message{
		ID:      uuid.New(),
		Name:    "A",
		Email:   "a@b.com",
		Subject: "Hi",
		Message: "Hello",
		Status:  models.MessageStatusUnread,
	}
	require.NoError(t, repo.Add(msg))

	router := messageRouter(repo)
	get := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/messages/"+msg.ID.String(), nil))
		return rec
	}

	// First read returns the record as fetched and advances the store
	rec := get()
	assert.Equal(t, http.StatusOK, rec.Code)
	var first models.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.Equal(t, models.MessageStatusUnread, first.Status)

	stored, err := repo.FindByID(msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusRead, stored.Status)

	// Second read does not re-trigger the transition
	rec = get()
	assert.Equal(t, http.StatusOK, rec.Code)
	var second models.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, models.MessageStatusRead, second.Status)
}

func TestGetMessageErrors(t *testing.T) {
	router := messageRouter(testDatabase(t).MessageRepo())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/messages/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/messages/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateMessageIgnoresInvalidStatus(t *testing.T) {
	repo := testDatabase(t).MessageRepo()
	msg := &models.Message{
		ID:      uuid.New(),
		Name:    "A",
		Email:   "a@b.com",
		Subject: "Hi",
		Message: "Hello",
		Status:  models.MessageStatusRead,
	}
	require.NoError(t, repo.Add(msg))

	router := messageRouter(repo)
	patch := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/messages/"+msg.ID.String(), strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := patch(`{"status":"BOGUS","starred":true}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	stored, err := repo.FindByID(msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusRead, stored.Status)
	assert.True(t, stored.Starred)

	rec = patch(`{"status":"ARCHIVED"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	stored, err = repo.FindByID(msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusArchived, stored.Status)
	assert.True(t, stored.Starred, "unspecified fields stay put")
}
