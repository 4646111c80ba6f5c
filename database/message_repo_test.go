package database

import (
	"testing"
	"time"

	"github.com/aliraza-a/portfolio-backend/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addMessage(t *testing.T, repo *MessageRepo, email, status string, starred bool) *models.Message {
	t.Helper()
	msg := &models.Message{
		ID:      uuid.New(),
		Name:    "A",
		Email:   email,
		Subject: "Hi",
		Message: "Hello",
		Status:  status,
		Starred: starred,
	}
	require.NoError(t, repo.Add(msg))
	return msg
}

func TestMarkReadTransitionsOnlyUnread(t *testing.T) {
	repo := testDatabase(t).MessageRepo()
	msg := addMessage(t, repo, "a@b.com", models.MessageStatusUnread, false)

	require.NoError(t, repo.MarkRead(msg.ID))
	got, err := repo.FindByID(msg.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.MessageStatusRead, got.Status)

	// A second pass is a no-op
	require.NoError(t, repo.MarkRead(msg.ID))
	got, err = repo.FindByID(msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusRead, got.Status)

	// The predicate never demotes a later status
	require.NoError(t, repo.UpdateFields(msg.ID, map[string]any{"status": models.MessageStatusReplied}))
	require.NoError(t, repo.MarkRead(msg.ID))
	got, err = repo.FindByID(msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusReplied, got.Status)
}

func TestFindRecentByEmail(t *testing.T) {
	repo := testDatabase(t).MessageRepo()
	msg := addMessage(t, repo, "a@b.com", models.MessageStatusUnread, false)

	recent, err := repo.FindRecentByEmail("a@b.com", time.Now().Add(-5*time.Minute))
	require.NoError(t, err)
	require.NotNil(t, recent)
	assert.Equal(t, msg.ID, recent.ID)

	other, err := repo.FindRecentByEmail("other@b.com", time.Now().Add(-5*time.Minute))
	require.NoError(t, err)
	assert.Nil(t, other)

	// Outside the window once backdated
	require.NoError(t, repo.UpdateFields(msg.ID, map[string]any{"created_at": time.Now().Add(-10 * time.Minute)}))
	stale, err := repo.FindRecentByEmail("a@b.com", time.Now().Add(-5*time.Minute))
	require.NoError(t, err)
	assert.Nil(t, stale)
}

func TestMessageFindAllFilters(t *testing.T) {
	repo := testDatabase(t).MessageRepo()
	unread := addMessage(t, repo, "u@b.com", models.MessageStatusUnread, false)
	starred := addMessage(t, repo, "s@b.com", models.MessageStatusRead, true)

	all, err := repo.FindAll(MessageFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	explicitAll, err := repo.FindAll(MessageFilter{Status: "ALL"})
	require.NoError(t, err)
	assert.Len(t, explicitAll, 2)

	unreadOnly, err := repo.FindAll(MessageFilter{Status: models.MessageStatusUnread})
	require.NoError(t, err)
	require.Len(t, unreadOnly, 1)
	assert.Equal(t, unread.ID, unreadOnly[0].ID)

	starredOnly, err := repo.FindAll(MessageFilter{StarredOnly: true})
	require.NoError(t, err)
	require.Len(t, starredOnly, 1)
	assert.Equal(t, starred.ID, starredOnly[0].ID)
}

func TestStats(t *testing.T) {
	repo := testDatabase(t).MessageRepo()
	addMessage(t, repo, "a@b.com", models.MessageStatusUnread, false)
	addMessage(t, repo, "b@b.com", models.MessageStatusUnread, true)
	addMessage(t, repo, "c@b.com", models.MessageStatusReplied, true)

	stats, err := repo.Stats()
	require.NoError(t, err)
	assert.Equal(t, models.MessageStats{
		Total:   3,
		Unread:  2,
		Replied: 1,
		Starred: 2,
	}, stats)
}

func TestApplyStatusCounts(t *testing.T) {
	stats := models.MessageStats{Total: 7, Starred: 2}

	applyStatusCounts(&stats, []statusCount{
		{Status: models.MessageStatusUnread, Count: 3},
		{Status: models.MessageStatusReplied, Count: 4},
	})

	assert.Equal(t, int64(7), stats.Total)
	assert.Equal(t, int64(2), stats.Starred)
	assert.Equal(t, int64(3), stats.Unread)
	assert.Equal(t, int64(4), stats.Replied)
	// Statuses absent from the grouped result stay zero
	assert.Zero(t, stats.Read)
	assert.Zero(t, stats.Archived)
}

func TestApplyStatusCountsIgnoresUnknownStatus(t *testing.T) {
	var stats models.MessageStats
	applyStatusCounts(&stats, []statusCount{{Status: "BOGUS", Count: 9}})
	assert.Equal(t, models.MessageStats{}, stats)
}
