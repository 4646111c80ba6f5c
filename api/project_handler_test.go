package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aliraza-a/portfolio-backend/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"My Portfolio Site", "my-portfolio-site"},
		{"  Hello,   World!  ", "hello-world"},
		{"Already-Slugged", "already-slugged"},
		{"C++ & Go (2024)", "c-go-2024"},
		{"---", ""},
		{"UPPER lower 123", "upper-lower-123"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, slugify(tc.title), "title %q", tc.title)
	}
}

func TestParseOrder(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  int
	}{
		{"float from json", float64(3), 3},
		{"numeric string", "7", 7},
		{"padded string", " 2 ", 2},
		{"garbage string", "abc", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
		{"negative", float64(-5), 0},
		{"negative string", "-1", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseOrder(tc.input))
		})
	}
}

func TestNormalizeProjectDefaults(t *testing.T) {
	project := normalizeProject(projectRequest{
		Title:       "  Title  ",
		Description: " desc ",
		Thumbnail:   "https://cdn.example.com/t.png",
		Status:      "BOGUS",
	}, "title")

	assert.Equal(t, "Title", project.Title)
	assert.Equal(t, "desc", project.Description)
	assert.Equal(t, "Other", project.Category)
	assert.Equal(t, models.ProjectStatusDraft, project.Status)
	assert.Equal(t, 0, project.Order)
	assert.False(t, project.Featured)
	assert.Nil(t, project.LongDescription)
	assert.Nil(t, project.LiveURL)
	assert.NotNil(t, project.Technologies)
	assert.NotNil(t, project.Images)
	assert.Empty(t, project.Technologies)
	assert.Empty(t, project.Images)
}

func TestNormalizeProjectKeepsValidInput(t *testing.T) {
	project := normalizeProject(projectRequest{
		Title:           "Title",
		Description:     "desc",
		LongDescription: " long ",
		Category:        "Web",
		Technologies:    []string{" Go ", "Postgres"},
		Thumbnail:       "https://cdn.example.com/t.png",
		Images:          []string{"https://cdn.example.com/a.png"},
		LiveURL:         "https://example.com",
		Featured:        true,
		Status:          models.ProjectStatusPublished,
		Order:           float64(4),
	}, "custom-slug")

	assert.Equal(t, "custom-slug", project.Slug)
	assert.Equal(t, "Web", project.Category)
	assert.Equal(t, models.ProjectStatusPublished, project.Status)
	assert.Equal(t, 4, project.Order)
	assert.True(t, project.Featured)
	assert.Equal(t, []string{"Go", "Postgres"}, []string(project.Technologies))
	if assert.NotNil(t, project.LongDescription) {
		assert.Equal(t, "long", *project.LongDescription)
	}
	if assert.NotNil(t, project.LiveURL) {
		assert.Equal(t, "https://example.com", *project.LiveURL)
	}
}

func TestUniqueSlugSuffixDiffersOverTime(t *testing.T) {
	// Two projects created with the same title must not end up with the same
	// suffixed slug; the suffix is time-derived, so it is non-empty and
	// parseable.
	suffix := uniqueSlugSuffix()
	assert.NotEmpty(t, suffix)
	assert.NotContains(t, suffix, "-")
}

func TestRemovedImageURLs(t *testing.T) {
	existing := models.Project{
		Thumbnail: "https://cdn.example.com/a.png",
		Images: datatypes.NewJSONSlice([]string{
			"https://cdn.example.com/1.png",
			"https://cdn.example.com/2.png",
		}),
	}

	t.Run("thumbnail replaced", func(t *testing.T) {
		updated := models.Project{
			Thumbnail: "https://cdn.example.com/b.png",
			Images:    existing.Images,
		}
		removed := removedImageURLs(existing, updated)
		assert.Equal(t, []string{"https://cdn.example.com/a.png"}, removed)
		assert.NotContains(t, removed, "https://cdn.example.com/b.png")
	})

	t.Run("gallery image dropped", func(t *testing.T) {
		updated := models.Project{
			Thumbnail: existing.Thumbnail,
			Images:    datatypes.NewJSONSlice([]string{"https://cdn.example.com/1.png"}),
		}
		assert.Equal(t, []string{"https://cdn.example.com/2.png"}, removedImageURLs(existing, updated))
	})

	t.Run("nothing changed", func(t *testing.T) {
		assert.Empty(t, removedImageURLs(existing, existing))
	})

	t.Run("everything replaced", func(t *testing.T) {
		updated := models.Project{
			Thumbnail: "https://cdn.example.com/new.png",
			Images:    datatypes.NewJSONSlice([]string{}),
		}
		assert.ElementsMatch(t, []string{
			"https://cdn.example.com/a.png",
			"https://cdn.example.com/1.png",
			"https://cdn.example.com/2.png",
		}, removedImageURLs(existing, updated))
	})
}

func seedProject(t *testing.T, h projectHandler, slug, status string) {
	t.Helper()
	require.NoError(t, h.projectRepo.Add(&models.Project{
		ID:          uuid.New(),
		Title:       slug,
		Slug:        slug,
		Description: "desc",
		Category:    "Other",
		Thumbnail:   "https://cdn.example.com/" + slug + ".png",
		Status:      status,
	}))
}

func TestListProjectsPublishedOnly(t *testing.T) {
	gate, token := testAuthGate(t)
	h := newProjectHandler(testDatabase(t).ProjectRepo(), gate, nil)
	seedProject(t, h, "live", models.ProjectStatusPublished)
	seedProject(t, h, "draft", models.ProjectStatusDraft)
	seedProject(t, h, "retired", models.ProjectStatusArchived)

	handler := h.listProjects()
	list := func(target string, session bool) (*httptest.ResponseRecorder, []models.Project) {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		if session {
			req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		var projects []models.Project
		if rec.Code == http.StatusOK {
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &projects))
		}
		return rec, projects
	}

	t.Run("public view", func(t *testing.T) {
		rec, projects := list("/projects", false)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, projects, 1)
		assert.Equal(t, "live", projects[0].Slug)
	})

	t.Run("admin view without session", func(t *testing.T) {
		rec, _ := list("/projects?admin=true", false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("admin view with session", func(t *testing.T) {
		rec, projects := list("/projects?admin=true", true)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, projects, 3)
	})
}

func TestCreateProjectSlugCollision(t *testing.T) {
	h := newProjectHandler(testDatabase(t).ProjectRepo(), nil, nil)
	handler := h.createProject()

	post := func() (*httptest.ResponseRecorder, models.Project) {
		body := `{"title":"My Project","description":"desc","thumbnail":"https://cdn.example.com/t.png"}`
		req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		var project models.Project
		if rec.Code == http.StatusCreated {
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))
		}
		return rec, project
	}

	rec, first := post()
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, "my-project", first.Slug)

	// Same title never conflicts; the second slug is disambiguated
	rec, second := post()
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, strings.HasPrefix(second.Slug, "my-project-"), "slug %q", second.Slug)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.NotEqual(t, first.ID, second.ID)
}
