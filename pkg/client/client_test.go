package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(url string) *Client {
	return New(Config{BaseURL: url, Timeout: time.Second}, zap.NewNop())
}

func TestGetPublishedStories(t *testing.T) {
	t.Run("decodes the list", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/stories", r.URL.Path)
			json.NewEncoder(w).Encode([]Story{{ID: 1, Title: "The Forest", Status: "published"}})
		}))
		defer srv.Close()

		stories := newTestClient(srv.URL).GetPublishedStories(context.Background())

		require.Len(t, stories, 1)
		assert.Equal(t, "The Forest", stories[0].Title)
	})

	t.Run("degrades to an empty slice when the server is down", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		stories := newTestClient(srv.URL).GetPublishedStories(context.Background())

		assert.NotNil(t, stories)
		assert.Empty(t, stories)
	})

	t.Run("degrades on a server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		stories := newTestClient(srv.URL).GetPublishedStories(context.Background())

		assert.Empty(t, stories)
	})
}

func TestGetStory(t *testing.T) {
	t.Run("fetches one story", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/stories/7", r.URL.Path)
			json.NewEncoder(w).Encode(Story{ID: 7, Title: "The Cave"})
		}))
		defer srv.Close()

		story := newTestClient(srv.URL).GetStory(context.Background(), 7)

		require.NotNil(t, story)
		assert.Equal(t, int64(7), story.ID)
	})

	t.Run("nil on 404", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		assert.Nil(t, newTestClient(srv.URL).GetStory(context.Background(), 404))
	})
}

func TestCreatePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/stories/1/pages", r.URL.Path)

		var payload createPagePayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "A clearing opens up.", payload.Text)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(addPageEnvelope{Page: &Page{ID: 12, StoryID: 1, Text: payload.Text}})
	}))
	defer srv.Close()

	page := newTestClient(srv.URL).CreatePage(context.Background(), 1, "A clearing opens up.", false, nil)

	require.NotNil(t, page)
	assert.Equal(t, int64(12), page.ID)
}

func TestDeleteStory(t *testing.T) {
	t.Run("true on 204", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		assert.True(t, newTestClient(srv.URL).DeleteStory(context.Background(), 1))
	})

	t.Run("false when the server is down", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		assert.False(t, newTestClient(srv.URL).DeleteStory(context.Background(), 1))
	})
}
