// Package client is the typed HTTP client front ends embed to talk to
// the content API. It never surfaces transport errors: any failure or
// non-2xx response degrades to the zero result for the call (empty
// slice for lists, nil for entities, false for mutations), so a
// rendering layer can always fall back to "not available".
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Config holds the client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to a fable-server instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a content API client.
func New(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("ContentClient"),
	}
}

// Story mirrors the server's story resource.
type Story struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	StartPageID *int64    `json:"start_page_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Choice mirrors the server's choice resource.
type Choice struct {
	ID         int64  `json:"id"`
	PageID     int64  `json:"page_id"`
	Text       string `json:"text"`
	NextPageID int64  `json:"next_page_id"`
}

// Page mirrors the server's page resource.
type Page struct {
	ID          int64    `json:"id"`
	StoryID     int64    `json:"story_id"`
	Text        string   `json:"text"`
	IsEnding    bool     `json:"is_ending"`
	EndingLabel *string  `json:"ending_label,omitempty"`
	Choices     []Choice `json:"choices"`
}

type createStoryPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type createPagePayload struct {
	Text        string  `json:"text"`
	IsEnding    bool    `json:"is_ending"`
	EndingLabel *string `json:"ending_label,omitempty"`
}

type createChoicePayload struct {
	Text       string `json:"text"`
	NextPageID int64  `json:"next_page_id"`
}

type addPageEnvelope struct {
	Page *Page `json:"page"`
}

// GetPublishedStories lists the reader-visible catalog. Returns an
// empty slice when the server cannot be reached.
func (c *Client) GetPublishedStories(ctx context.Context) []Story {
	var stories []Story
	if err := c.do(ctx, http.MethodGet, "/stories", nil, &stories); err != nil {
		c.logger.Warn("Failed to list stories", zap.Error(err))
		return []Story{}
	}
	if stories == nil {
		stories = []Story{}
	}
	return stories
}

// GetStory fetches one story, nil when it cannot be fetched.
func (c *Client) GetStory(ctx context.Context, id int64) *Story {
	var story Story
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/stories/%d", id), nil, &story); err != nil {
		c.logger.Warn("Failed to get story", zap.Int64("storyID", id), zap.Error(err))
		return nil
	}
	return &story
}

// GetStartPage fetches a story's entry page, nil when the story has
// none or cannot be fetched.
func (c *Client) GetStartPage(ctx context.Context, storyID int64) *Page {
	var page Page
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/stories/%d/start", storyID), nil, &page); err != nil {
		c.logger.Warn("Failed to get start page", zap.Int64("storyID", storyID), zap.Error(err))
		return nil
	}
	return &page
}

// GetPage fetches one page with its choices, nil when it cannot be
// fetched.
func (c *Client) GetPage(ctx context.Context, id int64) *Page {
	var page Page
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/pages/%d", id), nil, &page); err != nil {
		c.logger.Warn("Failed to get page", zap.Int64("pageID", id), zap.Error(err))
		return nil
	}
	return &page
}

// CreateStory registers a new draft story, nil on failure.
func (c *Client) CreateStory(ctx context.Context, title, description string) *Story {
	var story Story
	payload := createStoryPayload{Title: title, Description: description}
	if err := c.do(ctx, http.MethodPost, "/stories", payload, &story); err != nil {
		c.logger.Warn("Failed to create story", zap.String("title", title), zap.Error(err))
		return nil
	}
	return &story
}

// CreatePage appends a page to a story, nil on failure.
func (c *Client) CreatePage(ctx context.Context, storyID int64, text string, isEnding bool, endingLabel *string) *Page {
	var envelope addPageEnvelope
	payload := createPagePayload{Text: text, IsEnding: isEnding, EndingLabel: endingLabel}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/stories/%d/pages", storyID), payload, &envelope); err != nil {
		c.logger.Warn("Failed to create page", zap.Int64("storyID", storyID), zap.Error(err))
		return nil
	}
	return envelope.Page
}

// CreateChoice wires a choice from a page, nil on failure.
func (c *Client) CreateChoice(ctx context.Context, pageID int64, text string, nextPageID int64) *Choice {
	var choice Choice
	payload := createChoicePayload{Text: text, NextPageID: nextPageID}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/pages/%d/choices", pageID), payload, &choice); err != nil {
		c.logger.Warn("Failed to create choice", zap.Int64("pageID", pageID), zap.Error(err))
		return nil
	}
	return &choice
}

// DeleteStory removes a story, false on failure.
func (c *Client) DeleteStory(ctx context.Context, id int64) bool {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/stories/%d", id), nil, nil); err != nil {
		c.logger.Warn("Failed to delete story", zap.Int64("storyID", id), zap.Error(err))
		return false
	}
	return true
}

// DeletePage removes a page, false on failure.
func (c *Client) DeletePage(ctx context.Context, id int64) bool {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/pages/%d", id), nil, nil); err != nil {
		c.logger.Warn("Failed to delete page", zap.Int64("pageID", id), zap.Error(err))
		return false
	}
	return true
}

// DeleteChoice removes a choice, false on failure.
func (c *Client) DeleteChoice(ctx context.Context, id int64) bool {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/choices/%d", id), nil, nil); err != nil {
		c.logger.Warn("Failed to delete choice", zap.Int64("choiceID", id), zap.Error(err))
		return false
	}
	return true
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d for %s %s", resp.StatusCode, method, path)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
