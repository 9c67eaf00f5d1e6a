package studentclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// Student is the registry's view of a student.
type Student struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Active bool   `json:"active"`
}

// ErrNotFound signals the registry's clean 404, as opposed to a transport failure.
var ErrNotFound = errors.New("student not found")

// Finder looks a student up by id.
type Finder interface {
	FindByID(ctx context.Context, id string) (Student, error)
}

// Client calls the student registry microservice.
type Client struct {
	BaseURL  string
	HTTP     *http.Client
	Skip     bool
	cache    *redis.Client
	cacheTTL time.Duration
}

// New creates a client. With skip enabled every lookup returns an active mock
// student, which keeps local development independent of the registry.
func New(baseURL string, skip bool) *Client {
	return &Client{
		BaseURL: baseURL,
		Skip:    skip,
		HTTP: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithCache enables a Redis read-through cache for successful lookups.
// Not-found results and transport failures are never cached.
func (c *Client) WithCache(cache *redis.Client, ttl time.Duration) *Client {
	c.cache = cache
	c.cacheTTL = ttl
	return c
}

// FindByID fetches a student from the registry.
func (c *Client) FindByID(ctx context.Context, id string) (Student, error) {
	if c.Skip {
		return Student{ID: id, Name: "Mock Student", Email: "mock@student.dev", Active: true}, nil
	}
	if id == "" {
		return Student{}, fmt.Errorf("student id required")
	}

	if st, ok := c.fromCache(ctx, id); ok {
		return st, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/students/"+id, nil)
	if err != nil {
		return Student{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Student{}, fmt.Errorf("student registry request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Student{}, ErrNotFound
	}
	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return Student{}, fmt.Errorf("student registry error %s: %s", resp.Status, string(bodyBytes))
	}

	var st Student
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return Student{}, fmt.Errorf("failed to decode student response: %w", err)
	}

	c.toCache(ctx, id, st)
	return st, nil
}

func (c *Client) fromCache(ctx context.Context, id string) (Student, bool) {
	if c.cache == nil {
		return Student{}, false
	}
	raw, err := c.cache.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		return Student{}, false
	}
	var st Student
	if err := json.Unmarshal(raw, &st); err != nil {
		return Student{}, false
	}
	return st, true
}

// toCache is best effort; a cache write failure never fails the lookup.
func (c *Client) toCache(ctx context.Context, id string, st Student) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return
	}
	_ = c.cache.Set(ctx, cacheKey(id), raw, c.cacheTTL).Err()
}

func cacheKey(id string) string { return "library:students:" + id }
