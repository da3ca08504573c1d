package wordpress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

var ErrPostNotFound = errors.New("post not found")

// Client reads the public content API of the headless CMS. Read-only; the
// blog is authored entirely on the CMS side.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) ListPosts(ctx context.Context, page, perPage, category int) ([]Post, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	if category > 0 {
		params.Set("categories", strconv.Itoa(category))
	}

	var posts []Post
	if err := c.get(ctx, "/wp-json/wp/v2/posts", params, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	params := url.Values{}
	params.Set("per_page", "100")

	var categories []Category
	if err := c.get(ctx, "/wp-json/wp/v2/categories", params, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetPostBySlug resolves one post. The API answers slug lookups with an
// array; an empty array means the slug does not exist.
func (c *Client) GetPostBySlug(ctx context.Context, slug string) (*Post, error) {
	params := url.Values{}
	params.Set("slug", slug)

	var posts []Post
	if err := c.get(ctx, "/wp-json/wp/v2/posts", params, &posts); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrPostNotFound
	}
	return &posts[0], nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("cms request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("cms returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("cms decode: %w", err)
	}
	return nil
}
