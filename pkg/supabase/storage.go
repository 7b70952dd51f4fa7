package supabase

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

// Put uploads data to bucket/path and returns the stored object key.
func (c *Client) Put(ctx context.Context, bucket, path, contentType string, data []byte) (string, error) {
	if c.serviceKey == "" {
		return "", errors.New("storage service key is not configured")
	}
	a := fiber.Post(c.objectURL(bucket, path))
	a.Set("apikey", c.anonKey)
	a.Set(fiber.HeaderAuthorization, "Bearer "+c.serviceKey)
	a.Set("x-upsert", "false")
	a.ContentType(contentType)
	a.Body(data)

	var resp struct {
		Key string `json:"Key"`
	}
	if err := c.send(ctx, a, &resp); err != nil {
		return "", err
	}
	if resp.Key == "" {
		resp.Key = bucket + "/" + strings.TrimLeft(path, "/")
	}
	return resp.Key, nil
}

// PublicURL is the stable address of an object in a public bucket.
func (c *Client) PublicURL(bucket, path string) string {
	return c.baseURL + "/storage/v1/object/public/" + bucket + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) objectURL(bucket, path string) string {
	return c.baseURL + "/storage/v1/object/" + bucket + "/" + strings.TrimLeft(path, "/")
}
