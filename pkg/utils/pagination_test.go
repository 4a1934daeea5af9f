package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func parsePaginationForQuery(t *testing.T, query string) PaginationParams {
	t.Helper()

	var params PaginationParams

	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		params = ParsePagination(c)
		return c.SendStatus(fiber.StatusOK)
	})

	target := "/items"
	if query != "" {
		target += "?" + query
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	return params
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults when absent", "", DefaultPageLimit, 0},
		{"explicit values", "limit=25&offset=50", 25, 50},
		{"limit capped at maximum", "limit=500", MaxPageLimit, 0},
		{"zero limit falls back to default", "limit=0", DefaultPageLimit, 0},
		{"negative limit falls back to default", "limit=-3", DefaultPageLimit, 0},
		{"negative offset clamped to zero", "offset=-10", DefaultPageLimit, 0},
		{"non-numeric values fall back", "limit=abc&offset=xyz", DefaultPageLimit, 0},
		{"maximum limit accepted", "limit=100", MaxPageLimit, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := parsePaginationForQuery(t, tc.query)

			if params.Limit != tc.wantLimit {
				t.Fatalf("expected limit %d, got %d", tc.wantLimit, params.Limit)
			}
			if params.Offset != tc.wantOffset {
				t.Fatalf("expected offset %d, got %d", tc.wantOffset, params.Offset)
			}
		})
	}
}
