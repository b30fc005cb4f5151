package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"mindnest/internal/analytics"
	"mindnest/internal/api"
	"mindnest/internal/prefs"
	"mindnest/internal/prompts"
	"mindnest/internal/quotes"
)

func tzQuery(tz string) url.Values {
	if tz == "" {
		return nil
	}
	return url.Values{"tz": {tz}}
}

// Summary fetches the live analytics view. tz is an IANA zone name; empty
// uses the server default.
func (c *Client) Summary(ctx context.Context, tz string) (analytics.Summary, error) {
	var out analytics.Summary
	err := c.do(ctx, http.MethodGet, "/analytics", tzQuery(tz), nil, &out)
	return out, err
}

func (c *Client) Moods(ctx context.Context, tz string) (analytics.MoodInsights, error) {
	var out analytics.MoodInsights
	err := c.do(ctx, http.MethodGet, "/analytics/moods", tzQuery(tz), nil, &out)
	return out, err
}

func (c *Client) Dashboard(ctx context.Context, tz string) (analytics.Dashboard, error) {
	var out analytics.Dashboard
	err := c.do(ctx, http.MethodGet, "/dashboard", tzQuery(tz), nil, &out)
	return out, err
}

func (c *Client) Snapshot(ctx context.Context) (api.Snapshot, error) {
	var out api.Snapshot
	err := c.do(ctx, http.MethodGet, "/analytics/snapshot", nil, nil, &out)
	return out, err
}

func (c *Client) Reflection(ctx context.Context) (string, error) {
	var out api.Reflection
	err := c.do(ctx, http.MethodPost, "/analytics/reflection", nil, nil, &out)
	return out.Text, err
}

func (c *Client) Prompts(ctx context.Context, q, mood string) ([]prompts.Prompt, error) {
	query := url.Values{}
	if q != "" {
		query.Set("q", q)
	}
	if mood != "" {
		query.Set("mood", mood)
	}
	var out []prompts.Prompt
	err := c.do(ctx, http.MethodGet, "/prompts", query, nil, &out)
	return out, err
}

func (c *Client) DailyPrompt(ctx context.Context) (prompts.Prompt, error) {
	var out prompts.Prompt
	err := c.do(ctx, http.MethodGet, "/prompts/daily", nil, nil, &out)
	return out, err
}

func (c *Client) RandomQuote(ctx context.Context) (quotes.Quote, error) {
	var out quotes.Quote
	err := c.do(ctx, http.MethodGet, "/quotes/random", nil, nil, &out)
	return out, err
}

func (c *Client) Preference(ctx context.Context, key string) (api.Preference, error) {
	var out api.Preference
	err := c.do(ctx, http.MethodGet, "/preferences/"+url.PathEscape(key), nil, nil, &out)
	return out, err
}

func (c *Client) SetPreference(ctx context.Context, key, value string) (api.Preference, error) {
	var out api.Preference
	err := c.do(ctx, http.MethodPut, "/preferences/"+url.PathEscape(key), nil, api.PreferenceValue{Value: value}, &out)
	return out, err
}

func (c *Client) DeletePreference(ctx context.Context, key string) error {
	return c.do(ctx, http.MethodDelete, "/preferences/"+url.PathEscape(key), nil, nil, nil)
}

// FavoritePrompts reads the favorite prompt ids; a missing key is an empty
// list.
func (c *Client) FavoritePrompts(ctx context.Context) ([]uint64, error) {
	p, err := c.Preference(ctx, prefs.KeyFavoritePrompts)
	if IsStatus(err, http.StatusNotFound) {
		return []uint64{}, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []uint64
	if err := json.Unmarshal([]byte(p.Value), &ids); err != nil {
		return nil, errors.New("favorite_prompts: not a list of ids")
	}
	return ids, nil
}

// ToggleFavoritePrompt adds or removes id and reports whether it is now a
// favorite.
func (c *Client) ToggleFavoritePrompt(ctx context.Context, id uint64) (bool, error) {
	ids, err := c.FavoritePrompts(ctx)
	if err != nil {
		return false, err
	}

	out := make([]uint64, 0, len(ids)+1)
	found := false
	for _, v := range ids {
		if v == id {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, id)
	}

	b, _ := json.Marshal(out)
	if _, err := c.SetPreference(ctx, prefs.KeyFavoritePrompts, string(b)); err != nil {
		c.notify("Failed to update favorites", err)
		return false, err
	}
	return !found, nil
}
