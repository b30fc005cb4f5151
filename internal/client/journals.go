package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"mindnest/internal/api"
)

// Journals mirrors the journal list, optionally scoped to one collection.
type Journals struct {
	listState[api.Journal]

	c            *Client
	CollectionID *uint64
}

func NewJournals(c *Client, collectionID *uint64) *Journals {
	return &Journals{c: c, CollectionID: collectionID}
}

func (j *Journals) query() url.Values {
	if j.CollectionID == nil {
		return nil
	}
	return url.Values{"collection_id": {strconv.FormatUint(*j.CollectionID, 10)}}
}

func (j *Journals) Refresh(ctx context.Context) error {
	j.begin()
	var out []api.Journal
	err := j.c.do(ctx, http.MethodGet, "/journals", j.query(), nil, &out)
	j.finish(out, err)
	if err != nil {
		j.c.notify("Failed to load journals", err)
	}
	return err
}

// Get fetches one entry without touching the list.
func (j *Journals) Get(ctx context.Context, id uint64) (api.Journal, error) {
	var out api.Journal
	err := j.c.do(ctx, http.MethodGet, journalPath(id), nil, nil, &out)
	return out, err
}

func (j *Journals) Create(ctx context.Context, in api.JournalInput) (api.Journal, error) {
	var out api.Journal
	return j.mutate(ctx, "Failed to save journal", func() error {
		return j.c.do(ctx, http.MethodPost, "/journals", nil, in, &out)
	}, &out)
}

func (j *Journals) Update(ctx context.Context, id uint64, in api.JournalUpdate) (api.Journal, error) {
	var out api.Journal
	return j.mutate(ctx, "Failed to update journal", func() error {
		return j.c.do(ctx, http.MethodPatch, journalPath(id), nil, in, &out)
	}, &out)
}

func (j *Journals) Delete(ctx context.Context, id uint64) error {
	_, err := j.mutate(ctx, "Failed to delete journal", func() error {
		return j.c.do(ctx, http.MethodDelete, journalPath(id), nil, nil, nil)
	}, nil)
	return err
}

func (j *Journals) ToggleFavorite(ctx context.Context, id uint64) (api.Journal, error) {
	var out api.Journal
	return j.mutate(ctx, "Failed to update favorite", func() error {
		return j.c.do(ctx, http.MethodPost, journalPath(id)+"/favorite", nil, nil, &out)
	}, &out)
}

// mutate runs call and re-fetches the list on success. On failure the
// local list is left alone.
func (j *Journals) mutate(ctx context.Context, msg string, call func() error, out *api.Journal) (api.Journal, error) {
	if err := call(); err != nil {
		j.c.notify(msg, err)
		return api.Journal{}, err
	}
	_ = j.Refresh(ctx)
	if out == nil {
		return api.Journal{}, nil
	}
	return *out, nil
}

func journalPath(id uint64) string {
	return fmt.Sprintf("/journals/%d", id)
}
