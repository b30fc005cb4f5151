package client

import (
	"context"
	"fmt"
	"net/http"

	"mindnest/internal/api"
)

type Collections struct {
	listState[api.Collection]

	c *Client
}

func NewCollections(c *Client) *Collections {
	return &Collections{c: c}
}

func (cs *Collections) Refresh(ctx context.Context) error {
	cs.begin()
	var out []api.Collection
	err := cs.c.do(ctx, http.MethodGet, "/collections", nil, nil, &out)
	cs.finish(out, err)
	if err != nil {
		cs.c.notify("Failed to load collections", err)
	}
	return err
}

func (cs *Collections) Get(ctx context.Context, id uint64) (api.Collection, error) {
	var out api.Collection
	err := cs.c.do(ctx, http.MethodGet, collectionPath(id), nil, nil, &out)
	return out, err
}

func (cs *Collections) Create(ctx context.Context, in api.CollectionInput) (api.Collection, error) {
	var out api.Collection
	if err := cs.c.do(ctx, http.MethodPost, "/collections", nil, in, &out); err != nil {
		cs.c.notify("Failed to create collection", err)
		return api.Collection{}, err
	}
	_ = cs.Refresh(ctx)
	return out, nil
}

func (cs *Collections) Update(ctx context.Context, id uint64, in api.CollectionInput) (api.Collection, error) {
	var out api.Collection
	if err := cs.c.do(ctx, http.MethodPatch, collectionPath(id), nil, in, &out); err != nil {
		cs.c.notify("Failed to update collection", err)
		return api.Collection{}, err
	}
	_ = cs.Refresh(ctx)
	return out, nil
}

func (cs *Collections) Delete(ctx context.Context, id uint64) error {
	if err := cs.c.do(ctx, http.MethodDelete, collectionPath(id), nil, nil, nil); err != nil {
		cs.c.notify("Failed to delete collection", err)
		return err
	}
	_ = cs.Refresh(ctx)
	return nil
}

func collectionPath(id uint64) string {
	return fmt.Sprintf("/collections/%d", id)
}
