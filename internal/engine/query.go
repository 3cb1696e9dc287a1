package engine

import (
	"context"
	"fmt"

	"github.com/clubtools/gearshed/internal/model"
	"github.com/clubtools/gearshed/internal/store"
)

// Read-side lookups used by the kiosk and admin layers. None of these
// mutate state or write ledger entries.

// FindByTag returns the gear record for a tag, or ErrNotFound.
func (e *Engine) FindByTag(ctx context.Context, gearTag string) (*model.Gear, error) {
	g, err := store.GetGearByTag(ctx, e.DB, gearTag)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, fmt.Errorf("%w: gear %s", ErrNotFound, gearTag)
	}
	return g, nil
}

// CurrentHolder returns the member currently holding the item, or nil when
// it is not checked out.
func (e *Engine) CurrentHolder(ctx context.Context, gearTag string) (*model.Member, error) {
	g, err := e.FindByTag(ctx, gearTag)
	if err != nil {
		return nil, err
	}
	if g.HolderID == nil {
		return nil, nil
	}
	return store.GetMemberByID(ctx, e.DB, *g.HolderID)
}

// IsAvailable reports whether the item is in stock.
func (e *Engine) IsAvailable(ctx context.Context, gearTag string) (bool, error) {
	g, err := e.FindByTag(ctx, gearTag)
	if err != nil {
		return false, err
	}
	return g.IsAvailable(), nil
}

// IsRentedOut reports whether the item is checked out.
func (e *Engine) IsRentedOut(ctx context.Context, gearTag string) (bool, error) {
	g, err := e.FindByTag(ctx, gearTag)
	if err != nil {
		return false, err
	}
	return g.IsRentedOut(), nil
}
