package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/trip-planner-core-poc/server/internal/agent/model"
)

// CachedProvider memoizes successful results of a deterministic provider,
// keyed by the JSON form of the search input. Failed calls are not cached.
// Cached and returned values never share slices or pointers.
type CachedProvider struct {
	next    model.TravelToolProvider
	flights *lru.Cache[string, []model.Flight]
	stays   *lru.Cache[string, []model.Stay]
	routes  *lru.Cache[string, []model.RouteDraftDay]
}

// NewCachedProvider keeps up to size entries per tool.
func NewCachedProvider(next model.TravelToolProvider, size int) (*CachedProvider, error) {
	if next == nil {
		return nil, fmt.Errorf("travel tool provider is nil")
	}
	flights, err := lru.New[string, []model.Flight](size)
	if err != nil {
		return nil, fmt.Errorf("flight cache: %w", err)
	}
	stays, err := lru.New[string, []model.Stay](size)
	if err != nil {
		return nil, fmt.Errorf("stay cache: %w", err)
	}
	routes, err := lru.New[string, []model.RouteDraftDay](size)
	if err != nil {
		return nil, fmt.Errorf("route cache: %w", err)
	}
	return &CachedProvider{next: next, flights: flights, stays: stays, routes: routes}, nil
}

func cacheKey(in any) (string, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	return string(b), nil
}

func cached[In, Out any](ctx context.Context, c *lru.Cache[string, []Out], in In, call func(context.Context, In) ([]Out, error), clone func(Out) Out) ([]Out, error) {
	key, err := cacheKey(in)
	if err != nil {
		return nil, err
	}
	if v, ok := c.Get(key); ok {
		return cloneAll(v, clone), nil
	}
	out, err := call(ctx, in)
	if err != nil {
		return nil, err
	}
	c.Add(key, cloneAll(out, clone))
	return out, nil
}

func cloneAll[T any](in []T, clone func(T) T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = clone(v)
	}
	return out
}

func cloneFlight(f model.Flight) model.Flight {
	f.Badges = slices.Clone(f.Badges)
	if f.Transfers != nil {
		v := *f.Transfers
		f.Transfers = &v
	}
	if f.DurationMinutes != nil {
		v := *f.DurationMinutes
		f.DurationMinutes = &v
	}
	return f
}

func cloneStay(s model.Stay) model.Stay {
	s.Badges = slices.Clone(s.Badges)
	return s
}

func cloneRouteDay(d model.RouteDraftDay) model.RouteDraftDay {
	d.Items = slices.Clone(d.Items)
	return d
}

func (c *CachedProvider) SearchFlights(ctx context.Context, in model.FlightSearchInput) ([]model.Flight, error) {
	return cached(ctx, c.flights, in, c.next.SearchFlights, cloneFlight)
}

func (c *CachedProvider) SearchStays(ctx context.Context, in model.StaySearchInput) ([]model.Stay, error) {
	return cached(ctx, c.stays, in, c.next.SearchStays, cloneStay)
}

func (c *CachedProvider) DraftRoute(ctx context.Context, in model.RouteDraftInput) ([]model.RouteDraftDay, error) {
	return cached(ctx, c.routes, in, c.next.DraftRoute, cloneRouteDay)
}

// Len reports the number of cached entries across the three tools.
func (c *CachedProvider) Len() int {
	return c.flights.Len() + c.stays.Len() + c.routes.Len()
}

var _ model.TravelToolProvider = (*CachedProvider)(nil)
