package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type fetcherFunc func(ctx context.Context) ([]Item, error)

func (f fetcherFunc) List(ctx context.Context) ([]Item, error) { return f(ctx) }

func TestServiceRefreshSuccess(t *testing.T) {
	svc := NewService(ServiceConfig{
		Fetcher: fetcherFunc(func(context.Context) ([]Item, error) {
			return []Item{{ID: "1", Author: "a"}, {ID: "2", Author: "b"}}, nil
		}),
		Logger: zerolog.Nop(),
	})

	if svc.Loaded() {
		t.Fatal("service must not report loaded before refresh")
	}
	svc.Refresh(context.Background())
	if !svc.Loaded() {
		t.Fatal("service must report loaded after refresh")
	}
	if got := svc.List(""); len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if _, ok := svc.Lookup("2"); !ok {
		t.Fatal("lookup failed for fetched item")
	}
	if _, ok := svc.Lookup("99"); ok {
		t.Fatal("lookup succeeded for unknown id")
	}
}

func TestServiceRefreshFailureServesEmpty(t *testing.T) {
	svc := NewService(ServiceConfig{
		Fetcher: fetcherFunc(func(context.Context) ([]Item, error) {
			return nil, errors.New("boom")
		}),
		Logger: zerolog.Nop(),
	})

	svc.Refresh(context.Background())
	if !svc.Loaded() {
		t.Fatal("a failed refresh still resolves the snapshot")
	}
	if got := svc.List(""); len(got) != 0 {
		t.Fatalf("expected empty catalog, got %d items", len(got))
	}
}

func TestServiceRefreshPrefersCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Minute)

	if err := cache.SetListing(context.Background(), []Item{{ID: "7", Author: "cached"}}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	fetchCalled := false
	svc := NewService(ServiceConfig{
		Fetcher: fetcherFunc(func(context.Context) ([]Item, error) {
			fetchCalled = true
			return []Item{{ID: "1", Author: "upstream"}}, nil
		}),
		Cache:  cache,
		Logger: zerolog.Nop(),
	})

	svc.Refresh(context.Background())
	if fetchCalled {
		t.Fatal("refresh hit upstream despite a warm cache")
	}
	item, ok := svc.Lookup("7")
	if !ok || item.Author != "cached" {
		t.Fatalf("expected cached item, got %+v ok=%v", item, ok)
	}
}

func TestServiceRefreshPopulatesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Minute)

	svc := NewService(ServiceConfig{
		Fetcher: fetcherFunc(func(context.Context) ([]Item, error) {
			return []Item{{ID: "3", Author: "fresh"}}, nil
		}),
		Cache:  cache,
		Logger: zerolog.Nop(),
	})
	svc.Refresh(context.Background())

	cached, ok, err := cache.GetListing(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected cached listing, ok=%v err=%v", ok, err)
	}
	if len(cached) != 1 || cached[0].ID != "3" {
		t.Fatalf("unexpected cached listing: %+v", cached)
	}
}
