package destinations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/apperror"
)

// mockRepository implements Repository with function fields.
type mockRepository struct {
	listFn      func(ctx context.Context) ([]Destination, error)
	getBySlugFn func(ctx context.Context, slug string) (*Destination, error)
}

func (m *mockRepository) List(ctx context.Context) ([]Destination, error) {
	if m.listFn == nil {
		return nil, errors.New("unexpected List call")
	}
	return m.listFn(ctx)
}

func (m *mockRepository) GetBySlug(ctx context.Context, slug string) (*Destination, error) {
	if m.getBySlugFn == nil {
		return nil, errors.New("unexpected GetBySlug call")
	}
	return m.getBySlugFn(ctx, slug)
}

func newTestService(repo Repository) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, logger)
}

func catalog() []Destination {
	return []Destination{
		{ID: 1, Name: "Marrakech", Slug: "marrakech", Lat: 31.6315, Lng: -8.0083, Tagline: "Red City magic"},
		{ID: 2, Name: "Chefchaouen", Slug: "chefchaouen", Lat: 35.1689, Lng: -5.2694, Tagline: "Blue Pearl"},
	}
}

func TestList_CachesCatalog(t *testing.T) {
	listCalls := 0
	repo := &mockRepository{
		listFn: func(ctx context.Context) ([]Destination, error) {
			listCalls++
			return catalog(), nil
		},
	}
	svc := newTestService(repo)

	for i := 0; i < 3; i++ {
		list, err := svc.List(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(list) != 2 || list[0].Slug != "marrakech" {
			t.Errorf("unexpected catalog: %+v", list)
		}
	}
	if listCalls != 1 {
		t.Errorf("expected 1 repository call, got %d", listCalls)
	}
}

func TestList_RepositoryFailure(t *testing.T) {
	repo := &mockRepository{
		listFn: func(ctx context.Context) ([]Destination, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc := newTestService(repo)

	_, err := svc.List(context.Background())
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 500 {
		t.Errorf("expected an internal error, got %v", err)
	}
}

func TestGetBySlug_NotFound(t *testing.T) {
	repo := &mockRepository{
		getBySlugFn: func(ctx context.Context, slug string) (*Destination, error) {
			return nil, fmt.Errorf("fetching destination %q: %w", slug, sql.ErrNoRows)
		},
	}
	svc := newTestService(repo)

	_, err := svc.GetBySlug(context.Background(), "atlantis")
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 404 {
		t.Errorf("expected a 404, got %v", err)
	}
}

func TestGetBySlug_Success(t *testing.T) {
	repo := &mockRepository{
		getBySlugFn: func(ctx context.Context, slug string) (*Destination, error) {
			if slug != "fes" {
				t.Errorf("unexpected slug %q", slug)
			}
			return &Destination{ID: 3, Name: "Fes", Slug: "fes"}, nil
		},
	}
	svc := newTestService(repo)

	d, err := svc.GetBySlug(context.Background(), "fes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Name != "Fes" {
		t.Errorf("unexpected destination: %+v", d)
	}
}
