package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/alexanderramin/prodboard/internal/repository"
	"github.com/google/uuid"
)

type productService struct {
	products repository.ProductRepo
	observer UseCaseObserver
}

func NewProductService(products repository.ProductRepo, observers ...UseCaseObserver) ProductService {
	return &productService{products: products, observer: useCaseObserverOrNoop(observers)}
}

func (s *productService) Create(ctx context.Context, p *domain.Product) (err error) {
	defer observe(ctx, s.observer, "create-product", time.Now(), map[string]any{"short_id": p.ShortID}, &err)

	if err := p.ValidateShortID(); err != nil {
		return invalid(err)
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return invalid(fmt.Errorf("product name is required"))
	}
	if _, lookupErr := s.products.GetByShortID(ctx, p.ShortID); lookupErr == nil {
		return invalid(fmt.Errorf("short ID %q is already in use", p.ShortID))
	} else if !errors.Is(lookupErr, repository.ErrNotFound) {
		return lookupErr
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = domain.ProductActive
	}
	return s.products.Create(ctx, p)
}

func (s *productService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *productService) GetByShortID(ctx context.Context, shortID string) (*domain.Product, error) {
	return s.products.GetByShortID(ctx, shortID)
}

func (s *productService) List(ctx context.Context, includeArchived bool) ([]*domain.Product, error) {
	return s.products.List(ctx, includeArchived)
}

func (s *productService) Update(ctx context.Context, p *domain.Product) (err error) {
	defer observe(ctx, s.observer, "update-product", time.Now(), map[string]any{"product_id": p.ID}, &err)

	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return invalid(fmt.Errorf("product name is required"))
	}
	p.UpdatedAt = time.Now().UTC()
	return s.products.Update(ctx, p)
}

func (s *productService) Archive(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "archive-product", time.Now(), map[string]any{"product_id": id}, &err)
	return s.products.Archive(ctx, id)
}

func (s *productService) Delete(ctx context.Context, id string, force bool) (err error) {
	defer observe(ctx, s.observer, "delete-product", time.Now(), map[string]any{"product_id": id, "force": force}, &err)

	if !force {
		p, err := s.products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.Status != domain.ProductArchived {
			return fmt.Errorf("product must be archived before deletion (use --force to override)")
		}
	}
	return s.products.Delete(ctx, id)
}

// requireWritableProduct loads a product and rejects archived ones.
func requireWritableProduct(ctx context.Context, products repository.ProductRepo, id string) (*domain.Product, error) {
	p, err := products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == domain.ProductArchived {
		return nil, fmt.Errorf("%s: %w", p.DisplayID(), ErrProductArchived)
	}
	return p, nil
}
