package service

import (
	"context"
	"io"

	"github.com/alexanderramin/prodboard/internal/importer"
	"github.com/alexanderramin/prodboard/internal/repository"
)

type exportService struct {
	products repository.ProductRepo
	features repository.FeatureRepo
}

func NewExportService(products repository.ProductRepo, features repository.FeatureRepo) ExportService {
	return &exportService{products: products, features: features}
}

func (s *exportService) ExportBacklog(ctx context.Context, productID string) (*importer.BacklogSchema, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	features, err := s.features.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return importer.FromDomain(p, features), nil
}

func (s *exportService) WriteBacklog(ctx context.Context, productID string, w io.Writer, format importer.Format) error {
	schema, err := s.ExportBacklog(ctx, productID)
	if err != nil {
		return err
	}
	return importer.WriteBacklogSchema(w, schema, format)
}
