package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/prodboard/internal/db"
	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/alexanderramin/prodboard/internal/importer"
	"github.com/alexanderramin/prodboard/internal/repository"
	"github.com/alexanderramin/prodboard/internal/validation"
)

const importNote = "imported"

type importService struct {
	uow      db.UnitOfWork
	policy   ValidationPolicy
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, policy ValidationPolicy, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, policy: policy, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportBacklog(ctx context.Context, filePath, productID string) (*ImportResult, error) {
	schema, err := importer.LoadBacklogSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema, productID)
}

func (s *importService) ImportBacklogFromSchema(ctx context.Context, schema *importer.BacklogSchema, productID string) (*ImportResult, error) {
	return s.importSchema(ctx, schema, productID)
}

func (s *importService) importSchema(ctx context.Context, schema *importer.BacklogSchema, productID string) (result *ImportResult, err error) {
	fields := map[string]any{"short_id": schema.Product.ShortID, "feature_count": len(schema.Features)}
	defer observe(ctx, s.observer, "import-backlog", time.Now(), fields, &err)

	if errs := importer.ValidateBacklogSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	backlog, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting backlog: %w", err)
	}

	result = &ImportResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)

		product, created, err := s.resolveProduct(ctx, repos, backlog.Product, productID)
		if err != nil {
			return err
		}
		result.Product = product
		result.ProductCreated = created

		existing, err := repos.features.ListByProduct(ctx, product.ID)
		if err != nil {
			return err
		}
		merged, previous, err := mergeFeatures(ctx, repos, product.ID, existing, backlog.Features)
		if err != nil {
			return err
		}

		// Imports carry historical backlogs, so past start dates are accepted.
		v := s.policy.validator(merged, validation.WithPastStartAllowed())
		var errs []error
		imported := make(map[string]bool, len(backlog.Features))
		for _, f := range backlog.Features {
			imported[f.ID] = true
			for _, e := range v.ValidateFeature(f) {
				errs = append(errs, fmt.Errorf("feature %q: %w", f.Title, e))
			}
		}
		// Stored features outside the file may depend on rescheduled ones.
		for _, f := range merged {
			if imported[f.ID] {
				continue
			}
			if err := v.ValidateOrdering(f); err != nil {
				errs = append(errs, fmt.Errorf("feature %q: %w", f.Title, err))
			}
		}
		if len(errs) > 0 {
			return errors.Join(errs...)
		}

		// Features with an explicit seq go first so allocation skips past them.
		for _, f := range backlog.Features {
			if f.Seq == 0 {
				continue
			}
			if err := repos.features.Upsert(ctx, f); err != nil {
				return fmt.Errorf("saving feature %q: %w", f.Title, err)
			}
		}
		for _, f := range backlog.Features {
			if f.Seq > 0 {
				continue
			}
			if f.Seq, err = repos.seq.NextSeq(ctx, product.ID); err != nil {
				return err
			}
			if err := repos.features.Upsert(ctx, f); err != nil {
				return fmt.Errorf("saving feature %q: %w", f.Title, err)
			}
		}

		for _, f := range backlog.Features {
			if err := repos.deps.Replace(ctx, f.ID, f.Dependencies); err != nil {
				return fmt.Errorf("saving dependencies of %q: %w", f.Title, err)
			}
			result.DependencyCount += len(f.Dependencies)

			old, ok := previous[f.ID]
			switch {
			case !ok:
				result.Created++
				err = repos.appendHistory(ctx, f.ID, domain.HistoryCreated, "", formatScore(f.RICEScore), importNote)
			case old.RICEScore != f.RICEScore:
				result.Updated++
				err = repos.appendHistory(ctx, f.ID, domain.HistoryRICEScore, formatScore(old.RICEScore), formatScore(f.RICEScore), importNote)
			default:
				result.Updated++
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["created"] = result.Created
	fields["updated"] = result.Updated
	return result, nil
}

// resolveProduct picks the target product: the explicit productID, else the
// product with the file's short ID, else the file's product is created.
func (s *importService) resolveProduct(ctx context.Context, repos txRepos, fromFile *domain.Product, productID string) (*domain.Product, bool, error) {
	var (
		product *domain.Product
		err     error
	)
	if productID != "" {
		product, err = repos.products.GetByID(ctx, productID)
	} else {
		product, err = repos.products.GetByShortID(ctx, fromFile.ShortID)
	}
	switch {
	case err == nil:
		if product.Status == domain.ProductArchived {
			return nil, false, fmt.Errorf("%s: %w", product.DisplayID(), ErrProductArchived)
		}
		return product, false, nil
	case productID != "" || !errors.Is(err, repository.ErrNotFound):
		return nil, false, err
	}

	if err := repos.products.Create(ctx, fromFile); err != nil {
		return nil, false, fmt.Errorf("creating product: %w", err)
	}
	return fromFile, true, nil
}

// mergeFeatures re-homes imported features into productID and returns the
// product's feature list as it will look after the import, plus the stored
// version of every imported feature that already existed.
func mergeFeatures(ctx context.Context, repos txRepos, productID string, existing, imported []*domain.Feature) ([]*domain.Feature, map[string]*domain.Feature, error) {
	previous := make(map[string]*domain.Feature, len(imported))
	byID := make(map[string]int, len(existing))
	merged := make([]*domain.Feature, len(existing), len(existing)+len(imported))
	copy(merged, existing)
	for i, f := range existing {
		byID[f.ID] = i
	}

	for _, f := range imported {
		f.ProductID = productID
		if i, ok := byID[f.ID]; ok {
			old := existing[i]
			previous[f.ID] = old
			f.CreatedAt = old.CreatedAt
			if f.Seq == 0 {
				f.Seq = old.Seq
			}
			merged[i] = f
			continue
		}

		other, err := repos.features.GetByID(ctx, f.ID)
		switch {
		case err == nil:
			return nil, nil, invalid(fmt.Errorf("feature id %s belongs to another product (%s)", f.ID, other.ProductID))
		case !errors.Is(err, repository.ErrNotFound):
			return nil, nil, err
		}
		merged = append(merged, f)
	}

	taken := make(map[int]*domain.Feature, len(merged))
	for _, f := range merged {
		if f.Seq == 0 {
			continue
		}
		if other, ok := taken[f.Seq]; ok {
			return nil, nil, invalid(fmt.Errorf("feature %q: seq %d is already used by %q", f.Title, f.Seq, other.Title))
		}
		taken[f.Seq] = f
	}
	return merged, previous, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return invalid(fmt.Errorf("%s", msg))
}
