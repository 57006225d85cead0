package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/prodboard/internal/db"
	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/alexanderramin/prodboard/internal/prioritization"
	"github.com/alexanderramin/prodboard/internal/repository"
	"github.com/alexanderramin/prodboard/internal/validation"
	"github.com/google/uuid"
)

type featureService struct {
	features repository.FeatureRepo
	history  repository.HistoryRepo
	uow      db.UnitOfWork
	policy   ValidationPolicy
	observer UseCaseObserver
}

func NewFeatureService(
	features repository.FeatureRepo,
	history repository.HistoryRepo,
	uow db.UnitOfWork,
	policy ValidationPolicy,
	observers ...UseCaseObserver,
) FeatureService {
	return &featureService{
		features: features,
		history:  history,
		uow:      uow,
		policy:   policy,
		observer: useCaseObserverOrNoop(observers),
	}
}

// txRepos bundles the repositories bound to one transaction.
type txRepos struct {
	products repository.ProductRepo
	features repository.FeatureRepo
	deps     repository.DependencyRepo
	history  repository.HistoryRepo
	seq      repository.SequenceRepo
}

func newTxRepos(tx db.DBTX) txRepos {
	return txRepos{
		products: repository.NewSQLiteProductRepo(tx),
		features: repository.NewSQLiteFeatureRepo(tx),
		deps:     repository.NewSQLiteDependencyRepo(tx),
		history:  repository.NewSQLiteHistoryRepo(tx),
		seq:      repository.NewSQLiteSequenceRepo(tx),
	}
}

func (r txRepos) appendHistory(ctx context.Context, featureID, field, oldValue, newValue, note string) error {
	return r.history.Append(ctx, &domain.FeatureHistory{
		ID:        uuid.New().String(),
		FeatureID: featureID,
		Field:     field,
		OldValue:  oldValue,
		NewValue:  newValue,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	})
}

// loadForEdit returns the product's features and the one being edited.
func (r txRepos) loadForEdit(ctx context.Context, id string) ([]*domain.Feature, *domain.Feature, error) {
	current, err := r.features.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if _, err := requireWritableProduct(ctx, r.products, current.ProductID); err != nil {
		return nil, nil, err
	}
	all, err := r.features.ListByProduct(ctx, current.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if f := findFeature(all, id); f != nil {
		return all, f, nil
	}
	return all, current, nil
}

func (s *featureService) Create(ctx context.Context, f *domain.Feature) (err error) {
	fields := map[string]any{"product_id": f.ProductID, "title": f.Title}
	defer observe(ctx, s.observer, "create-feature", time.Now(), fields, &err)

	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.Status == "" {
		f.Status = domain.StatusBacklog
	}
	if f.Priority == "" {
		f.Priority = domain.PriorityShould
	}
	if f.RICE.IsZero() {
		f.RICE = domain.DefaultRICEInput
	}
	if !f.Status.Valid() {
		return invalid(fmt.Errorf("invalid status %q", f.Status))
	}
	if !f.Priority.Valid() {
		return invalid(fmt.Errorf("invalid priority %q", f.Priority))
	}
	if err := prioritization.ValidateInput(f.RICE); err != nil {
		return invalid(err)
	}
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Dependencies = dedupe(f.Dependencies)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)

		if _, err := requireWritableProduct(ctx, repos.products, f.ProductID); err != nil {
			return err
		}
		existing, err := repos.features.ListByProduct(ctx, f.ProductID)
		if err != nil {
			return err
		}
		if errs := s.policy.validator(existing).ValidateFeature(f); len(errs) > 0 {
			return errors.Join(errs...)
		}

		seq, err := repos.seq.NextSeq(ctx, f.ProductID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		f.Seq = seq
		f.RICEScore = prioritization.Score(f.RICE)
		f.CreatedAt = now
		f.UpdatedAt = now
		fields["seq"] = seq
		fields["rice_score"] = f.RICEScore

		if err := repos.features.Create(ctx, f); err != nil {
			return err
		}
		if err := repos.deps.Replace(ctx, f.ID, f.Dependencies); err != nil {
			return err
		}
		return repos.appendHistory(ctx, f.ID, domain.HistoryCreated, "", formatScore(f.RICEScore), "")
	})
}

func (s *featureService) GetByID(ctx context.Context, id string) (*domain.Feature, error) {
	return s.features.GetByID(ctx, id)
}

func (s *featureService) ListByProduct(ctx context.Context, productID string) ([]*domain.Feature, error) {
	return s.features.ListByProduct(ctx, productID)
}

func (s *featureService) Update(ctx context.Context, f *domain.Feature) (err error) {
	defer observe(ctx, s.observer, "update-feature", time.Now(), map[string]any{"feature_id": f.ID}, &err)

	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)

		all, current, err := repos.loadForEdit(ctx, f.ID)
		if err != nil {
			return err
		}

		startChanged := !sameDay(current.StartDate, f.StartDate)
		datesChanged := startChanged || !sameDay(current.EndDate, f.EndDate)

		// An unchanged start date may already lie in the past.
		v := s.policy.validator(all, validation.WithPastStartPolicy(s.policy.AllowPastStart || !startChanged))

		var errs []error
		if err := v.ValidateTitle(f.Title, f.ID); err != nil {
			errs = append(errs, err)
		}
		if err := v.ValidateDescription(f.Description); err != nil {
			errs = append(errs, err)
		}
		if datesChanged {
			if err := v.ValidateDates(f.StartDate, f.EndDate); err != nil {
				errs = append(errs, err)
			}
			probe := current.Clone()
			probe.StartDate = f.StartDate
			probe.EndDate = f.EndDate
			if err := v.ValidateDependencies(current.Dependencies, probe); err != nil {
				errs = append(errs, err)
			}
			if err := v.ValidateDependents(probe); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			return errors.Join(errs...)
		}

		updated := current.Clone()
		updated.Title = f.Title
		updated.Description = f.Description
		updated.StartDate = f.StartDate
		updated.EndDate = f.EndDate
		updated.UpdatedAt = time.Now().UTC()
		if err := repos.features.Update(ctx, updated); err != nil {
			return err
		}
		if datesChanged {
			if err := repos.appendHistory(ctx, f.ID, domain.HistoryDates, formatDates(current), formatDates(updated), ""); err != nil {
				return err
			}
		}
		*f = *updated
		return nil
	})
}

func (s *featureService) SetStatus(ctx context.Context, id string, status domain.FeatureStatus) (result *domain.Feature, err error) {
	defer observe(ctx, s.observer, "set-feature-status", time.Now(), map[string]any{"feature_id": id, "status": string(status)}, &err)

	if !status.Valid() {
		return nil, invalid(fmt.Errorf("invalid status %q (want one of backlog, doing, blocked, done)", status))
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		_, f, err := repos.loadForEdit(ctx, id)
		if err != nil {
			return err
		}
		result = f
		if f.Status == status {
			return nil
		}
		old := f.Status
		f.Status = status
		f.UpdatedAt = time.Now().UTC()
		if err := repos.features.Update(ctx, f); err != nil {
			return err
		}
		return repos.appendHistory(ctx, id, domain.HistoryStatus, string(old), string(status), "")
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *featureService) SetPriority(ctx context.Context, id string, priority domain.MoSCoW) (result *domain.Feature, err error) {
	defer observe(ctx, s.observer, "set-feature-priority", time.Now(), map[string]any{"feature_id": id, "priority": string(priority)}, &err)

	if !priority.Valid() {
		return nil, invalid(fmt.Errorf("invalid priority %q (want one of must, should, could, wont)", priority))
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		_, f, err := repos.loadForEdit(ctx, id)
		if err != nil {
			return err
		}
		result = f
		if f.Priority == priority {
			return nil
		}
		old := f.Priority
		f.Priority = priority
		f.UpdatedAt = time.Now().UTC()
		if err := repos.features.Update(ctx, f); err != nil {
			return err
		}
		return repos.appendHistory(ctx, id, domain.HistoryPriority, string(old), string(priority), "")
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateRICE stores new RICE inputs, recomputes the score and appends an
// audit entry carrying the old and new score and the note, all in one
// transaction.
func (s *featureService) UpdateRICE(ctx context.Context, id string, in domain.RICEInput, note string) (result *domain.Feature, err error) {
	fields := map[string]any{"feature_id": id}
	defer observe(ctx, s.observer, "update-rice", time.Now(), fields, &err)

	if err := prioritization.ValidateInput(in); err != nil {
		return nil, invalid(err)
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		_, f, err := repos.loadForEdit(ctx, id)
		if err != nil {
			return err
		}

		oldScore := f.RICEScore
		f.RICE = in
		prioritization.Rescore(f)
		f.UpdatedAt = time.Now().UTC()
		fields["old_score"] = oldScore
		fields["new_score"] = f.RICEScore

		if err := repos.features.Update(ctx, f); err != nil {
			return err
		}
		if err := repos.appendHistory(ctx, id, domain.HistoryRICEScore, formatScore(oldScore), formatScore(f.RICEScore), strings.TrimSpace(note)); err != nil {
			return err
		}
		result = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *featureService) SetDependencies(ctx context.Context, id string, depIDs []string) (result *domain.Feature, err error) {
	fields := map[string]any{"feature_id": id}
	defer observe(ctx, s.observer, "set-dependencies", time.Now(), fields, &err)

	depIDs = dedupe(depIDs)
	fields["dependency_count"] = len(depIDs)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		all, f, err := repos.loadForEdit(ctx, id)
		if err != nil {
			return err
		}

		// Validator runs even for an unchanged set: an earlier date edit on a
		// dependency may have broken ordering.
		if err := s.policy.validator(all).ValidateDependencies(depIDs, f); err != nil {
			return err
		}

		old := dependencyLabels(all, f.Dependencies)
		if err := repos.deps.Replace(ctx, id, depIDs); err != nil {
			return err
		}
		f.Dependencies = depIDs
		if err := repos.appendHistory(ctx, id, domain.HistoryDependencies, old, dependencyLabels(all, depIDs), ""); err != nil {
			return err
		}
		result = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Prioritized returns the product's backlog in rank order.
func (s *featureService) Prioritized(ctx context.Context, productID string) ([]*domain.Feature, error) {
	features, err := s.features.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	prioritization.Rank(features)
	return features, nil
}

// Roadmap groups features by start month, months ascending, features by
// start date then seq.
func (s *featureService) Roadmap(ctx context.Context, productID string) ([]RoadmapMonth, error) {
	features, err := s.features.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(features, func(i, j int) bool {
		a, b := features[i], features[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		return a.Seq < b.Seq
	})

	var months []RoadmapMonth
	for _, f := range features {
		m := monthOf(f.StartDate)
		if len(months) == 0 || !months[len(months)-1].Month.Equal(m) {
			months = append(months, RoadmapMonth{Month: m})
		}
		last := &months[len(months)-1]
		last.Features = append(last.Features, f)
	}
	return months, nil
}

func (s *featureService) History(ctx context.Context, id string) ([]*domain.FeatureHistory, error) {
	if _, err := s.features.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.history.ListByFeature(ctx, id)
}

func (s *featureService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-feature", time.Now(), map[string]any{"feature_id": id}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		f, err := repos.features.GetByID(ctx, id)
		if err != nil {
			return err
		}
		dependents, err := repos.deps.ListDependents(ctx, id)
		if err != nil {
			return err
		}
		if len(dependents) > 0 {
			return fmt.Errorf("%s is required by %d feature(s): %w", f.DisplayID(), len(dependents), ErrFeatureHasDependents)
		}
		return repos.features.Delete(ctx, id)
	})
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
