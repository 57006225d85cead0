package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alexanderramin/prodboard/internal/domain"
	"github.com/alexanderramin/prodboard/internal/repository"
	"github.com/google/uuid"
)

// MaxFeedbackLen bounds feedback content, in characters.
const MaxFeedbackLen = 2000

type feedbackService struct {
	products repository.ProductRepo
	features repository.FeatureRepo
	feedback repository.FeedbackRepo
	observer UseCaseObserver
}

func NewFeedbackService(
	products repository.ProductRepo,
	features repository.FeatureRepo,
	feedback repository.FeedbackRepo,
	observers ...UseCaseObserver,
) FeedbackService {
	return &feedbackService{
		products: products,
		features: features,
		feedback: feedback,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *feedbackService) Submit(ctx context.Context, fb *domain.Feedback) (err error) {
	defer observe(ctx, s.observer, "submit-feedback", time.Now(), map[string]any{"product_id": fb.ProductID}, &err)

	fb.Content = strings.TrimSpace(fb.Content)
	fb.Author = strings.TrimSpace(fb.Author)
	switch n := utf8.RuneCountInString(fb.Content); {
	case n == 0:
		return invalid(fmt.Errorf("feedback content is required"))
	case n > MaxFeedbackLen:
		return invalid(fmt.Errorf("feedback content must be at most %d characters", MaxFeedbackLen))
	}
	if fb.Author == "" {
		fb.Author = "anonymous"
	}

	if _, err := requireWritableProduct(ctx, s.products, fb.ProductID); err != nil {
		return err
	}
	if fb.FeatureID != nil {
		if err := s.checkFeatureInProduct(ctx, *fb.FeatureID, fb.ProductID); err != nil {
			return err
		}
	}

	if fb.ID == "" {
		fb.ID = uuid.New().String()
	}
	fb.CreatedAt = time.Now().UTC()
	return s.feedback.Create(ctx, fb)
}

func (s *feedbackService) GetByID(ctx context.Context, id string) (*domain.Feedback, error) {
	return s.feedback.GetByID(ctx, id)
}

func (s *feedbackService) ListByProduct(ctx context.Context, productID string) ([]*domain.Feedback, error) {
	return s.feedback.ListByProduct(ctx, productID)
}

func (s *feedbackService) ListByFeature(ctx context.Context, featureID string) ([]*domain.Feedback, error) {
	return s.feedback.ListByFeature(ctx, featureID)
}

func (s *feedbackService) LinkToFeature(ctx context.Context, id string, featureID *string) (err error) {
	defer observe(ctx, s.observer, "link-feedback", time.Now(), map[string]any{"feedback_id": id}, &err)

	fb, err := s.feedback.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if featureID != nil {
		if err := s.checkFeatureInProduct(ctx, *featureID, fb.ProductID); err != nil {
			return err
		}
	}
	return s.feedback.LinkFeature(ctx, id, featureID)
}

func (s *feedbackService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-feedback", time.Now(), map[string]any{"feedback_id": id}, &err)
	return s.feedback.Delete(ctx, id)
}

func (s *feedbackService) checkFeatureInProduct(ctx context.Context, featureID, productID string) error {
	f, err := s.features.GetByID(ctx, featureID)
	if err != nil {
		return err
	}
	if f.ProductID != productID {
		return invalid(fmt.Errorf("feature %s belongs to a different product", f.DisplayID()))
	}
	return nil
}
