package segmentation

import (
	"context"
	"fmt"

	"customerSegmentation/domain"
	"customerSegmentation/pkg/logger"

	"github.com/go-playground/validator/v10"
)

const (
	minPurchaseFrequency = 1
	maxPurchaseFrequency = 50
)

type SegmentationService struct {
	engine   *Engine
	validate *validator.Validate
}

// NewSegmentationService wires the engine with a validator. validate must have
// the "category" tag registered, see NewValidator.
func NewSegmentationService(engine *Engine, validate *validator.Validate) *SegmentationService {
	if validate == nil {
		validate = NewValidator()
	}
	return &SegmentationService{
		engine:   engine,
		validate: validate,
	}
}

// Predict validates the whole form and returns segment, pricing and strategy.
func (s *SegmentationService) Predict(ctx context.Context, input domain.CustomerInput) (domain.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Prediction{}, fmt.Errorf("context error: %w", err)
	}

	tid := TraceIDFromContext(ctx)

	if err := s.validate.Struct(input); err != nil {
		InvalidInputTotal.Inc()
		logger.Warn("rejected customer input", "trace_id", tid, "error", err)
		return domain.Prediction{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	pred, err := s.engine.Predict(input)
	if err != nil {
		if IsFatal(err) {
			logger.Error("bundle failure during prediction", "trace_id", tid, "error", err)
		} else {
			InvalidInputTotal.Inc()
		}
		return domain.Prediction{}, err
	}

	PredictionsTotal.WithLabelValues(pred.SegmentLabel, pred.PricingStatus()).Inc()

	logger.Debug("segment_predicted",
		"trace_id", tid,
		"segment", pred.SegmentLabel,
		"segment_index", pred.SegmentIndex,
		"pricing", pred.PricingStatus(),
	)

	return pred, nil
}

// ValidateStrategyInput range-checks the three values the strategy rule reads.
func ValidateStrategyInput(spendingScore, purchaseFrequency int, membershipYears float64) error {
	if err := checkFeatureRange(spendingScore, membershipYears); err != nil {
		return err
	}
	if purchaseFrequency < minPurchaseFrequency || purchaseFrequency > maxPurchaseFrequency {
		return fmt.Errorf("%w: purchase_frequency %d outside [%d, %d]",
			ErrInvalidInput, purchaseFrequency, minPurchaseFrequency, maxPurchaseFrequency)
	}
	return nil
}

// Strategy evaluates only the marketing rule.
func (s *SegmentationService) Strategy(ctx context.Context, spendingScore, purchaseFrequency int, membershipYears float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context error: %w", err)
	}
	if err := ValidateStrategyInput(spendingScore, purchaseFrequency, membershipYears); err != nil {
		InvalidInputTotal.Inc()
		return "", err
	}

	return s.engine.RecommendStrategy(spendingScore, purchaseFrequency, membershipYears), nil
}

func (s *SegmentationService) ListSegments(ctx context.Context) ([]domain.SegmentSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	return s.engine.Segments(), nil
}

func (s *SegmentationService) GetSegment(ctx context.Context, label string) (domain.SegmentSummary, error) {
	if err := ctx.Err(); err != nil {
		return domain.SegmentSummary{}, fmt.Errorf("context error: %w", err)
	}
	return s.engine.Segment(label)
}

func (s *SegmentationService) BundleInfo(ctx context.Context) (domain.BundleInfo, error) {
	if err := ctx.Err(); err != nil {
		return domain.BundleInfo{}, fmt.Errorf("context error: %w", err)
	}
	return s.engine.Info(), nil
}
