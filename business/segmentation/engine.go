package segmentation

import (
	"fmt"
	"maps"
	"sort"

	"customerSegmentation/domain"
)

const (
	minSpendingScore   = 0
	maxSpendingScore   = 100
	minMembershipYears = 0.0
	maxMembershipYears = 20.0
)

const (
	StrategyPremium      = "Premium product focus, exclusive offers, VIP treatment"
	StrategyReengagement = "Re-engagement campaigns, personalized discounts, product trials"
	StrategyLoyalty      = "Loyalty rewards, referral programs, early access to new products"
	StrategyValue        = "Value proposition focus, bundle deals, educational content"
)

// AssignSegment standardizes the two clustering features and returns the label
// of the nearest centroid. Equidistant centroids resolve to the lowest index.
func AssignSegment(b domain.ModelBundle, spendingScore int, membershipYears float64) (string, error) {
	_, label, err := assign(b, spendingScore, membershipYears)
	return label, err
}

func assign(b domain.ModelBundle, spendingScore int, membershipYears float64) (int, string, error) {
	if err := checkFeatureRange(spendingScore, membershipYears); err != nil {
		return -1, "", err
	}

	raw := [featureDim]float64{float64(spendingScore), membershipYears}
	z, err := standardize(raw, b.Scaler)
	if err != nil {
		return -1, "", err
	}

	idx, err := nearestCentroid(z, b.Centroids)
	if err != nil {
		return -1, "", err
	}

	label, ok := b.SegmentNames[idx]
	if !ok {
		return -1, "", fmt.Errorf("%w: no segment name for centroid %d", ErrBundleIntegrity, idx)
	}
	return idx, label, nil
}

func checkFeatureRange(spendingScore int, membershipYears float64) error {
	if spendingScore < minSpendingScore || spendingScore > maxSpendingScore {
		return fmt.Errorf("%w: spending_score %d outside [%d, %d]",
			ErrInvalidInput, spendingScore, minSpendingScore, maxSpendingScore)
	}
	// negated form so NaN is rejected too
	if !(membershipYears >= minMembershipYears && membershipYears <= maxMembershipYears) {
		return fmt.Errorf("%w: membership_years %v outside [%.1f, %.1f]",
			ErrInvalidInput, membershipYears, minMembershipYears, maxMembershipYears)
	}
	return nil
}

// RecommendPricing returns the stored record for label. ok is false when the
// bundle has no pricing guidance for that segment; that is not an error.
func RecommendPricing(b domain.ModelBundle, label string) (domain.PriceRecommendation, bool) {
	rec, ok := b.PriceRecommendations[label]
	return rec, ok
}

// RecommendStrategy applies the marketing rules in priority order on raw inputs.
// It does not look at the assigned segment.
func RecommendStrategy(spendingScore, purchaseFrequency int, membershipYears float64) string {
	switch {
	case spendingScore > 70:
		return StrategyPremium
	case purchaseFrequency < 8:
		return StrategyReengagement
	case membershipYears > 6:
		return StrategyLoyalty
	default:
		return StrategyValue
	}
}

// Engine serves predictions from one validated bundle. It is never mutated
// after NewEngine returns and is safe for concurrent use.
type Engine struct {
	bundle domain.ModelBundle
	source string
}

// NewEngine validates b and keeps a private copy of it.
func NewEngine(b domain.ModelBundle, source string) (*Engine, error) {
	if err := ValidateBundle(b); err != nil {
		return nil, err
	}
	return &Engine{bundle: cloneBundle(b), source: source}, nil
}

func (e *Engine) AssignSegment(spendingScore int, membershipYears float64) (string, error) {
	return AssignSegment(e.bundle, spendingScore, membershipYears)
}

func (e *Engine) RecommendPricing(label string) (domain.PriceRecommendation, bool) {
	return RecommendPricing(e.bundle, label)
}

func (e *Engine) RecommendStrategy(spendingScore, purchaseFrequency int, membershipYears float64) string {
	return RecommendStrategy(spendingScore, purchaseFrequency, membershipYears)
}

// Predict runs assignment, pricing lookup and the strategy rule for one customer.
func (e *Engine) Predict(in domain.CustomerInput) (domain.Prediction, error) {
	idx, label, err := assign(e.bundle, in.SpendingScore, in.MembershipYears)
	if err != nil {
		return domain.Prediction{}, err
	}

	pred := domain.Prediction{
		SegmentIndex:      idx,
		SegmentLabel:      label,
		StrategyText:      RecommendStrategy(in.SpendingScore, in.PurchaseFrequency, in.MembershipYears),
		PreferredCategory: in.PreferredCategory,
	}
	if rec, ok := RecommendPricing(e.bundle, label); ok {
		pred.Pricing = &rec
	}
	return pred, nil
}

// Segments lists every segment in centroid order.
func (e *Engine) Segments() []domain.SegmentSummary {
	out := make([]domain.SegmentSummary, 0, len(e.bundle.Centroids))
	for i := range e.bundle.Centroids {
		out = append(out, e.summary(i))
	}
	return out
}

func (e *Engine) Segment(label string) (domain.SegmentSummary, error) {
	for i := range e.bundle.Centroids {
		if e.bundle.SegmentNames[i] == label {
			return e.summary(i), nil
		}
	}
	return domain.SegmentSummary{}, fmt.Errorf("%w: %q", ErrSegmentNotFound, label)
}

func (e *Engine) summary(i int) domain.SegmentSummary {
	label := e.bundle.SegmentNames[i]
	s := domain.SegmentSummary{
		Index:    i,
		Label:    label,
		Centroid: append([]float64(nil), e.bundle.Centroids[i]...),
	}
	if rec, ok := e.bundle.PriceRecommendations[label]; ok {
		s.Pricing = &rec
	}
	if profile, ok := e.bundle.SegmentAnalysis[label]; ok {
		s.Profile = domain.SegmentProfile(maps.Clone(map[string]any(profile)))
	}
	return s
}

// Info summarises the bundle without exposing the engine's copy.
func (e *Engine) Info() domain.BundleInfo {
	info := domain.BundleInfo{
		Source:         e.source,
		Features:       append([]string(nil), featureNames[:]...),
		Mean:           append([]float64(nil), e.bundle.Scaler.Mean...),
		Scale:          append([]float64(nil), e.bundle.Scaler.Scale...),
		NumSegments:    len(e.bundle.Centroids),
		PricedLabels:   []string{},
		UnpricedLabels: []string{},
	}
	for i := range e.bundle.Centroids {
		label := e.bundle.SegmentNames[i]
		if _, ok := e.bundle.PriceRecommendations[label]; ok {
			info.PricedLabels = append(info.PricedLabels, label)
		} else {
			info.UnpricedLabels = append(info.UnpricedLabels, label)
		}
	}
	sort.Strings(info.PricedLabels)
	sort.Strings(info.UnpricedLabels)
	return info
}

// Bundle returns a deep copy of the served bundle.
func (e *Engine) Bundle() domain.ModelBundle {
	return cloneBundle(e.bundle)
}
