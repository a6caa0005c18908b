package domain

const (
	PricingAvailable   = "available"
	PricingUnavailable = "no recommendation available"
)

// Prediction is the per-request result. Pricing is nil when the segment has no price record.
type Prediction struct {
	SegmentIndex      int                  `json:"segment_index"`
	SegmentLabel      string               `json:"segment_label"`
	Pricing           *PriceRecommendation `json:"pricing"`
	StrategyText      string               `json:"strategy"`
	PreferredCategory string               `json:"preferred_category,omitempty"`
}

// PricingStatus reports whether a price record was found for the segment.
func (p Prediction) PricingStatus() string {
	if p.Pricing == nil {
		return PricingUnavailable
	}
	return PricingAvailable
}
