package domain

// ModelBundle is the pre-fit parameter set produced by the offline clustering job.
//
// Feature order for Scaler and Centroids is fixed: spending score, membership years.
type ModelBundle struct {
	Scaler               Scaler                         `json:"scaler" yaml:"scaler"`
	Centroids            [][]float64                    `json:"centroids" yaml:"centroids"`
	SegmentNames         map[int]string                 `json:"segment_names" yaml:"segment_names"`
	PriceRecommendations map[string]PriceRecommendation `json:"price_recommendations" yaml:"price_recommendations"`
	SegmentAnalysis      map[string]SegmentProfile      `json:"segment_analysis,omitempty" yaml:"segment_analysis,omitempty"`
}

// Scaler holds the training-time standardization statistics, one entry per feature.
type Scaler struct {
	Mean  []float64 `json:"mean" yaml:"mean"`
	Scale []float64 `json:"scale" yaml:"scale"`
}

type PriceRecommendation struct {
	CurrentPrice   float64 `json:"current_price" yaml:"current_price"`
	OptimalPrice   float64 `json:"optimal_price" yaml:"optimal_price"`
	PriceChangePct float64 `json:"price_change" yaml:"price_change"`
	Elasticity     float64 `json:"elasticity" yaml:"elasticity"`
}

// SegmentProfile is the free-form per-segment statistics table (average age, income, ...).
type SegmentProfile map[string]any

// SegmentSummary is the read-only catalogue view of one segment.
type SegmentSummary struct {
	Index    int                  `json:"index"`
	Label    string               `json:"label"`
	Centroid []float64            `json:"centroid"`
	Pricing  *PriceRecommendation `json:"pricing"`
	Profile  SegmentProfile       `json:"profile,omitempty"`
}

// BundleInfo summarises the loaded bundle for operators.
type BundleInfo struct {
	Source         string    `json:"source"`
	Features       []string  `json:"features"`
	Mean           []float64 `json:"mean"`
	Scale          []float64 `json:"scale"`
	NumSegments    int       `json:"num_segments"`
	PricedLabels   []string  `json:"priced_labels"`
	UnpricedLabels []string  `json:"unpriced_labels"`
}
