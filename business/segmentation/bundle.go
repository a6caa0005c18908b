package segmentation

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"customerSegmentation/domain"
)

// ValidateBundle runs the startup checks that make per-request bundle failures impossible.
// Every returned error wraps ErrDegenerateScaler or ErrBundleIntegrity.
func ValidateBundle(b domain.ModelBundle) error {
	if len(b.Scaler.Mean) != featureDim || len(b.Scaler.Scale) != featureDim {
		return fmt.Errorf("%w: scaler must be fit on exactly %d features, got %d means and %d scales",
			ErrBundleIntegrity, featureDim, len(b.Scaler.Mean), len(b.Scaler.Scale))
	}
	for i := range featureDim {
		if !isFinite(b.Scaler.Mean[i]) {
			return fmt.Errorf("%w: non-finite mean for %s", ErrBundleIntegrity, featureNames[i])
		}
		scale := b.Scaler.Scale[i]
		if scale == 0 || !isFinite(scale) {
			return fmt.Errorf("%w: scale %v for %s", ErrDegenerateScaler, scale, featureNames[i])
		}
	}

	if len(b.Centroids) == 0 {
		return fmt.Errorf("%w: bundle has no centroids", ErrBundleIntegrity)
	}
	for i, c := range b.Centroids {
		if len(c) != featureDim {
			return fmt.Errorf("%w: centroid %d has %d dimensions, want %d",
				ErrBundleIntegrity, i, len(c), featureDim)
		}
		for _, v := range c {
			if !isFinite(v) {
				return fmt.Errorf("%w: centroid %d has a non-finite coordinate", ErrBundleIntegrity, i)
			}
		}
		name, ok := b.SegmentNames[i]
		if !ok {
			return fmt.Errorf("%w: no segment name for centroid %d", ErrBundleIntegrity, i)
		}
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: blank segment name for centroid %d", ErrBundleIntegrity, i)
		}
	}

	for label, rec := range b.PriceRecommendations {
		if !isFinite(rec.CurrentPrice) || !isFinite(rec.OptimalPrice) ||
			!isFinite(rec.PriceChangePct) || !isFinite(rec.Elasticity) {
			return fmt.Errorf("%w: non-finite price record for %q", ErrBundleIntegrity, label)
		}
	}
	return nil
}

// cloneBundle deep-copies b so the engine never shares backing arrays with the loader.
func cloneBundle(b domain.ModelBundle) domain.ModelBundle {
	out := domain.ModelBundle{
		Scaler: domain.Scaler{
			Mean:  slices.Clone(b.Scaler.Mean),
			Scale: slices.Clone(b.Scaler.Scale),
		},
		Centroids:            make([][]float64, len(b.Centroids)),
		SegmentNames:         maps.Clone(b.SegmentNames),
		PriceRecommendations: maps.Clone(b.PriceRecommendations),
	}
	for i, c := range b.Centroids {
		out.Centroids[i] = slices.Clone(c)
	}
	if b.SegmentAnalysis != nil {
		out.SegmentAnalysis = make(map[string]domain.SegmentProfile, len(b.SegmentAnalysis))
		for label, profile := range b.SegmentAnalysis {
			out.SegmentAnalysis[label] = domain.SegmentProfile(maps.Clone(map[string]any(profile)))
		}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
