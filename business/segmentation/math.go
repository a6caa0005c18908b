package segmentation

import (
	"fmt"
	"math"

	"customerSegmentation/domain"
)

// featureDim is the number of features the scaler was fit on:
// index 0 spending score, index 1 membership years.
const featureDim = 2

var featureNames = [featureDim]string{"spending_score", "membership_years"}

// z = (x - mean) / scale
func standardize(raw [featureDim]float64, s domain.Scaler) ([featureDim]float64, error) {
	var z [featureDim]float64
	if len(s.Mean) != featureDim || len(s.Scale) != featureDim {
		return z, fmt.Errorf("%w: scaler has %d means and %d scales, want %d",
			ErrBundleIntegrity, len(s.Mean), len(s.Scale), featureDim)
	}
	for i := range featureDim {
		if s.Scale[i] == 0 {
			return z, fmt.Errorf("%w: zero scale for %s", ErrDegenerateScaler, featureNames[i])
		}
		z[i] = (raw[i] - s.Mean[i]) / s.Scale[i]
	}
	return z, nil
}

// ||x - c||^2
func squaredDistance(x [featureDim]float64, c []float64) float64 {
	sum := 0.0
	for i := range featureDim {
		d := x[i] - c[i]
		sum += d * d
	}
	return sum
}

// nearestCentroid scans centroids in index order and keeps the first minimum,
// so exact ties resolve to the lowest index.
func nearestCentroid(x [featureDim]float64, centroids [][]float64) (int, error) {
	if len(centroids) == 0 {
		return -1, fmt.Errorf("%w: bundle has no centroids", ErrBundleIntegrity)
	}

	best := -1
	bestDist := math.Inf(1)
	for i, c := range centroids {
		if len(c) != featureDim {
			return -1, fmt.Errorf("%w: centroid %d has %d dimensions, want %d",
				ErrBundleIntegrity, i, len(c), featureDim)
		}
		d := squaredDistance(x, c)
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, nil
}
