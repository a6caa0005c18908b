package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"customerSegmentation/business/segmentation"
	"customerSegmentation/internal/repository/file"
	"customerSegmentation/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBundleJSON = `{
  "scaler": {"mean": [50, 5], "scale": [10, 1]},
  "centroids": [[0, 0], [2, 2], [2, -2]],
  "segment_names": {"0": "Core Customers", "1": "Premium Loyalists", "2": "High-Value Newcomers"},
  "price_recommendations": {
    "Core Customers": {"current_price": 499.99, "optimal_price": 519, "price_change": 3.8, "elasticity": -1.1},
    "Premium Loyalists": {"current_price": 1249.5, "optimal_price": 1312, "price_change": 5, "elasticity": -0.42}
  }
}`

func writeBundle(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bundle.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPredictCmd_Report(t *testing.T) {
	path := writeBundle(t, testBundleJSON)

	out, err := run(t, "predict", "--bundle", path,
		"--spending-score", "75", "--membership-years", "7.5", "--category", "Home Appliances")
	require.NoError(t, err)

	assert.Contains(t, out, "Predicted Segment: Premium Loyalists")
	assert.Contains(t, out, "- Optimal Price: $1312.00")
	assert.Contains(t, out, "- Recommended Change: +5.0%")
	assert.Contains(t, out, "- Top Category: Home Appliances")
	assert.Contains(t, out, "- Strategy: "+segmentation.StrategyPremium)
}

func TestPredictCmd_NoPricing(t *testing.T) {
	path := writeBundle(t, testBundleJSON)

	out, err := run(t, "predict", "--bundle", path, "--spending-score", "80", "--membership-years", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Predicted Segment: High-Value Newcomers")
	assert.Contains(t, out, "No pricing recommendation available for this segment.")
	assert.NotContains(t, out, "$0.00")
}

func TestPredictCmd_JSON(t *testing.T) {
	path := writeBundle(t, testBundleJSON)

	out, err := run(t, "predict", "--bundle", path, "--spending-score", "80", "--membership-years", "2", "--json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "High-Value Newcomers", got["segment_label"])
	assert.Nil(t, got["pricing"])
	assert.Equal(t, "no recommendation available", got["pricing_status"])
}

func TestPredictCmd_InvalidInput(t *testing.T) {
	path := writeBundle(t, testBundleJSON)

	_, err := run(t, "predict", "--bundle", path, "--spending-score", "150")
	assert.ErrorIs(t, err, segmentation.ErrInvalidInput)

	_, err = run(t, "predict", "--bundle", path, "--category", "Groceries")
	assert.ErrorIs(t, err, segmentation.ErrInvalidInput)
}

func TestStrategyCmd(t *testing.T) {
	out, err := run(t, "strategy", "--spending-score", "50", "--purchase-frequency", "12", "--membership-years", "8")
	require.NoError(t, err)
	assert.Equal(t, segmentation.StrategyLoyalty+"\n", out)
}

func TestStrategyCmd_OutOfRange(t *testing.T) {
	tests := [][]string{
		{"--spending-score", "500"},
		{"--purchase-frequency", "-3"},
		{"--membership-years", "99"},
	}

	for _, flags := range tests {
		t.Run(flags[0], func(t *testing.T) {
			out, err := run(t, append([]string{"strategy"}, flags...)...)
			assert.ErrorIs(t, err, segmentation.ErrInvalidInput)
			assert.NotContains(t, out, segmentation.StrategyPremium)
		})
	}
}

func TestSegmentsCmd(t *testing.T) {
	path := writeBundle(t, testBundleJSON)

	out, err := run(t, "segments", "--bundle", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "0\tCore Customers\t$499.99 -> $519.00 (+3.8%)", lines[0])
	assert.Equal(t, "2\tHigh-Value Newcomers\tno recommendation available", lines[2])
}

func TestBundleValidateCmd(t *testing.T) {
	path := writeBundle(t, testBundleJSON)

	out, err := run(t, "bundle", "validate", "--bundle", path)
	require.NoError(t, err)
	assert.Equal(t, "bundle OK: 3 segments, 2 priced, 1 without pricing\n", out)

	broken := writeBundle(t, `{"scaler": {"mean": [50, 5], "scale": [0, 1]}, "centroids": [[0, 0]], "segment_names": {"0": "Only"}}`)
	_, err = run(t, "bundle", "validate", "--bundle", broken)
	assert.ErrorIs(t, err, segmentation.ErrDegenerateScaler)
}

func TestBundleEncodeCmd(t *testing.T) {
	path := writeBundle(t, testBundleJSON)

	out, err := run(t, "bundle", "encode", "--bundle", path)
	require.NoError(t, err)

	b, err := file.NewInlineBundleRepository(strings.TrimSpace(out)).LoadBundle(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "Premium Loyalists", b.SegmentNames[1])
}

func TestBundlePublishCmd_UnknownTarget(t *testing.T) {
	path := writeBundle(t, testBundleJSON)

	_, err := run(t, "bundle", "publish", "--bundle", path, "--to", "s3")
	assert.ErrorContains(t, err, "unsupported publish target")
}

func TestTokenCmd(t *testing.T) {
	t.Setenv("BUNDLE_SOURCE", "")
	t.Setenv("JWT_TTL", "")

	out, err := run(t, "token", "--secret", "s3cret", "--role", "ADMIN", "--ttl", "30m")
	require.NoError(t, err)

	claims, err := utils.ParseJWT(strings.TrimSpace(out), "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)

	t.Setenv("JWT_SECRET", "")
	_, err = run(t, "token")
	assert.ErrorContains(t, err, "missing jwt secret")
}

func TestTokenCmd_DefaultsFromConfig(t *testing.T) {
	t.Setenv("BUNDLE_SOURCE", "")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("JWT_TTL", "2h")

	out, err := run(t, "token")
	require.NoError(t, err)

	claims, err := utils.ParseJWT(strings.TrimSpace(out), "from-env")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}
