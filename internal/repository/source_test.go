package repository

import (
	"context"
	"testing"

	"customerSegmentation/internal/repository/file"
	"customerSegmentation/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBundleSource(t *testing.T) {
	ctx := context.Background()

	repo, closeSource, err := OpenBundleSource(ctx, &config.Config{
		Bundle: config.BundleConfig{Source: config.BundleSourceFile, Path: "bundle.json"},
	})
	require.NoError(t, err)
	assert.IsType(t, &file.BundleRepository{}, repo)
	assert.NoError(t, closeSource())

	repo, closeSource, err = OpenBundleSource(ctx, &config.Config{
		Bundle: config.BundleConfig{Source: config.BundleSourceInline, Inline: "e30="},
	})
	require.NoError(t, err)
	assert.IsType(t, &file.InlineBundleRepository{}, repo)
	assert.NoError(t, closeSource())

	_, closeSource, err = OpenBundleSource(ctx, &config.Config{
		Bundle: config.BundleConfig{Source: "s3"},
	})
	assert.ErrorContains(t, err, `unknown bundle source "s3"`)
	assert.NoError(t, closeSource())
}
