package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"customerSegmentation/business/segmentation"
	"customerSegmentation/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CREATE TABLE segment_scalers (
//     position    INT PRIMARY KEY,
//     feature     TEXT NOT NULL,
//     mean        DOUBLE PRECISION NOT NULL,
//     scale       DOUBLE PRECISION NOT NULL
// );

type SegmentScaler struct {
	Position int     `gorm:"column:position;primaryKey;autoIncrement:false"`
	Feature  string  `gorm:"column:feature;not null"`
	Mean     float64 `gorm:"column:mean;not null"`
	Scale    float64 `gorm:"column:scale;not null"`
}

func (SegmentScaler) TableName() string {
	return "segment_scalers"
}

type SegmentCentroid struct {
	SegmentIndex    int     `gorm:"column:segment_index;primaryKey;autoIncrement:false"`
	SegmentName     string  `gorm:"column:segment_name;not null"`
	SpendingScore   float64 `gorm:"column:spending_score;not null"`
	MembershipYears float64 `gorm:"column:membership_years;not null"`
}

func (SegmentCentroid) TableName() string {
	return "segment_centroids"
}

type SegmentPriceRecommendation struct {
	SegmentName  string  `gorm:"column:segment_name;primaryKey"`
	CurrentPrice float64 `gorm:"column:current_price;not null"`
	OptimalPrice float64 `gorm:"column:optimal_price;not null"`
	PriceChange  float64 `gorm:"column:price_change;not null"`
	Elasticity   float64 `gorm:"column:elasticity;not null"`
}

func (SegmentPriceRecommendation) TableName() string {
	return "segment_price_recommendations"
}

type SegmentProfileRow struct {
	SegmentName string            `gorm:"column:segment_name;primaryKey"`
	Profile     datatypes.JSONMap `gorm:"column:profile;type:jsonb"`
}

func (SegmentProfileRow) TableName() string {
	return "segment_profiles"
}

var scalerFeatures = []string{"spending_score", "membership_years"}

type BundleRepository struct {
	DB *gorm.DB
}

var (
	_ segmentation.BundleRepository = (*BundleRepository)(nil)
	_ segmentation.BundleWriter     = (*BundleRepository)(nil)
)

func NewBundleRepository(db *gorm.DB) *BundleRepository {
	return &BundleRepository{DB: db}
}

// Migrate creates the bundle tables when they do not exist yet.
func (r *BundleRepository) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(
		&SegmentScaler{},
		&SegmentCentroid{},
		&SegmentPriceRecommendation{},
		&SegmentProfileRow{},
	)
}

func (r *BundleRepository) LoadBundle(ctx context.Context) (domain.ModelBundle, error) {
	db := r.DB.WithContext(ctx)

	var scalers []SegmentScaler
	if err := db.Order("position").Find(&scalers).Error; err != nil {
		return domain.ModelBundle{}, fmt.Errorf("load scaler: %w", err)
	}

	var centroids []SegmentCentroid
	if err := db.Order("segment_index").Find(&centroids).Error; err != nil {
		return domain.ModelBundle{}, fmt.Errorf("load centroids: %w", err)
	}
	if len(centroids) == 0 {
		return domain.ModelBundle{}, errors.New("no centroids stored")
	}

	var prices []SegmentPriceRecommendation
	if err := db.Find(&prices).Error; err != nil {
		return domain.ModelBundle{}, fmt.Errorf("load price recommendations: %w", err)
	}

	var profiles []SegmentProfileRow
	if err := db.Find(&profiles).Error; err != nil {
		return domain.ModelBundle{}, fmt.Errorf("load segment profiles: %w", err)
	}

	b := domain.ModelBundle{
		Scaler: domain.Scaler{
			Mean:  make([]float64, 0, len(scalers)),
			Scale: make([]float64, 0, len(scalers)),
		},
		Centroids:            make([][]float64, 0, len(centroids)),
		SegmentNames:         make(map[int]string, len(centroids)),
		PriceRecommendations: make(map[string]domain.PriceRecommendation, len(prices)),
	}

	for _, s := range scalers {
		b.Scaler.Mean = append(b.Scaler.Mean, s.Mean)
		b.Scaler.Scale = append(b.Scaler.Scale, s.Scale)
	}

	// segment_index must be dense: 0..n-1
	for i, c := range centroids {
		if c.SegmentIndex != i {
			return domain.ModelBundle{}, fmt.Errorf("%w: centroid index %d stored at position %d",
				segmentation.ErrBundleIntegrity, c.SegmentIndex, i)
		}
		b.Centroids = append(b.Centroids, []float64{c.SpendingScore, c.MembershipYears})
		b.SegmentNames[c.SegmentIndex] = c.SegmentName
	}

	for _, p := range prices {
		b.PriceRecommendations[p.SegmentName] = domain.PriceRecommendation{
			CurrentPrice:   p.CurrentPrice,
			OptimalPrice:   p.OptimalPrice,
			PriceChangePct: p.PriceChange,
			Elasticity:     p.Elasticity,
		}
	}

	if len(profiles) > 0 {
		b.SegmentAnalysis = make(map[string]domain.SegmentProfile, len(profiles))
		for _, p := range profiles {
			profile, err := decodeProfile(p.Profile)
			if err != nil {
				return domain.ModelBundle{}, fmt.Errorf("decode profile for %q: %w", p.SegmentName, err)
			}
			b.SegmentAnalysis[p.SegmentName] = profile
		}
	}

	return b, nil
}

// decodeProfile re-decodes a jsonb profile with plain encoding/json so numbers
// come back as float64, the same as the file and redis sources.
func decodeProfile(m datatypes.JSONMap) (domain.SegmentProfile, error) {
	data, err := json.Marshal(map[string]any(m))
	if err != nil {
		return nil, err
	}
	var profile domain.SegmentProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// SaveBundle replaces every stored bundle row with b in one transaction.
func (r *BundleRepository) SaveBundle(ctx context.Context, b domain.ModelBundle) error {
	if len(b.Scaler.Mean) != len(scalerFeatures) || len(b.Scaler.Scale) != len(scalerFeatures) {
		return fmt.Errorf("%w: scaler must have %d features", segmentation.ErrBundleIntegrity, len(scalerFeatures))
	}

	scalers := make([]SegmentScaler, 0, len(scalerFeatures))
	for i, f := range scalerFeatures {
		scalers = append(scalers, SegmentScaler{
			Position: i,
			Feature:  f,
			Mean:     b.Scaler.Mean[i],
			Scale:    b.Scaler.Scale[i],
		})
	}

	centroids := make([]SegmentCentroid, 0, len(b.Centroids))
	for i, c := range b.Centroids {
		if len(c) != len(scalerFeatures) {
			return fmt.Errorf("%w: centroid %d has %d dimensions", segmentation.ErrBundleIntegrity, i, len(c))
		}
		name, ok := b.SegmentNames[i]
		if !ok {
			return fmt.Errorf("%w: no segment name for centroid %d", segmentation.ErrBundleIntegrity, i)
		}
		centroids = append(centroids, SegmentCentroid{
			SegmentIndex:    i,
			SegmentName:     name,
			SpendingScore:   c[0],
			MembershipYears: c[1],
		})
	}

	labels := make([]string, 0, len(b.PriceRecommendations))
	for label := range b.PriceRecommendations {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	prices := make([]SegmentPriceRecommendation, 0, len(labels))
	for _, label := range labels {
		rec := b.PriceRecommendations[label]
		prices = append(prices, SegmentPriceRecommendation{
			SegmentName:  label,
			CurrentPrice: rec.CurrentPrice,
			OptimalPrice: rec.OptimalPrice,
			PriceChange:  rec.PriceChangePct,
			Elasticity:   rec.Elasticity,
		})
	}

	profiles := make([]SegmentProfileRow, 0, len(b.SegmentAnalysis))
	for label, profile := range b.SegmentAnalysis {
		profiles = append(profiles, SegmentProfileRow{
			SegmentName: label,
			Profile:     datatypes.JSONMap(profile),
		})
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []any{&SegmentScaler{}, &SegmentCentroid{}, &SegmentPriceRecommendation{}, &SegmentProfileRow{}} {
			if err := all.Delete(model).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(&scalers).Error; err != nil {
			return fmt.Errorf("save scaler: %w", err)
		}
		if err := tx.Create(&centroids).Error; err != nil {
			return fmt.Errorf("save centroids: %w", err)
		}
		if len(prices) > 0 {
			if err := tx.Create(&prices).Error; err != nil {
				return fmt.Errorf("save price recommendations: %w", err)
			}
		}
		if len(profiles) > 0 {
			if err := tx.Create(&profiles).Error; err != nil {
				return fmt.Errorf("save segment profiles: %w", err)
			}
		}
		return nil
	})
}
