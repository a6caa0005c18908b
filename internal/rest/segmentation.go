package rest

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"customerSegmentation/business/segmentation"
	"customerSegmentation/domain"
	"customerSegmentation/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	SegmentationHandler struct {
		validate            *validator.Validate
		segmentationService SegmentationService
		timeout             time.Duration
	}

	SegmentationService interface {
		Predict(ctx context.Context, input domain.CustomerInput) (domain.Prediction, error)
		Strategy(ctx context.Context, spendingScore, purchaseFrequency int, membershipYears float64) (string, error)
		ListSegments(ctx context.Context) ([]domain.SegmentSummary, error)
		GetSegment(ctx context.Context, label string) (domain.SegmentSummary, error)
		BundleInfo(ctx context.Context) (domain.BundleInfo, error)
	}

	// PredictRequest mirrors the customer form. The two clustering features are
	// required; the rest fall back to the form defaults when omitted.
	PredictRequest struct {
		SpendingScore      *int     `json:"spending_score" validate:"required,gte=0,lte=100"`
		MembershipYears    *float64 `json:"membership_years" validate:"required,gte=0,lte=20"`
		Age                *int     `json:"age" validate:"omitempty,gte=15,lte=100"`
		Income             *int     `json:"income" validate:"omitempty,gte=1000,lte=500000"`
		PurchaseFrequency  *int     `json:"purchase_frequency" validate:"omitempty,gte=1,lte=50"`
		LastPurchaseAmount *int     `json:"last_purchase_amount" validate:"omitempty,gte=1,lte=10000"`
		PreferredCategory  string   `json:"preferred_category" validate:"omitempty,category"`
	}

	PredictResponse struct {
		SegmentIndex      int                         `json:"segment_index"`
		SegmentLabel      string                      `json:"segment_label"`
		Pricing           *domain.PriceRecommendation `json:"pricing"`
		PricingStatus     string                      `json:"pricing_status"`
		Strategy          string                      `json:"strategy"`
		PreferredCategory string                      `json:"preferred_category"`
		TraceID           string                      `json:"trace_id,omitempty"`
	}

	StrategyResponse struct {
		Strategy string `json:"strategy"`
	}
)

const (
	defaultAge                = 35
	defaultIncome             = 50000
	defaultPurchaseFrequency  = 10
	defaultLastPurchaseAmount = 200
)

func NewSegmentationHandler(svc SegmentationService, timeout time.Duration) *SegmentationHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SegmentationHandler{
		validate:            segmentation.NewValidator(),
		segmentationService: svc,
		timeout:             timeout,
	}
}

func (r PredictRequest) toInput() domain.CustomerInput {
	in := domain.CustomerInput{
		SpendingScore:      *r.SpendingScore,
		MembershipYears:    *r.MembershipYears,
		Age:                defaultAge,
		Income:             defaultIncome,
		PurchaseFrequency:  defaultPurchaseFrequency,
		LastPurchaseAmount: defaultLastPurchaseAmount,
		PreferredCategory:  domain.Categories[0],
	}
	if r.Age != nil {
		in.Age = *r.Age
	}
	if r.Income != nil {
		in.Income = *r.Income
	}
	if r.PurchaseFrequency != nil {
		in.PurchaseFrequency = *r.PurchaseFrequency
	}
	if r.LastPurchaseAmount != nil {
		in.LastPurchaseAmount = *r.LastPurchaseAmount
	}
	if r.PreferredCategory != "" {
		in.PreferredCategory = r.PreferredCategory
	}
	return in
}

func (h *SegmentationHandler) bindInput(c echo.Context) (domain.CustomerInput, error) {
	var req PredictRequest
	if err := c.Bind(&req); err != nil {
		return domain.CustomerInput{}, err
	}
	if err := h.validate.Struct(&req); err != nil {
		return domain.CustomerInput{}, err
	}
	return req.toInput(), nil
}

// POST /api/v1/segments/predict
func (h *SegmentationHandler) Predict(c echo.Context) error {
	input, err := h.bindInput(c)
	if err != nil {
		logger.Warn("Invalid predict request", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	pred, err := h.segmentationService.Predict(ctx, input)
	if err != nil {
		return h.predictionError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(PredictResponse{
		SegmentIndex:      pred.SegmentIndex,
		SegmentLabel:      pred.SegmentLabel,
		Pricing:           pred.Pricing,
		PricingStatus:     pred.PricingStatus(),
		Strategy:          pred.StrategyText,
		PreferredCategory: pred.PreferredCategory,
		TraceID:           segmentation.TraceIDFromContext(ctx),
	}))
}

// POST /api/v1/segments/report
func (h *SegmentationHandler) Report(c echo.Context) error {
	input, err := h.bindInput(c)
	if err != nil {
		logger.Warn("Invalid report request", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	pred, err := h.segmentationService.Predict(ctx, input)
	if err != nil {
		return h.predictionError(c, err)
	}

	return c.String(http.StatusOK, segmentation.RenderReport(input, pred))
}

func (h *SegmentationHandler) predictionError(c echo.Context, err error) error {
	if errors.Is(err, segmentation.ErrInvalidInput) {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	logger.Error("Failed to predict segment", "error", err)
	return c.JSON(http.StatusInternalServerError, ResponseError{Message: "segment prediction unavailable"})
}

// GET /api/v1/strategy?spending_score=80&purchase_frequency=2&membership_years=3.5
func (h *SegmentationHandler) Strategy(c echo.Context) error {
	var (
		spendingScore     int
		purchaseFrequency int
		membershipYears   float64
	)
	err := echo.QueryParamsBinder(c).
		MustInt("spending_score", &spendingScore).
		MustInt("purchase_frequency", &purchaseFrequency).
		MustFloat64("membership_years", &membershipYears).
		BindError()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	strategy, err := h.segmentationService.Strategy(ctx, spendingScore, purchaseFrequency, membershipYears)
	if err != nil {
		if errors.Is(err, segmentation.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(StrategyResponse{Strategy: strategy}))
}

// GET /api/v1/segments
func (h *SegmentationHandler) ListSegments(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	segments, err := h.segmentationService.ListSegments(ctx)
	if err != nil {
		logger.Error("Failed to list segments", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(segments))
}

// GET /api/v1/segments/:name
func (h *SegmentationHandler) GetSegment(c echo.Context) error {
	name := c.Param("name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	segment, err := h.segmentationService.GetSegment(ctx, name)
	if err != nil {
		if errors.Is(err, segmentation.ErrSegmentNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(segment))
}

// GET /api/v1/categories
func (h *SegmentationHandler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(domain.Categories))
}

// GET /api/v1/admin/bundle
func (h *SegmentationHandler) BundleInfo(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	info, err := h.segmentationService.BundleInfo(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(info))
}

// GET /health
func (h *SegmentationHandler) Health(c echo.Context) error {
	info, err := h.segmentationService.BundleInfo(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"status": "unavailable",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":   "ok",
		"source":   info.Source,
		"segments": info.NumSegments,
	})
}
