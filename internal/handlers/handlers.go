// Package handlers exposes the forecasting core over JSON endpoints.
// Logical failures (insufficient data and the like) are reported with
// HTTP 200 and success:false; 400 is reserved for malformed or empty
// requests and 500 for unexpected faults.
package handlers

import (
	"errors"
	"io"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	forecaster "github.com/salescast/sales-forecaster"
	"github.com/salescast/sales-forecaster/timedataset"
)

// defaultPeriods is the forecast horizon when the request does not set one.
const defaultPeriods = 12

// Handler serves the forecasting API.
type Handler struct {
	log *logrus.Logger
}

func New(log *logrus.Logger) *Handler {
	return &Handler{log: log}
}

// Register attaches all API routes to the router.
func (h *Handler) Register(r *gin.Engine) {
	api := r.Group("/api")
	api.GET("/health", h.Health)
	api.POST("/forecast", h.Forecast)
	api.POST("/accuracy", h.Accuracy)
	api.POST("/accuracy/all", h.AccuracyAll)
}

type forecastRequest struct {
	SalesData []timedataset.Record `json:"salesData"`
	Periods   int                  `json:"periods"`
	ProductID string               `json:"productId"`
}

type forecastPoint struct {
	Date       string  `json:"date"`
	Sales      float64 `json:"sales"`
	UpperBound float64 `json:"upperBound"`
	LowerBound float64 `json:"lowerBound"`
}

type modelInfo struct {
	Type             string    `json:"type"`
	Methods          []string  `json:"methods"`
	Weights          []float64 `json:"weights"`
	LastTrainingDate string    `json:"lastTrainingDate"`
}

type forecastResponse struct {
	Success  bool            `json:"success"`
	Forecast []forecastPoint `json:"forecast"`
	Model    modelInfo       `json:"model"`
}

type comparisonRow struct {
	Actual   float64 `json:"actual"`
	Forecast float64 `json:"forecast"`
	Date     string  `json:"date"`
}

type accuracyResponse struct {
	Success          bool            `json:"success"`
	Error            string          `json:"error,omitempty"`
	MAE              float64         `json:"mae"`
	MAPE             float64         `json:"mape"`
	RMSE             float64         `json:"rmse"`
	Accuracy         string          `json:"accuracy"`
	Confidence       float64         `json:"confidence"`
	DataPoints       int             `json:"dataPoints"`
	TrainingMonths   int             `json:"trainingMonths"`
	ValidationMonths int             `json:"validationMonths"`
	TotalMonths      int             `json:"totalMonths"`
	ComparisonData   []comparisonRow `json:"comparisonData,omitempty"`
}

type overallAccuracy struct {
	GoodPercentage   float64 `json:"goodPercentage"`
	MediumPercentage float64 `json:"mediumPercentage"`
	PoorPercentage   float64 `json:"poorPercentage"`
	AverageMape      float64 `json:"averageMape"`
	TotalProducts    int     `json:"totalProducts"`
}

type accuracyAllResponse struct {
	Success           bool                        `json:"success"`
	ProductAccuracies map[string]accuracyResponse `json:"productAccuracies"`
	CategorySummary   map[string]int              `json:"categorySummary"`
	OverallAccuracy   overallAccuracy             `json:"overallAccuracy"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Health reports service liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "Forecasting API is running"})
}

// Forecast generates an ensemble forecast for the posted sales history.
func (h *Handler) Forecast(c *gin.Context) {
	var req forecastRequest
	if !h.decode(c, &req) {
		return
	}
	if len(req.SalesData) == 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "No sales data provided"})
		return
	}
	periods := req.Periods
	if periods <= 0 {
		periods = defaultPeriods
	}

	res, err := forecaster.Forecast(req.SalesData, periods)
	if err != nil {
		h.log.WithError(err).WithField("productId", req.ProductID).Warn("forecast failed")
		c.JSON(http.StatusOK, errorResponse{Error: err.Error()})
		return
	}

	resp := forecastResponse{
		Success:  true,
		Forecast: make([]forecastPoint, 0, len(res.T)),
		Model: modelInfo{
			Type:             res.Model.Type,
			Methods:          res.Model.Methods,
			Weights:          res.Model.Weights,
			LastTrainingDate: res.Model.LastTrainingDate.Format(timedataset.DateLayout),
		},
	}
	for i, t := range res.T {
		resp.Forecast = append(resp.Forecast, forecastPoint{
			Date:       t.Format(timedataset.DateLayout),
			Sales:      round2(res.Forecast[i]),
			UpperBound: round2(res.Upper[i]),
			LowerBound: round2(res.Lower[i]),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Accuracy scores a forecast against the most recent 30% of the posted
// history.
func (h *Handler) Accuracy(c *gin.Context) {
	var req forecastRequest
	if !h.decode(c, &req) {
		return
	}
	if len(req.SalesData) == 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "No sales data provided"})
		return
	}

	report, err := forecaster.EvaluateAccuracy(req.SalesData)
	if err != nil {
		h.log.WithError(err).WithField("productId", req.ProductID).Warn("accuracy evaluation failed")
		c.JSON(http.StatusOK, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, accuracyToResponse(report))
}

// AccuracyAll evaluates accuracy for every SKU in the posted records.
func (h *Handler) AccuracyAll(c *gin.Context) {
	var req forecastRequest
	if !h.decode(c, &req) {
		return
	}
	if len(req.SalesData) == 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "No sales data provided"})
		return
	}

	agg, err := forecaster.EvaluateAll(req.SalesData)
	if err != nil {
		if errors.Is(err, forecaster.ErrNoSKU) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		h.log.WithError(err).Error("aggregate accuracy evaluation failed")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	resp := accuracyAllResponse{
		Success:           true,
		ProductAccuracies: make(map[string]accuracyResponse, len(agg.PerGroup)),
		CategorySummary: map[string]int{
			string(forecaster.CategoryGood):   agg.CategoryCounts[forecaster.CategoryGood],
			string(forecaster.CategoryMedium): agg.CategoryCounts[forecaster.CategoryMedium],
			string(forecaster.CategoryPoor):   agg.CategoryCounts[forecaster.CategoryPoor],
		},
		OverallAccuracy: overallAccuracy{
			GoodPercentage:   round2(agg.Overall.GoodPercentage),
			MediumPercentage: round2(agg.Overall.MediumPercentage),
			PoorPercentage:   round2(agg.Overall.PoorPercentage),
			AverageMape:      round2(agg.Overall.AverageMAPE),
			TotalProducts:    agg.Overall.TotalGroups,
		},
	}
	for sku, outcome := range agg.PerGroup {
		if outcome.Err != nil {
			resp.ProductAccuracies[sku] = accuracyResponse{
				Error:    outcome.Err.Error(),
				Accuracy: string(forecaster.CategoryPoor),
			}
			continue
		}
		resp.ProductAccuracies[sku] = accuracyToResponse(outcome.Report)
	}
	c.JSON(http.StatusOK, resp)
}

// decode reads and unmarshals the request body, responding with 400 on
// malformed input. Returns false when the request has already been
// answered.
func (h *Handler) decode(c *gin.Context, dst any) bool {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Unable to read request body"})
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return false
	}
	return true
}

func accuracyToResponse(report *forecaster.AccuracyReport) accuracyResponse {
	resp := accuracyResponse{
		Success:          true,
		MAE:              round2(report.MAE),
		MAPE:             round2(report.MAPE),
		RMSE:             round2(report.RMSE),
		Accuracy:         string(report.Category),
		Confidence:       round3(report.Confidence),
		DataPoints:       report.ValidationCount,
		TrainingMonths:   report.TrainCount,
		ValidationMonths: report.ValidationCount,
		TotalMonths:      report.TotalCount,
		ComparisonData:   make([]comparisonRow, 0, len(report.Comparison)),
	}
	for _, row := range report.Comparison {
		resp.ComparisonData = append(resp.ComparisonData, comparisonRow{
			Actual:   round2(row.Actual),
			Forecast: round2(row.Forecast),
			Date:     row.Date.Format(timedataset.DateLayout),
		})
	}
	return resp
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
