package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/solardev/solar-api/internal/apperror"
	"github.com/solardev/solar-api/internal/service"
	"github.com/solardev/solar-api/internal/stats"
)

// DataHandler serves the statistics, sales analysis and chart endpoints.
type DataHandler struct {
	service *service.DataService
	logger  *slog.Logger
}

func NewDataHandler(svc *service.DataService, logger *slog.Logger) *DataHandler {
	return &DataHandler{service: svc, logger: logger}
}

// AnalyzeResponse is the shape for POST /api/data/statistics/analyze.
// Caller-supplied data gets the full moment set but no quartiles.
type AnalyzeResponse struct {
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Count    int     `json:"count"`
	Sum      float64 `json:"sum"`
	Variance float64 `json:"variance"`
}

// NumbersResponse is the shape for GET /api/data/statistics/numbers.
// Generated samples report quartiles instead of sum and variance.
type NumbersResponse struct {
	Mean      float64         `json:"mean"`
	Median    float64         `json:"median"`
	Std       float64         `json:"std"`
	Min       float64         `json:"min"`
	Max       float64         `json:"max"`
	Count     int             `json:"count"`
	Quartiles stats.Quartiles `json:"quartiles"`
}

// DemoSalesResponse wraps the generated records with their count so clients
// can sanity-check the payload without iterating.
type DemoSalesResponse struct {
	SalesData []service.SalesRecord `json:"sales_data"`
	Count     int                   `json:"count"`
}

// HandleAnalyze handles POST /api/data/statistics/analyze. The body is a bare
// JSON array of numbers, not an object.
func (h *DataHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var numbers []float64
	if err := json.NewDecoder(r.Body).Decode(&numbers); err != nil {
		writeError(w, apperror.ValidationFailed("body", "request body must be a JSON array of numbers"))
		return
	}

	summary, err := h.service.Analyze(numbers)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Mean:     summary.Mean,
		Median:   summary.Median,
		Std:      summary.Std,
		Min:      summary.Min,
		Max:      summary.Max,
		Count:    summary.Count,
		Sum:      summary.Sum,
		Variance: summary.Variance,
	})
}

// HandleGenerateNumbers handles GET /api/data/statistics/numbers?count=N.
func (h *DataHandler) HandleGenerateNumbers(w http.ResponseWriter, r *http.Request) {
	count, err := queryInt(r, "count", 100)
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := h.service.GenerateNumbers(count)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, NumbersResponse{
		Mean:      summary.Mean,
		Median:    summary.Median,
		Std:       summary.Std,
		Min:       summary.Min,
		Max:       summary.Max,
		Count:     summary.Count,
		Quartiles: summary.Quartiles,
	})
}

// HandlePredictTrend handles POST /api/data/trend/predict.
func (h *DataHandler) HandlePredictTrend(w http.ResponseWriter, r *http.Request) {
	var points []float64
	if err := json.NewDecoder(r.Body).Decode(&points); err != nil {
		writeError(w, apperror.ValidationFailed("body", "request body must be a JSON array of numbers"))
		return
	}

	trend, err := h.service.PredictTrend(points)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trend)
}

// HandleAnalyzeSales handles POST /api/data/sales/analyze.
func (h *DataHandler) HandleAnalyzeSales(w http.ResponseWriter, r *http.Request) {
	var sales []service.SalesRecord
	if err := json.NewDecoder(r.Body).Decode(&sales); err != nil {
		writeError(w, apperror.ValidationFailed("body", "request body must be a JSON array of sales records"))
		return
	}

	summary, err := h.service.AnalyzeSales(sales)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleDemoSales handles GET /api/data/sales/demo.
func (h *DataHandler) HandleDemoSales(w http.ResponseWriter, r *http.Request) {
	records := h.service.DemoSales()
	writeJSON(w, http.StatusOK, DemoSalesResponse{SalesData: records, Count: len(records)})
}

// HandleChartData handles GET /api/data/chart/data.
func (h *DataHandler) HandleChartData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ChartData())
}
