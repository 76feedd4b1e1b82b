package service

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/solardev/solar-api/internal/apperror"
	"github.com/solardev/solar-api/internal/stats"
)

// Bounds and defaults for the data endpoints.
const (
	// GenerateNumbers caps: the demo endpoint refuses outside 1..10000.
	MinGenerateCount = 1
	MaxGenerateCount = 10000

	// The synthetic sample distribution: N(100, 15²), the classic IQ-style
	// demo distribution.
	generateMean   = 100.0
	generateStddev = 15.0

	// PredictTrend extrapolates this many future points.
	trendHorizon = 3
)

// SalesRecord is one row of demo sales input.
type SalesRecord struct {
	Date     string  `json:"date"`
	Product  string  `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// ProductTotals aggregates one product's quantity and revenue.
type ProductTotals struct {
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// SalesSummary is the aggregate view over a batch of sales records.
type SalesSummary struct {
	TotalRevenue   float64                  `json:"total_revenue"`
	TotalQuantity  int                      `json:"total_quantity"`
	AveragePrice   float64                  `json:"average_price"`
	ProductSummary map[string]ProductTotals `json:"product_summary"`
	RecordCount    int                      `json:"record_count"`
}

// ChartSeries is a labelled time series for the chart demo endpoint.
type ChartSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Type   string    `json:"type"`
}

// DataService wraps the stats package for the /api/data endpoints. It is
// stateless — no repository, no persistence — so every method is a plain
// synchronous computation.
type DataService struct {
	logger *slog.Logger
}

func NewDataService(logger *slog.Logger) *DataService {
	return &DataService{logger: logger}
}

// Analyze computes descriptive statistics over the given numbers.
func (s *DataService) Analyze(values []float64) (*stats.Summary, error) {
	summary, err := stats.Describe(values)
	if err != nil {
		if errors.Is(err, stats.ErrNoData) {
			return nil, apperror.ValidationFailed("numbers", "no numbers provided")
		}
		return nil, fmt.Errorf("analyzing numbers: %w", err)
	}
	return summary, nil
}

// GenerateNumbers draws count random samples from N(100, 15²) and returns
// their descriptive statistics. count must be within 1..10000.
func (s *DataService) GenerateNumbers(count int) (*stats.Summary, error) {
	if count < MinGenerateCount || count > MaxGenerateCount {
		return nil, apperror.ValidationFailed("count",
			fmt.Sprintf("count must be between %d and %d", MinGenerateCount, MaxGenerateCount))
	}

	summary, err := stats.Describe(stats.Normal(count, generateMean, generateStddev))
	if err != nil {
		// count >= 1 makes an empty sample impossible.
		return nil, fmt.Errorf("describing generated numbers: %w", err)
	}

	s.logger.Debug("generated synthetic sample", slog.Int("count", count))
	return summary, nil
}

// PredictTrend fits a least-squares line through the points and extrapolates
// the next three values.
func (s *DataService) PredictTrend(points []float64) (*stats.Trend, error) {
	trend, err := stats.FitTrend(points, trendHorizon)
	if err != nil {
		if errors.Is(err, stats.ErrInsufficientData) {
			return nil, apperror.ValidationFailed("data_points", "need at least 2 data points")
		}
		return nil, fmt.Errorf("fitting trend: %w", err)
	}
	return trend, nil
}

// AnalyzeSales aggregates a batch of sales records: revenue per record is
// quantity × price, summed overall and per product.
func (s *DataService) AnalyzeSales(records []SalesRecord) (*SalesSummary, error) {
	if len(records) == 0 {
		return nil, apperror.ValidationFailed("sales", "no sales data provided")
	}

	summary := &SalesSummary{
		ProductSummary: make(map[string]ProductTotals),
		RecordCount:    len(records),
	}

	prices := make([]float64, 0, len(records))
	for _, rec := range records {
		revenue := float64(rec.Quantity) * rec.Price

		summary.TotalRevenue += revenue
		summary.TotalQuantity += rec.Quantity
		prices = append(prices, rec.Price)

		totals := summary.ProductSummary[rec.Product]
		totals.Quantity += rec.Quantity
		totals.Revenue += revenue
		summary.ProductSummary[rec.Product] = totals
	}
	summary.AveragePrice = stat.Mean(prices, nil)

	return summary, nil
}

// DemoSales fabricates a week of sales rows across four demo products, with
// random quantities and prices. Purely illustrative data for the frontend.
func (s *DataService) DemoSales() []SalesRecord {
	products := []string{"Laptop", "Mouse", "Keyboard", "Monitor"}
	price := distuv.Uniform{Min: 10, Max: 1000}

	records := make([]SalesRecord, 0, 7*len(products))
	for day := 0; day < 7; day++ {
		date := time.Now().AddDate(0, 0, -day).Format("2006-01-02")
		for _, product := range products {
			records = append(records, SalesRecord{
				Date:     date,
				Product:  product,
				Quantity: rand.Intn(19) + 1, // 1..19
				Price:    price.Rand(),
			})
		}
	}
	return records
}

// ChartData produces a 30-day random-walk time series starting at 100 —
// the value at each day is the previous value plus a standard normal step.
func (s *DataService) ChartData() *ChartSeries {
	const days = 30
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	steps := stats.Normal(days, 0, 1)
	labels := make([]string, days)
	values := make([]float64, days)

	level := 100.0
	for i := 0; i < days; i++ {
		level += steps[i]
		labels[i] = start.AddDate(0, 0, i).Format("2006-01-02")
		values[i] = level
	}

	return &ChartSeries{
		Labels: labels,
		Values: values,
		Type:   "time_series",
	}
}
