package models

// Coefficient is one fitted weight of the happiness model.
type Coefficient struct {
	Feature Field
	Value   float64
}

// ModelResult holds the fitted linear model and its held-out score.
// It is only reported, never persisted.
type ModelResult struct {
	Intercept    float64
	Coefficients []Coefficient // predictor column order
	Ranked       []Coefficient // descending by Value
	R2           float64
	TrainRows    int
	TestRows     int
}

// Predict applies the fitted model to one predictor vector given in
// Predictors order.
func (m *ModelResult) Predict(x []float64) float64 {
	y := m.Intercept
	for i, c := range m.Coefficients {
		y += c.Value * x[i]
	}
	return y
}

// TopFeatures returns up to n predictor names from the ranking.
func (m *ModelResult) TopFeatures(n int) []string {
	if n > len(m.Ranked) {
		n = len(m.Ranked)
	}
	out := make([]string, 0, n)
	for _, c := range m.Ranked[:n] {
		out = append(out, string(c.Feature))
	}
	return out
}

// RegionAverage is the mean happiness score of one region.
type RegionAverage struct {
	Region string
	Mean   float64
	Count  int
}

// CorrelationMatrix is a symmetric Pearson correlation matrix.
type CorrelationMatrix struct {
	Fields []Field
	Values [][]float64 // row-major, Values[i][j]
}

// Column returns the correlations of every field against f, in Fields
// order. ok is false when f is not part of the matrix.
func (c *CorrelationMatrix) Column(f Field) (vals []float64, ok bool) {
	for j, name := range c.Fields {
		if name != f {
			continue
		}
		vals = make([]float64, len(c.Fields))
		for i := range c.Fields {
			vals[i] = c.Values[i][j]
		}
		return vals, true
	}
	return nil, false
}

// InsightReport holds the computed analytics over the clean dataset.
type InsightReport struct {
	RunID       string
	MergedRows  int
	CleanRows   int
	FirstYear   int
	LastYear    int
	Model       *ModelResult
	Regions     []RegionAverage // ascending by Mean
	Highest     RegionAverage
	Lowest      RegionAverage
	Correlation *CorrelationMatrix
	OutputDir   string
	ChartFiles  []string
}
