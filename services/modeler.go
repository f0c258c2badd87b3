package services

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"happiness-report/models"
	"happiness-report/utils"
)

// Modeler fits the happiness model on a seeded train/test split.
type Modeler struct {
	logger       *utils.Logger
	seed         int64
	testFraction float64
}

// NewModeler creates a Modeler. The same seed and input always produce the
// same split, coefficients and score.
func NewModeler(logger *utils.Logger, seed int64, testFraction float64) *Modeler {
	return &Modeler{logger: logger, seed: seed, testFraction: testFraction}
}

// Split partitions row indices 0..n-1 into training and held-out sets.
// The held-out set holds ceil(testFraction*n) rows.
func (m *Modeler) Split(n int) (train, test []int, err error) {
	nTest := int(math.Ceil(m.testFraction * float64(n)))
	nTrain := n - nTest
	if n < 2 || nTest < 1 || nTrain < 1 {
		return nil, nil, fmt.Errorf("split %d rows (test fraction %.2f): %w", n, m.testFraction, ErrInsufficientRows)
	}

	perm := rand.New(rand.NewSource(m.seed)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}

// Fit regresses happiness score on the six predictors over the training
// rows, scores R² on the held-out rows and ranks the coefficients.
func (m *Modeler) Fit(clean []models.Record) (*models.ModelResult, error) {
	train, test, err := m.Split(len(clean))
	if err != nil {
		return nil, err
	}

	xTrain, yTrain := designMatrix(clean, train)
	intercept, coef, err := FitOLS(xTrain, yTrain)
	if err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}

	result := &models.ModelResult{
		Intercept: intercept,
		TrainRows: len(train),
		TestRows:  len(test),
	}
	for j, f := range models.Predictors {
		result.Coefficients = append(result.Coefficients, models.Coefficient{Feature: f, Value: coef[j]})
	}

	xTest, yTest := designMatrix(clean, test)
	pred := make([]float64, len(yTest))
	for i := range pred {
		pred[i] = result.Predict(xTest.RawRowView(i))
	}
	result.R2 = RSquared(pred, yTest)

	result.Ranked = RankCoefficients(result.Coefficients)

	m.logger.Info("[modeler] Trained on %d rows, scored on %d rows, R²=%.3f",
		result.TrainRows, result.TestRows, result.R2)
	for _, c := range result.Ranked {
		m.logger.Debug("[modeler] %-30s %+.4f", c.Feature, c.Value)
	}
	return result, nil
}

// FitOLS solves ordinary least squares with a fitted intercept. The data are
// centred and the minimum-norm solution is taken, so rank-deficient designs
// still yield coefficients.
func FitOLS(x *mat.Dense, y []float64) (intercept float64, coef []float64, err error) {
	n, p := x.Dims()
	if n != len(y) {
		return 0, nil, fmt.Errorf("ols: %d design rows but %d targets", n, len(y))
	}
	if n == 0 {
		return 0, nil, fmt.Errorf("ols: %w", ErrInsufficientRows)
	}
	if !allFinite(x.RawMatrix().Data) || !allFinite(y) {
		return 0, nil, fmt.Errorf("ols: design holds NaN or Inf: %w", ErrInvalidValue)
	}

	xMean := make([]float64, p)
	for j := 0; j < p; j++ {
		xMean[j] = stat.Mean(mat.Col(nil, j, x), nil)
	}
	yMean := stat.Mean(y, nil)

	var xc mat.Dense
	xc.Apply(func(_, j int, v float64) float64 { return v - xMean[j] }, x)
	yc := mat.NewDense(n, 1, nil)
	for i, v := range y {
		yc.Set(i, 0, v-yMean)
	}

	coef = make([]float64, p)

	var svd mat.SVD
	if !svd.Factorize(&xc, mat.SVDThin) {
		return 0, nil, fmt.Errorf("ols: singular value decomposition failed")
	}
	rcond := float64(max(n, p)) * 2.220446049250313e-16
	if rank := svd.Rank(rcond); rank > 0 {
		var beta mat.Dense
		svd.SolveTo(&beta, yc, rank)
		for j := range coef {
			coef[j] = beta.At(j, 0)
		}
	}

	intercept = yMean - floats.Dot(xMean, coef)
	return intercept, coef, nil
}

// RSquared returns 1 - SS_res/SS_tot. It is NaN with fewer than two
// observations; with constant observations it is 1 for an exact fit and 0
// otherwise.
func RSquared(pred, actual []float64) float64 {
	if len(actual) < 2 {
		return math.NaN()
	}
	mean := stat.Mean(actual, nil)
	var ssTot, ssRes float64
	for i, v := range actual {
		ssTot += (v - mean) * (v - mean)
		ssRes += (v - pred[i]) * (v - pred[i])
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return stat.RSquaredFrom(pred, actual, nil)
}

// RankCoefficients orders coefficients by value, largest first. Equal values
// keep predictor column order.
func RankCoefficients(coef []models.Coefficient) []models.Coefficient {
	ranked := append([]models.Coefficient(nil), coef...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})
	return ranked
}

func allFinite(vals []float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func designMatrix(records []models.Record, rows []int) (*mat.Dense, []float64) {
	x := mat.NewDense(len(rows), len(models.Predictors), nil)
	y := make([]float64, len(rows))
	for i, r := range rows {
		rec := &records[r]
		for j, f := range models.Predictors {
			x.Set(i, j, rec.Number(f).Float64)
		}
		y[i] = rec.HappinessScore.Float64
	}
	return x, y
}
