package prediction

import (
	"math"
	"testing"
)

func TestBoostingFitsLinearTrend(t *testing.T) {
	var X [][]float64
	var y []float64
	for i := 0; i < 20; i++ {
		X = append(X, []float64{float64(i)})
		y = append(y, 2*float64(i))
	}

	b := TrainBoosting(X, y, DefaultBoostingConfig())

	mae := 0.0
	for i := range X {
		mae += math.Abs(b.Predict(X[i]) - y[i])
	}
	mae /= float64(len(X))
	if mae > 2 {
		t.Errorf("training MAE = %v, want < 2", mae)
	}

	if spread := b.Predict([]float64{19}) - b.Predict([]float64{0}); spread < 30 {
		t.Errorf("prediction spread = %v, want > 30 over a 38-unit target range", spread)
	}
}

func TestBoostingConstantTarget(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{7, 7, 7, 7}

	b := TrainBoosting(X, y, BoostingConfig{Rounds: 10, LearningRate: 0.1, MaxDepth: 2, MinLeaf: 2})
	for _, x := range X {
		if got := b.Predict(x); math.Abs(got-7) > 1e-9 {
			t.Errorf("Predict(%v) = %v, want 7", x, got)
		}
	}
}

func TestBoostingTwoLevelTarget(t *testing.T) {
	// Two clusters the depth-limited trees can separate exactly; the
	// residual shrinks geometrically, so 100 rounds land very close.
	X := [][]float64{{1}, {1}, {10}, {10}}
	y := []float64{20, 20, 10, 10}

	b := TrainBoosting(X, y, DefaultBoostingConfig())
	if got := b.Predict([]float64{1}); math.Abs(got-20) > 0.01 {
		t.Errorf("Predict(1) = %v, want ~20", got)
	}
	if got := b.Predict([]float64{10}); math.Abs(got-10) > 0.01 {
		t.Errorf("Predict(10) = %v, want ~10", got)
	}
}

func TestBoostingDeterministic(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}, {5}, {6}}
	y := []float64{3, 5, 7, 9, 11, 13}
	cfg := BoostingConfig{Rounds: 30, LearningRate: 0.2, MaxDepth: 3, MinLeaf: 1}

	b1 := TrainBoosting(X, y, cfg)
	b2 := TrainBoosting(X, y, cfg)
	for _, x := range X {
		if b1.Predict(x) != b2.Predict(x) {
			t.Errorf("Predict(%v) differs between identical trainings", x)
		}
	}
}
