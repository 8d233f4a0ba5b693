package prediction

import (
	"math"
	"sort"
)

// Boosting is a gradient-boosted ensemble of shallow regression trees fit
// on squared-error residuals. Prediction is the initial mean plus the
// shrunken sum of tree outputs. Training is deterministic: every round
// fits the full sample.
type Boosting struct {
	base  float64
	rate  float64
	trees []*regNode
}

// BoostingConfig bounds the ensemble. MaxDepth stays small on purpose:
// each round corrects residuals, so individual trees need little capacity.
type BoostingConfig struct {
	Rounds       int
	LearningRate float64
	MaxDepth     int
	MinLeaf      int
}

// DefaultBoostingConfig uses the common 100 × 0.1 × depth-3 setup.
func DefaultBoostingConfig() BoostingConfig {
	return BoostingConfig{Rounds: 100, LearningRate: 0.1, MaxDepth: 3, MinLeaf: 2}
}

type regNode struct {
	feature   int
	threshold float64
	left      *regNode
	right     *regNode
	value     float64
	leaf      bool
}

// TrainBoosting fits the ensemble on feature rows X and targets y.
func TrainBoosting(X [][]float64, y []float64, cfg BoostingConfig) *Boosting {
	b := &Boosting{base: meanFloat(y), rate: cfg.LearningRate}

	preds := make([]float64, len(y))
	for i := range preds {
		preds[i] = b.base
	}
	residual := make([]float64, len(y))
	idx := make([]int, len(y))
	for i := range idx {
		idx[i] = i
	}

	for round := 0; round < cfg.Rounds; round++ {
		for i := range y {
			residual[i] = y[i] - preds[i]
		}
		tree := buildRegNode(X, residual, idx, 0, cfg)
		b.trees = append(b.trees, tree)
		for i := range preds {
			preds[i] += cfg.LearningRate * predictReg(tree, X[i])
		}
	}
	return b
}

// Predict returns the point estimate for one feature row.
func (b *Boosting) Predict(x []float64) float64 {
	out := b.base
	for _, tree := range b.trees {
		out += b.rate * predictReg(tree, x)
	}
	return out
}

func predictReg(node *regNode, x []float64) float64 {
	for !node.leaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

func buildRegNode(X [][]float64, y []float64, idx []int, depth int, cfg BoostingConfig) *regNode {
	if depth >= cfg.MaxDepth || len(idx) < 2*cfg.MinLeaf {
		return regLeaf(y, idx)
	}

	best := bestRegSplit(X, y, idx, cfg.MinLeaf)
	if !best.ok {
		return regLeaf(y, idx)
	}

	var left, right []int
	for _, i := range idx {
		if X[i][best.feature] <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &regNode{
		feature:   best.feature,
		threshold: best.threshold,
		left:      buildRegNode(X, y, left, depth+1, cfg),
		right:     buildRegNode(X, y, right, depth+1, cfg),
	}
}

// bestRegSplit minimizes the summed squared error of the two sides, using
// running sums so each feature costs one sort plus one linear sweep.
func bestRegSplit(X [][]float64, y []float64, idx []int, minLeaf int) splitPoint {
	n := len(idx)
	nFeatures := len(X[idx[0]])
	best := splitPoint{score: math.Inf(1)}
	order := make([]int, n)

	for f := 0; f < nFeatures; f++ {
		copy(order, idx)
		sort.Slice(order, func(i, j int) bool { return X[order[i]][f] < X[order[j]][f] })

		sumLeft, sqLeft := 0.0, 0.0
		sumRight, sqRight := 0.0, 0.0
		for _, i := range order {
			sumRight += y[i]
			sqRight += y[i] * y[i]
		}

		for i := 0; i < n-1; i++ {
			v := y[order[i]]
			sumLeft += v
			sqLeft += v * v
			sumRight -= v
			sqRight -= v * v

			if X[order[i]][f] == X[order[i+1]][f] {
				continue
			}
			nLeft, nRight := i+1, n-i-1
			if nLeft < minLeaf || nRight < minLeaf {
				continue
			}

			score := (sqLeft - sumLeft*sumLeft/float64(nLeft)) + (sqRight - sumRight*sumRight/float64(nRight))
			if score < best.score {
				best = splitPoint{
					feature:   f,
					threshold: (X[order[i]][f] + X[order[i+1]][f]) / 2,
					score:     score,
					ok:        true,
				}
			}
		}
	}
	return best
}

func regLeaf(y []float64, idx []int) *regNode {
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return &regNode{leaf: true, value: sum / float64(len(idx))}
}

func meanFloat(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
