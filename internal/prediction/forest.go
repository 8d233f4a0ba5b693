package prediction

import (
	"math"
	"math/rand"
	"sort"
)

// Forest is a bagged ensemble of CART classification trees. Each tree is
// grown on a bootstrap sample; class probabilities are the average of the
// per-tree leaf distributions.
type Forest struct {
	trees    []*classNode
	nClasses int
}

// ForestConfig bounds tree growth. MinLeaf is the smallest sample count a
// split may leave on either side.
type ForestConfig struct {
	Trees    int
	MaxDepth int
	MinLeaf  int
}

// DefaultForestConfig mirrors the ensemble sizing the models were tuned
// with: plenty of shallow-ish trees over a three-feature space.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{Trees: 120, MaxDepth: 10, MinLeaf: 2}
}

type classNode struct {
	feature   int
	threshold float64
	left      *classNode
	right     *classNode
	dist      []float64
}

type splitPoint struct {
	feature   int
	threshold float64
	score     float64
	ok        bool
}

// TrainForest fits the ensemble on feature rows X and class codes y in
// [0, nClasses). The rng drives bootstrap sampling only; tree growth itself
// is deterministic.
func TrainForest(X [][]float64, y []int, nClasses int, cfg ForestConfig, rng *rand.Rand) *Forest {
	f := &Forest{nClasses: nClasses}
	n := len(X)
	for t := 0; t < cfg.Trees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		f.trees = append(f.trees, buildClassNode(X, y, sample, nClasses, 0, cfg))
	}
	return f
}

// PredictProba returns the averaged class distribution for one feature row.
func (f *Forest) PredictProba(x []float64) []float64 {
	out := make([]float64, f.nClasses)
	for _, tree := range f.trees {
		node := tree
		for node.dist == nil {
			if x[node.feature] <= node.threshold {
				node = node.left
			} else {
				node = node.right
			}
		}
		for c, p := range node.dist {
			out[c] += p
		}
	}
	for c := range out {
		out[c] /= float64(len(f.trees))
	}
	return out
}

// Predict returns the most probable class code; equal probabilities resolve
// to the lowest code.
func (f *Forest) Predict(x []float64) int {
	proba := f.PredictProba(x)
	best := 0
	for c, p := range proba {
		if p > proba[best] {
			best = c
		}
	}
	return best
}

func buildClassNode(X [][]float64, y []int, idx []int, nClasses, depth int, cfg ForestConfig) *classNode {
	counts := classCounts(y, idx, nClasses)

	if depth >= cfg.MaxDepth || len(idx) < 2*cfg.MinLeaf || isPure(counts, len(idx)) {
		return classLeaf(counts, len(idx))
	}

	best := bestClassSplit(X, y, idx, nClasses, cfg.MinLeaf)
	if !best.ok {
		return classLeaf(counts, len(idx))
	}

	var left, right []int
	for _, i := range idx {
		if X[i][best.feature] <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &classNode{
		feature:   best.feature,
		threshold: best.threshold,
		left:      buildClassNode(X, y, left, nClasses, depth+1, cfg),
		right:     buildClassNode(X, y, right, nClasses, depth+1, cfg),
	}
}

// bestClassSplit sweeps each feature in sorted order, moving samples from
// the right partition to the left one at a time and scoring the weighted
// Gini impurity at every boundary between distinct values.
func bestClassSplit(X [][]float64, y []int, idx []int, nClasses, minLeaf int) splitPoint {
	n := len(idx)
	nFeatures := len(X[idx[0]])
	best := splitPoint{score: math.Inf(1)}
	order := make([]int, n)

	for f := 0; f < nFeatures; f++ {
		copy(order, idx)
		sort.Slice(order, func(i, j int) bool { return X[order[i]][f] < X[order[j]][f] })

		leftCounts := make([]float64, nClasses)
		rightCounts := classCounts(y, order, nClasses)

		for i := 0; i < n-1; i++ {
			c := y[order[i]]
			leftCounts[c]++
			rightCounts[c]--

			if X[order[i]][f] == X[order[i+1]][f] {
				continue
			}
			nLeft, nRight := i+1, n-i-1
			if nLeft < minLeaf || nRight < minLeaf {
				continue
			}

			score := (float64(nLeft)*gini(leftCounts, nLeft) + float64(nRight)*gini(rightCounts, nRight)) / float64(n)
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

func classCounts(y []int, idx []int, nClasses int) []float64 {
	counts := make([]float64, nClasses)
	for _, i := range idx {
		counts[y[i]]++
	}
	return counts
}

func classLeaf(counts []float64, n int) *classNode {
	dist := make([]float64, len(counts))
	for c, v := range counts {
		dist[c] = v / float64(n)
	}
	return &classNode{dist: dist}
}

func isPure(counts []float64, n int) bool {
	for _, c := range counts {
		if c == float64(n) {
			return true
		}
	}
	return false
}

func gini(counts []float64, n int) float64 {
	impurity := 1.0
	for _, c := range counts {
		p := c / float64(n)
		impurity -= p * p
	}
	return impurity
}
