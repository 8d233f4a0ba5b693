package prediction

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"flowmine/internal/eventlog"
	"flowmine/internal/markov"
)

// ErrInsufficientData marks logs too small to train on: fewer than two
// cases, or a split side yielding no prefix rows. Callers render this as
// an empty state, not a failure.
var ErrInsufficientData = errors.New("insufficient data to train prediction models")

// TrainOptions control the case split and the two ensembles. Zero values
// fall back to the defaults.
type TrainOptions struct {
	TestFraction float64
	Seed         int64
	Forest       ForestConfig
	Boosting     BoostingConfig
}

// DefaultTrainOptions holds an 80/20 split under a fixed seed so repeated
// runs over the same log reproduce the same partition and metrics.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		TestFraction: 0.2,
		Seed:         42,
		Forest:       DefaultForestConfig(),
		Boosting:     DefaultBoostingConfig(),
	}
}

// Evaluation reports test-set quality for both models. BaselineMAE is the
// error of a constant predictor answering the test set's mean remaining
// time; it is always reported alongside the model's own MAE, even when the
// model loses.
type Evaluation struct {
	NextActivityAccuracy float64 `json:"nextActivityAccuracy"`
	RemainingTimeMAE     float64 `json:"remainingTimeMae"`
	BaselineMAE          float64 `json:"baselineMae"`
	TrainCases           int     `json:"trainCases"`
	TestCases            int     `json:"testCases"`
	TrainExamples        int     `json:"trainExamples"`
	TestExamples         int     `json:"testExamples"`
}

// Bundle owns everything one training run produces: both ensembles, the
// label encoder, the training-only Markov chain, the case partition and
// the evaluation metrics. Immutable once built; safe to share across
// concurrent readers.
type Bundle struct {
	Classifier *Forest
	Regressor  *Boosting
	Encoder    *LabelEncoder
	Chain      markov.Chain
	TrainCases []string
	TestCases  []string
	Eval       Evaluation

	targets *LabelEncoder
}

// Train builds the full prediction bundle from a log. The split is
// case-disjoint: cases are partitioned first and prefixes are extracted
// per side, so no case leaks prefixes into both sets.
func Train(log eventlog.EventLog, opts TrainOptions) (*Bundle, error) {
	if opts.TestFraction <= 0 || opts.TestFraction >= 1 {
		opts.TestFraction = 0.2
	}
	if opts.Forest.Trees == 0 {
		opts.Forest = DefaultForestConfig()
	}
	if opts.Boosting.Rounds == 0 {
		opts.Boosting = DefaultBoostingConfig()
	}

	ids := log.CaseIDs()
	if len(ids) < 2 {
		return nil, ErrInsufficientData
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	trainIDs, testIDs := SplitCases(ids, opts.TestFraction, rng)

	trainSet := make(map[string]struct{}, len(trainIDs))
	for _, id := range trainIDs {
		trainSet[id] = struct{}{}
	}

	var trainCases, testCases []eventlog.Case
	for _, c := range eventlog.Cases(log) {
		if _, ok := trainSet[c.ID]; ok {
			trainCases = append(trainCases, c)
		} else {
			testCases = append(testCases, c)
		}
	}

	trainNext := nextActivityExamples(trainCases)
	testNext := nextActivityExamples(testCases)
	if len(trainNext) == 0 || len(testNext) == 0 {
		return nil, ErrInsufficientData
	}

	lastLabels := make([]string, len(trainNext))
	targetLabels := make([]string, len(trainNext))
	for i, ex := range trainNext {
		lastLabels[i] = ex.last
		targetLabels[i] = ex.target
	}
	encoder := FitLabels(lastLabels)
	targets := FitLabels(targetLabels)

	XNext := make([][]float64, len(trainNext))
	yNext := make([]int, len(trainNext))
	for i, ex := range trainNext {
		XNext[i] = featureRow(encoder, ex.last, ex.prefixLen, ex.elapsed)
		yNext[i] = targets.Encode(ex.target)
	}
	forest := TrainForest(XNext, yNext, targets.Len(), opts.Forest, rng)

	correct := 0
	for _, ex := range testNext {
		code := forest.Predict(featureRow(encoder, ex.last, ex.prefixLen, ex.elapsed))
		if targets.Decode(code) == ex.target {
			correct++
		}
	}

	trainRem := remainingTimeExamples(trainCases)
	testRem := remainingTimeExamples(testCases)
	if len(trainRem) == 0 || len(testRem) == 0 {
		return nil, ErrInsufficientData
	}

	XRem := make([][]float64, len(trainRem))
	yRem := make([]float64, len(trainRem))
	for i, ex := range trainRem {
		XRem[i] = []float64{float64(ex.prefixLen), ex.elapsed}
		yRem[i] = ex.remaining
	}
	regressor := TrainBoosting(XRem, yRem, opts.Boosting)

	testMean := 0.0
	for _, ex := range testRem {
		testMean += ex.remaining
	}
	testMean /= float64(len(testRem))

	var modelErr, baselineErr float64
	for _, ex := range testRem {
		pred := regressor.Predict([]float64{float64(ex.prefixLen), ex.elapsed})
		modelErr += math.Abs(pred - ex.remaining)
		baselineErr += math.Abs(testMean - ex.remaining)
	}

	return &Bundle{
		Classifier: forest,
		Regressor:  regressor,
		Encoder:    encoder,
		Chain:      markov.Build(log, trainSet),
		TrainCases: trainIDs,
		TestCases:  testIDs,
		Eval: Evaluation{
			NextActivityAccuracy: float64(correct) / float64(len(testNext)),
			RemainingTimeMAE:     modelErr / float64(len(testRem)),
			BaselineMAE:          baselineErr / float64(len(testRem)),
			TrainCases:           len(trainIDs),
			TestCases:            len(testIDs),
			TrainExamples:        len(trainNext),
			TestExamples:         len(testNext),
		},
		targets: targets,
	}, nil
}

func featureRow(encoder *LabelEncoder, last string, prefixLen int, elapsed float64) []float64 {
	return []float64{float64(encoder.Encode(last)), float64(prefixLen), elapsed}
}

// ActivityProbability is one ranked next-activity option.
type ActivityProbability struct {
	Activity    string  `json:"activity"`
	Probability float64 `json:"probability"`
}

// CasePrediction is the per-case inference result. TrueRemainingMinutes
// and ErrorMinutes are present only when the full known trace was used; a
// hypothetical prefix cutoff has no meaningful ground truth.
type CasePrediction struct {
	CaseID               string                `json:"caseId"`
	LastActivity         string                `json:"lastActivity"`
	PrefixLength         int                   `json:"prefixLength"`
	ElapsedMinutes       float64               `json:"elapsedMinutes"`
	NextActivities       []ActivityProbability `json:"nextActivities"`
	MarkovNext           []markov.Successor    `json:"markovNext"`
	RemainingMinutes     float64               `json:"remainingMinutes"`
	TrueRemainingMinutes *float64              `json:"trueRemainingMinutes,omitempty"`
	ErrorMinutes         *float64              `json:"errorMinutes,omitempty"`
	PrefixCutoff         *int                  `json:"prefixCutoff,omitempty"`
}

// PredictForCase runs inference for one case. A non-nil cutoff truncates
// the trace to its first *cutoff events ("what if the case had stopped
// here") before inferring.
func (b *Bundle) PredictForCase(log eventlog.EventLog, caseID string, topK int, cutoff *int) (CasePrediction, error) {
	c, ok := eventlog.CaseByID(log, caseID)
	if !ok {
		return CasePrediction{}, fmt.Errorf("case %q not found", caseID)
	}
	if topK <= 0 {
		topK = 3
	}

	rows := c.Rows
	if cutoff != nil {
		n := *cutoff
		if n < 1 {
			return CasePrediction{}, fmt.Errorf("prefix cutoff must be at least 1, got %d", n)
		}
		if n < len(rows) {
			rows = rows[:n]
		}
	}

	last := rows[len(rows)-1]
	currentEnd := last.EffectiveEnd()
	elapsed := currentEnd.Sub(rows[0].Start).Minutes()

	proba := b.Classifier.PredictProba(featureRow(b.Encoder, last.Activity, len(rows), elapsed))
	ranked := make([]ActivityProbability, 0, len(proba))
	for code, p := range proba {
		if p <= 0 {
			continue
		}
		ranked = append(ranked, ActivityProbability{Activity: b.targets.Decode(code), Probability: p})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Activity < ranked[j].Activity })
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Probability > ranked[j].Probability })
	if topK < len(ranked) {
		ranked = ranked[:topK]
	}

	pred := CasePrediction{
		CaseID:           c.ID,
		LastActivity:     last.Activity,
		PrefixLength:     len(rows),
		ElapsedMinutes:   elapsed,
		NextActivities:   ranked,
		MarkovNext:       markov.TopK(b.Chain, last.Activity, topK),
		RemainingMinutes: b.Regressor.Predict([]float64{float64(len(rows)), elapsed}),
	}

	if cutoff != nil {
		pred.PrefixCutoff = cutoff
		return pred, nil
	}

	trueRemaining := c.End.Sub(currentEnd).Minutes()
	errMinutes := pred.RemainingMinutes - trueRemaining
	pred.TrueRemainingMinutes = &trueRemaining
	pred.ErrorMinutes = &errMinutes
	return pred, nil
}

// MarkovNext returns the top-k successors of activity under the chain
// built from training cases.
func (b *Bundle) MarkovNext(activity string, k int) []markov.Successor {
	return markov.TopK(b.Chain, activity, k)
}
