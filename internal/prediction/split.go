package prediction

import (
	"math"
	"math/rand"
	"sort"
)

// SplitCases partitions case ids into train and test sets. Ids are sorted
// before the seeded shuffle so the same seed yields the same partition
// regardless of input order. The test side gets ceil(n × testFraction)
// cases, capped so at least one case stays on each side when two or more
// exist.
func SplitCases(caseIDs []string, testFraction float64, rng *rand.Rand) (train, test []string) {
	if len(caseIDs) < 2 {
		return nil, nil
	}

	ids := make([]string, len(caseIDs))
	copy(ids, caseIDs)
	sort.Strings(ids)
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	nTest := int(math.Ceil(float64(len(ids)) * testFraction))
	if nTest < 1 {
		nTest = 1
	}
	if nTest > len(ids)-1 {
		nTest = len(ids) - 1
	}
	return ids[nTest:], ids[:nTest]
}
