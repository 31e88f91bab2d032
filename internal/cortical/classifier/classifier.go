// Package classifier implements the SDR classifier: a single-layer
// feed-forward network that maps an activation pattern (winner columns or
// active cells) to a likelihood distribution over encoder buckets, for one
// or more prediction steps into the future.
package classifier

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/htm-project/htm-core/internal/domain/htm"
)

// Result holds the inferred likelihoods for one prediction step.
type Result struct {
	// Step is the number of time steps into the future.
	Step int `json:"step"`
	// Likelihoods has one entry per bucket index seen so far.
	Likelihoods []float64 `json:"likelihoods"`
}

// MostProbableBucket returns the bucket with the highest likelihood.
func (r Result) MostProbableBucket() int {
	best := 0
	for i, v := range r.Likelihoods {
		if v > r.Likelihoods[best] {
			best = i
		}
	}
	return best
}

type historyEntry struct {
	iteration int
	pattern   []int
}

// SDRClassifier learns one weight matrix per prediction step, indexed
// (bucket, column). Activation for a bucket is the sum of the weights of
// the pattern's active columns; likelihoods are the squared activations,
// soft-normalized. Matrices grow as higher bucket indices appear.
type SDRClassifier struct {
	steps         []int
	alpha         float64
	actValueAlpha float64
	columns       int

	learnIteration            int
	recordNumMinusLearnOffset int
	offsetSet                 bool

	maxBucketIdx int
	// weights maps each step to its (buckets x columns) matrix.
	weights map[int]*mat.Dense

	history    []historyEntry
	maxHistory int

	actualValues []float64
	valueSeen    []bool
}

// NewSDRClassifier creates a classifier for the given prediction steps over
// patterns drawn from columns input bits. Alpha controls weight adaptation
// speed; actValueAlpha controls the rolling average of actual values per
// bucket.
func NewSDRClassifier(steps []int, alpha, actValueAlpha float64, columns int) (*SDRClassifier, error) {
	if len(steps) == 0 {
		return nil, htm.NewErrorWithField(htm.ErrorInvalidConfig, "at least one prediction step is required", "steps")
	}
	if columns <= 0 {
		return nil, htm.NewErrorWithField(htm.ErrorInvalidConfig, "column count must be positive", "columns")
	}
	sortedSteps := append([]int(nil), steps...)
	sort.Ints(sortedSteps)
	maxStep := sortedSteps[len(sortedSteps)-1]

	c := &SDRClassifier{
		steps:         sortedSteps,
		alpha:         alpha,
		actValueAlpha: actValueAlpha,
		columns:       columns,
		maxHistory:    maxStep + 1,
		weights:       make(map[int]*mat.Dense, len(sortedSteps)),
		actualValues:  make([]float64, 1),
		valueSeen:     make([]bool, 1),
	}
	for _, step := range sortedSteps {
		c.weights[step] = mat.NewDense(1, columns, nil)
	}
	return c, nil
}

// Compute processes one record: stores the pattern in the history ring,
// infers likelihoods for each configured step (when infer is set) and
// adapts the weight matrices against the bucket that actually occurred
// (when learn is set). Patterns are the active column or cell indices.
func (c *SDRClassifier) Compute(recordNum int, bucketIdx int, actualValue float64, pattern []int, learn, infer bool) []Result {
	if !c.offsetSet {
		c.recordNumMinusLearnOffset = recordNum - c.learnIteration
		c.offsetSet = true
	}
	c.learnIteration = recordNum - c.recordNumMinusLearnOffset

	if len(c.history) == c.maxHistory {
		c.history = c.history[:len(c.history)-1]
	}
	entry := historyEntry{iteration: c.learnIteration, pattern: append([]int(nil), pattern...)}
	c.history = append([]historyEntry{entry}, c.history...)

	var results []Result
	if infer {
		results = c.Infer(pattern)
	}

	if learn {
		c.growBuckets(bucketIdx)

		if !c.valueSeen[bucketIdx] {
			c.actualValues[bucketIdx] = actualValue
			c.valueSeen[bucketIdx] = true
		} else {
			c.actualValues[bucketIdx] = (1-c.actValueAlpha)*c.actualValues[bucketIdx] +
				c.actValueAlpha*actualValue
		}

		errorVec := make([]float64, c.maxBucketIdx+1)
		for _, past := range c.history {
			nSteps := c.learnIteration - past.iteration
			if !c.hasStep(nSteps) {
				continue
			}
			c.inferSingleStep(past.pattern, nSteps, errorVec)
			for i := range errorVec {
				target := 0.0
				if i == bucketIdx {
					target = 1.0
				}
				errorVec[i] = target - errorVec[i]
			}
			weights := c.weights[nSteps]
			for bucket := range errorVec {
				delta := c.alpha * errorVec[bucket]
				for _, bit := range past.pattern {
					weights.Set(bucket, bit, weights.At(bucket, bit)+delta)
				}
			}
		}
	}

	return results
}

// Infer returns the likelihood distribution per configured step for the
// given pattern, without learning.
func (c *SDRClassifier) Infer(pattern []int) []Result {
	results := make([]Result, 0, len(c.steps))
	for _, step := range c.steps {
		likelihoods := make([]float64, c.maxBucketIdx+1)
		c.inferSingleStep(pattern, step, likelihoods)
		results = append(results, Result{Step: step, Likelihoods: likelihoods})
	}
	return results
}

// ActualValue returns the rolling-average input value recorded for a bucket.
func (c *SDRClassifier) ActualValue(bucket int) float64 {
	if bucket < 0 || bucket >= len(c.actualValues) {
		return 0
	}
	return c.actualValues[bucket]
}

// Steps returns the configured prediction steps, sorted.
func (c *SDRClassifier) Steps() []int { return c.steps }

// inferSingleStep fills into with the squared-and-normalized activations of
// every known bucket for one step.
func (c *SDRClassifier) inferSingleStep(pattern []int, step int, into []float64) {
	weights, ok := c.weights[step]
	if !ok {
		for i := range into {
			into[i] = 0
		}
		return
	}
	for bucket := range into {
		sum := 0.0
		for _, bit := range pattern {
			if bit >= 0 && bit < c.columns {
				sum += weights.At(bucket, bit)
			}
		}
		into[bucket] = sum
	}

	total := 0.0
	for i, v := range into {
		if v < 0.001 {
			into[i] = 0
		} else {
			into[i] = v * v
		}
		total += into[i]
	}
	if total > 0.001 {
		for i := range into {
			into[i] /= total
		}
	}
}

// growBuckets zero-pads every weight matrix and the actual-value table up
// to the given bucket index.
func (c *SDRClassifier) growBuckets(bucketIdx int) {
	if bucketIdx > c.maxBucketIdx {
		for step, weights := range c.weights {
			rows, _ := weights.Dims()
			if bucketIdx+1 > rows {
				grown := weights.Grow(bucketIdx+1-rows, 0).(*mat.Dense)
				c.weights[step] = grown
			}
		}
		c.maxBucketIdx = bucketIdx
	}
	for c.maxBucketIdx > len(c.actualValues)-1 {
		c.actualValues = append(c.actualValues, 0)
		c.valueSeen = append(c.valueSeen, false)
	}
}

func (c *SDRClassifier) hasStep(step int) bool {
	for _, s := range c.steps {
		if s == step {
			return true
		}
	}
	return false
}
