// File: result.go
// Role: EvaluationResult and its classification/adversarial variants —
//       weighted-mean accumulators with a += (nbEvaluation-weighted
//       mean) and /= (scalar divide) operator pair.

package learn

import "github.com/katalvlaran/tpglearn/tpg"

// EvaluationResult is a running mean score plus the sample count it was
// computed from.
type EvaluationResult struct {
	Result       float64
	NbEvaluation int
}

// Add combines other into r as an nbEvaluation-weighted mean. A other
// with zero samples is a no-op.
func (r *EvaluationResult) Add(other EvaluationResult) error {
	if other.NbEvaluation == 0 {
		return nil
	}

	total := r.NbEvaluation + other.NbEvaluation
	r.Result = (r.Result*float64(r.NbEvaluation) + other.Result*float64(other.NbEvaluation)) / float64(total)
	r.NbEvaluation = total

	return nil
}

// Div scalar-divides the stored result, leaving NbEvaluation unchanged.
func (r *EvaluationResult) Div(scalar float64) { r.Result /= scalar }

// RootScore pairs a root with its evaluation result; EvaluateAllRoots
// returns a slice of these sorted descending by Result.Result — the
// "ordered multimap keyed by evaluation score" of spec §4.I.
type RootScore struct {
	Root   tpg.VertexID
	Result EvaluationResult
}

// ClassificationEvaluationResult holds one F1 and one sample count per
// class.
type ClassificationEvaluationResult struct {
	F1           []float64
	NbEvaluation []int
}

// Add combines other into r class-by-class as an nbEvaluation-weighted
// mean. Returns ErrSizeMismatch if the two vectors' lengths disagree.
func (r *ClassificationEvaluationResult) Add(other ClassificationEvaluationResult) error {
	if len(r.F1) != len(other.F1) || len(r.NbEvaluation) != len(other.NbEvaluation) {
		return ErrSizeMismatch
	}

	for i := range r.F1 {
		total := r.NbEvaluation[i] + other.NbEvaluation[i]
		if total == 0 {
			continue
		}
		r.F1[i] = (r.F1[i]*float64(r.NbEvaluation[i]) + other.F1[i]*float64(other.NbEvaluation[i])) / float64(total)
		r.NbEvaluation[i] = total
	}

	return nil
}

// Div scalar-divides every class's F1, leaving NbEvaluation unchanged.
func (r *ClassificationEvaluationResult) Div(scalar float64) {
	for i := range r.F1 {
		r.F1[i] /= scalar
	}
}

// MeanF1 is the unweighted mean F1 over classes with at least one
// sample — the general score ClassificationAgent falls back to once
// per-class preservation slots are filled.
func (r *ClassificationEvaluationResult) MeanF1() float64 {
	var sum float64
	var n int
	for i, f := range r.F1 {
		if i < len(r.NbEvaluation) && r.NbEvaluation[i] == 0 {
			continue
		}
		sum += f
		n++
	}
	if n == 0 {
		return 0
	}

	return sum / float64(n)
}

// ClassRootScore pairs a root with its ClassificationEvaluationResult.
type ClassRootScore struct {
	Root   tpg.VertexID
	Result ClassificationEvaluationResult
}

// AdversarialEvaluationResult holds one mean score and sample count per
// seat a job evaluated.
type AdversarialEvaluationResult struct {
	Scores       []float64
	NbEvaluation []int
}

// Add combines other into r seat-by-seat as an nbEvaluation-weighted
// mean. Returns ErrSizeMismatch if the two vectors' lengths disagree.
func (r *AdversarialEvaluationResult) Add(other AdversarialEvaluationResult) error {
	if len(r.Scores) != len(other.Scores) || len(r.NbEvaluation) != len(other.NbEvaluation) {
		return ErrSizeMismatch
	}

	for i := range r.Scores {
		total := r.NbEvaluation[i] + other.NbEvaluation[i]
		if total == 0 {
			continue
		}
		r.Scores[i] = (r.Scores[i]*float64(r.NbEvaluation[i]) + other.Scores[i]*float64(other.NbEvaluation[i])) / float64(total)
		r.NbEvaluation[i] = total
	}

	return nil
}

// Div scalar-divides every seat's score, leaving NbEvaluation unchanged.
func (r *AdversarialEvaluationResult) Div(scalar float64) {
	for i := range r.Scores {
		r.Scores[i] /= scalar
	}
}
