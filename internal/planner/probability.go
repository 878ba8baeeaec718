package planner

import (
	"fmt"
	"math"
	"strings"

	"github.com/felixgeelhaar/growthplan/internal/domain"
)

// DefaultSuccessProbability is used when the estimate cannot be computed.
const DefaultSuccessProbability = 0.7

// SuccessProbability estimates the chance the plan is completed:
//
//	base    = min(0.9, pace*0.7)
//	penalty = 0.10 per complex task + 0.05 per moderate task + 0.05 per risk factor
//	result  = max(0.1, round(base - penalty, 2))
//
// A panic or non-finite intermediate yields DefaultSuccessProbability.
func SuccessProbability(pace float64, tasks []Task, riskFactors []string) (p float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			p, err = DefaultSuccessProbability, fmt.Errorf("success probability: %v", r)
		}
	}()

	base := math.Min(0.9, pace*0.7)

	var complexity float64
	for _, t := range tasks {
		switch t.Complexity {
		case domain.ComplexityComplex:
			complexity += 0.10
		case domain.ComplexityModerate:
			complexity += 0.05
		}
	}
	risk := 0.05 * float64(len(riskFactors))

	raw := base - complexity - risk
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return DefaultSuccessProbability, fmt.Errorf("success probability: non-finite intermediate %v", raw)
	}
	return math.Max(0.1, roundTo(raw, 2)), nil
}

// ClampProbability forces p into [0.1, 1.0]. NaN maps to the default.
func ClampProbability(p float64) (float64, bool) {
	switch {
	case math.IsNaN(p):
		return DefaultSuccessProbability, true
	case p < 0.1:
		return 0.1, true
	case p > 1.0:
		return 1.0, true
	default:
		return p, false
	}
}

// MergeRiskFactors unions factor lists, dropping blanks and case-insensitive duplicates.
// First occurrence wins and order is preserved.
func MergeRiskFactors(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, f := range list {
			f = strings.TrimSpace(f)
			key := strings.ToLower(f)
			if f == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, f)
		}
	}
	return out
}

// roundTo rounds half to even at the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*scale) / scale
}
