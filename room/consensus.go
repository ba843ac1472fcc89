// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package room

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Summary aggregates the revealed votes of a round.
type Summary struct {
	VoteCount    int
	Distribution map[string]int
	// Average and Median cover numeric votes only; nil when there are none.
	Average *float64
	Median  *float64
	// Consensus is true when at least one vote was cast and all votes are equal.
	Consensus      bool
	ConsensusValue string
}

// Summarize computes the round summary for a set of revealed votes.
func Summarize(votes map[string]string) Summary {
	s := Summary{
		VoteCount:    len(votes),
		Distribution: make(map[string]int, len(votes)),
	}

	var numeric []float64
	for _, v := range votes {
		s.Distribution[v]++
		if n, ok := ParsePoints(v); ok {
			numeric = append(numeric, n)
		}
	}

	if len(s.Distribution) == 1 {
		s.Consensus = true
		for v := range s.Distribution {
			s.ConsensusValue = v
		}
	}

	if len(numeric) > 0 {
		sort.Float64s(numeric)
		avg := mean(numeric)
		med := percentile(numeric, 0.5)
		s.Average = &avg
		s.Median = &med
	}

	return s
}

// ParsePoints reports whether a vote value is a finite number.
func ParsePoints(value string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// percentile calculates the p-th percentile of sorted data
// p should be in range [0, 1]
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0.0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p * float64(len(sorted)-1)
	lower := int(rank)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
