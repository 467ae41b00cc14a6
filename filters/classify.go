// mutscreen: a tool for screening variant calls for candidate private mutations.
// Copyright (c) 2026 compgen.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/compgen/mutscreen/blob/master/LICENSE.txt>.

package filters

import "github.com/willf/bitset"

// A SamplePartition splits the samples of one locus into missing,
// candidate, and background sets for one allele. The sets are
// disjoint by construction. Samples with data that are neither
// candidate nor background carry no reads at this allele and appear
// in no set.
type SamplePartition struct {
	Missing    *bitset.BitSet
	Candidate  *bitset.BitSet
	Background *bitset.BitSet
	Depths     []int     // per-sample depth at this allele; 0 for missing samples
	Ratios     []float64 // per-sample depth ratio; -1 when the total depth is 0
}

// MissingCount returns the number of missing samples.
func (part *SamplePartition) MissingCount() int {
	return int(part.Missing.Count())
}

// CandidateCount returns the number of candidate samples.
func (part *SamplePartition) CandidateCount() int {
	return int(part.Candidate.Count())
}

// Classify partitions the samples of one locus for the given allele
// index. A sample with an absent depth vector or a zero total depth
// is missing; a sample whose depth (or depth percentage, when a
// percentage ceiling is configured) exceeds the background noise
// ceiling is a candidate; the remaining samples with reads at this
// allele are background.
func Classify(settings *Settings, allele int, depths []DepthVector) *SamplePartition {
	n := uint(len(depths))
	part := &SamplePartition{
		Missing:    bitset.New(n),
		Candidate:  bitset.New(n),
		Background: bitset.New(n),
		Depths:     make([]int, n),
		Ratios:     make([]float64, n),
	}
	for i, vector := range depths {
		total := vector.Total()
		if vector == nil || total == 0 {
			part.Missing.Set(uint(i))
			part.Ratios[i] = -1
			continue
		}
		depth := 0
		if allele < len(vector) {
			depth = vector[allele]
		}
		part.Depths[i] = depth
		part.Ratios[i] = float64(depth) / float64(total)
		candidate := false
		if settings.MaxBackgroundPercentage >= 0 {
			candidate = 100*part.Ratios[i] > settings.MaxBackgroundPercentage
		} else {
			candidate = depth > settings.MaxBackgroundDepth
		}
		switch {
		case candidate:
			part.Candidate.Set(uint(i))
		case depth > 0:
			part.Background.Set(uint(i))
		}
	}
	return part
}
