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

import (
	"errors"
	"strconv"
	"strings"
)

// A DepthVector holds one read depth per allele index, where index 0
// is the reference allele.
type DepthVector []int

// Total returns the total read depth across all alleles.
func (depths DepthVector) Total() (total int) {
	for _, d := range depths {
		total += d
	}
	return total
}

// DepthEncoding identifies the FORMAT tag family that carries
// per-allele read depths. Callers differ in how they report depth;
// the four supported families cover allele depths (AD), covering and
// variant read counts (NR/NV), paired and junction read counts
// (DR/DV/RR/RV), and paired-read support (PR).
type DepthEncoding int

// The supported depth encodings, in detection order.
const (
	EncodingNone DepthEncoding = iota
	EncodingAlleleDepth
	EncodingReadCounts
	EncodingPairedJunction
	EncodingPairedSupport
)

// ErrNoDepthEncoding is reported when a FORMAT declaration contains
// none of the supported depth tag families. No sample can ever be
// evaluated for such input, so this error aborts the whole run.
var ErrNoDepthEncoding = errors.New("no supported allele depth encoding in the FORMAT declaration")

// DetectDepthEncoding determines the depth encoding for a FORMAT
// declaration. The detection order is fixed: AD, then NR/NV, then
// DR/DV/RR/RV, then PR. Tag sets may vary per data line in
// mixed-source files, so detection runs per record.
func DetectDepthEncoding(format []string) DepthEncoding {
	switch {
	case tagIndex(format, "AD") >= 0:
		return EncodingAlleleDepth
	case tagIndex(format, "NR") >= 0 && tagIndex(format, "NV") >= 0:
		return EncodingReadCounts
	case tagIndex(format, "DR") >= 0 && tagIndex(format, "DV") >= 0 &&
		tagIndex(format, "RR") >= 0 && tagIndex(format, "RV") >= 0:
		return EncodingPairedJunction
	case tagIndex(format, "PR") >= 0:
		return EncodingPairedSupport
	}
	return EncodingNone
}

// A GenotypeFixer reconciles an allele depth vector that is shorter
// than the allele count of its record, given the sample's called
// genotype. It reports false when no reconciliation is possible, in
// which case the sample is classified as missing.
type GenotypeFixer interface {
	FixAlleleDepths(depths DepthVector, genotype string, alleleCount int) (DepthVector, bool)
}

// ZeroFillFixer reconciles short depth vectors by padding them with
// zero entries for the alleles the caller omitted.
type ZeroFillFixer struct{}

// FixAlleleDepths implements the GenotypeFixer interface.
func (ZeroFillFixer) FixAlleleDepths(depths DepthVector, _ string, alleleCount int) (DepthVector, bool) {
	if depths == nil {
		return nil, false
	}
	for len(depths) < alleleCount {
		depths = append(depths, 0)
	}
	return depths, true
}

func tagIndex(format []string, tag string) int {
	for index, t := range format {
		if t == tag {
			return index
		}
	}
	return -1
}

func sampleField(sample string, index int) string {
	if index < 0 {
		return ""
	}
	for start := 0; ; index-- {
		end := strings.IndexByte(sample[start:], ':')
		if end < 0 {
			if index == 0 {
				return sample[start:]
			}
			return ""
		}
		if index == 0 {
			return sample[start : start+end]
		}
		start += end + 1
	}
}

func fieldInts(field string) []int {
	if field == "" || field == "." {
		return nil
	}
	parts := strings.Split(field, ",")
	values := make([]int, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil
		}
		values[i] = v
	}
	return values
}

func fieldInt(field string) (int, bool) {
	if field == "" || field == "." {
		return 0, false
	}
	v, err := strconv.Atoi(field)
	if err != nil {
		return 0, false
	}
	return v, true
}

// NormalizeDepths converts a sample's raw genotype fields into a
// canonical depth vector with one entry per allele. It reports false
// when the sample has no usable depth data, in which case the sample
// is classified as missing; that is not an error.
func NormalizeDepths(encoding DepthEncoding, format []string, sample string, alleleCount int, fixer GenotypeFixer) (DepthVector, bool) {
	var depths DepthVector
	switch encoding {
	case EncodingAlleleDepth:
		depths = fieldInts(sampleField(sample, tagIndex(format, "AD")))
	case EncodingReadCounts:
		covering, ok := fieldInt(sampleField(sample, tagIndex(format, "NR")))
		if !ok {
			return nil, false
		}
		variant, ok := fieldInt(sampleField(sample, tagIndex(format, "NV")))
		if !ok {
			return nil, false
		}
		ref := covering - variant
		if ref < 0 {
			ref = 0
		}
		depths = DepthVector{ref, variant}
	case EncodingPairedJunction:
		refPair, ok1 := fieldInt(sampleField(sample, tagIndex(format, "DR")))
		varPair, ok2 := fieldInt(sampleField(sample, tagIndex(format, "DV")))
		refJunction, ok3 := fieldInt(sampleField(sample, tagIndex(format, "RR")))
		varJunction, ok4 := fieldInt(sampleField(sample, tagIndex(format, "RV")))
		if !(ok1 && ok2 && ok3 && ok4) {
			return nil, false
		}
		depths = DepthVector{refPair + refJunction, varPair + varJunction}
	case EncodingPairedSupport:
		depths = fieldInts(sampleField(sample, tagIndex(format, "PR")))
	default:
		return nil, false
	}
	if depths == nil {
		return nil, false
	}
	if len(depths) < alleleCount {
		fixed, ok := fixer.FixAlleleDepths(depths, sampleField(sample, tagIndex(format, "GT")), alleleCount)
		if !ok {
			return nil, false
		}
		depths = fixed
	}
	return depths, true
}
