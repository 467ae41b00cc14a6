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
	"fmt"

	"github.com/willf/bitset"

	"github.com/compgen/mutscreen/utils"
	"github.com/compgen/mutscreen/vcf"
)

// A Screener screens variant records for candidate private mutations.
// It holds the immutable run-wide state: the settings, the sample
// column mapping, the group assignments, and the control sample set.
// No state is carried from one record to the next, so a single
// Screener can be used from multiple goroutines concurrently.
type Screener struct {
	settings *Settings
	samples  []string
	groups   []string // per sample column; "" when the sample has no assignment
	grouping bool
	controls *bitset.BitSet
	fixer    GenotypeFixer
}

// NewScreener creates a Screener for the given settings and sample
// columns. It loads the group file when one is configured, and
// resolves the control sample ids against the sample columns.
func NewScreener(settings *Settings, samples []string, fixer GenotypeFixer) (*Screener, error) {
	if fixer == nil {
		fixer = ZeroFillFixer{}
	}
	s := &Screener{
		settings: settings,
		samples:  samples,
		controls: bitset.New(uint(len(samples))),
		fixer:    fixer,
	}
	if settings.GroupFile != "" {
		table, err := ReadGroupFile(settings.GroupFile)
		if err != nil {
			return nil, err
		}
		s.grouping = true
		s.groups = make([]string, len(samples))
		for i, sample := range samples {
			s.groups[i] = table[sample]
		}
	}
	for _, control := range settings.Controls {
		index := -1
		for i, sample := range samples {
			if sample == control {
				index = i
				break
			}
		}
		if index < 0 {
			return nil, fmt.Errorf("control sample %v not among the sample columns", control)
		}
		s.controls.Set(uint(index))
	}
	return s, nil
}

// Screen evaluates one record. It returns the annotated output
// record for the first allele that survives the screening battery,
// nil when the record is dropped, and an error only for the fatal
// condition that the record's FORMAT declaration carries no
// supported depth encoding.
func (s *Screener) Screen(rec *vcf.Record) (*vcf.Record, error) {
	// The encoding check comes first: input without a supported depth
	// encoding must abort the run even for records the quality floor
	// would skip.
	encoding := DetectDepthEncoding(rec.GenotypeFormat)
	if encoding == EncodingNone {
		return nil, fmt.Errorf("%v at %v:%v", ErrNoDepthEncoding, rec.Chrom, rec.Pos)
	}
	if s.settings.QualityFloor > 0 {
		if qual, ok := rec.QualValue(); ok && qual < s.settings.QualityFloor {
			return nil, nil
		}
	}
	depths := make([]DepthVector, len(s.samples))
	for i := range s.samples {
		if i >= len(rec.Samples) {
			break
		}
		if vector, ok := NormalizeDepths(encoding, rec.GenotypeFormat, rec.Samples[i], rec.AlleleCount(), s.fixer); ok {
			depths[i] = vector
		}
	}
	for allele := 0; allele < rec.AlleleCount(); allele++ {
		if allele == 0 && s.settings.ExcludeRef {
			continue
		}
		if !s.indelLengthOK(rec, allele) {
			continue
		}
		part := Classify(s.settings, allele, depths)
		if part.CandidateCount() == 0 {
			continue
		}
		tags, drop := s.decide(rec, allele, part)
		if drop {
			continue
		}
		return s.emit(rec, allele, part, tags), nil
	}
	return nil, nil
}

func (s *Screener) indelLengthOK(rec *vcf.Record, allele int) bool {
	if s.settings.MinIndelLength <= 0 && s.settings.MaxIndelLength <= 0 {
		return true
	}
	length := len(rec.Allele(allele)) - len(rec.Ref)
	if length < 0 {
		length = -length
	}
	if length == 0 {
		return true
	}
	if s.settings.MinIndelLength > 0 && length < s.settings.MinIndelLength {
		return false
	}
	if s.settings.MaxIndelLength > 0 && length > s.settings.MaxIndelLength {
		return false
	}
	return true
}

// candidateGroup returns the group id shared by all candidate
// samples. It reports false when the candidates span more than one
// group, or when a candidate has no group assignment.
func (s *Screener) candidateGroup(part *SamplePartition) (string, bool) {
	group := ""
	for i, ok := part.Candidate.NextSet(0); ok; i, ok = part.Candidate.NextSet(i + 1) {
		g := s.groups[i]
		if g == "" {
			return "", false
		}
		if group == "" {
			group = g
		} else if g != group {
			return "", false
		}
	}
	return group, true
}

// totalBackgroundDepth accumulates the depth of the background
// samples at this allele. Same-group background samples are excluded
// when grouping is active; they are reported separately in the group
// statistics.
func (s *Screener) totalBackgroundDepth(part *SamplePartition) int {
	group := ""
	if s.grouping {
		group, _ = s.candidateGroup(part)
	}
	total := 0
	for i, ok := part.Background.NextSet(0); ok; i, ok = part.Background.NextSet(i + 1) {
		if s.grouping && s.groups[i] == group {
			continue
		}
		total += part.Depths[i]
	}
	return total
}

// A batteryOutcome maps each filter kind of the per-candidate battery
// to the set of candidate samples that failed it.
type batteryOutcome [nofFilterKinds]*bitset.BitSet

// fired reports whether a filter kind fired at locus level: all
// candidates must have failed it; one passing candidate clears the
// locus for that kind.
func (outcome *batteryOutcome) fired(kind FilterKind, candidates int) bool {
	return candidates > 0 && int(outcome[kind].Count()) >= candidates
}

// runBattery evaluates the per-candidate filter battery and returns
// the failing-candidate set per filter kind. Checks that are not
// configured, or whose FORMAT tags are unavailable at this locus,
// record no failures.
func (s *Screener) runBattery(rec *vcf.Record, allele int, part *SamplePartition) *batteryOutcome {
	var outcome batteryOutcome
	for kind := range outcome {
		outcome[kind] = bitset.New(uint(len(s.samples)))
	}
	settings := s.settings
	// A strand tag in the leading FORMAT position counts as absent here.
	plusIndex := tagIndex(rec.GenotypeFormat, "ADF")
	minusIndex := tagIndex(rec.GenotypeFormat, "ADR")
	strandAvailable := plusIndex > 0 && minusIndex > 0
	libraryCountIndex := tagIndex(rec.GenotypeFormat, "LBN")
	libraryDepthIndex := tagIndex(rec.GenotypeFormat, "LBD")
	libraryAvailable := libraryCountIndex >= 0 && libraryDepthIndex >= 0
	splitIndex := tagIndex(rec.GenotypeFormat, "SR")
	for i, ok := part.Candidate.NextSet(0); ok; i, ok = part.Candidate.NextSet(i + 1) {
		sample := rec.Samples[i]
		if settings.MinSupportingDepth > 0 && part.Depths[i] < settings.MinSupportingDepth {
			outcome[LowDepth].Set(i)
		}
		if (settings.MinPlusDepth > 0 || settings.MinMinusDepth > 0) && strandAvailable {
			if !strandDepthsOK(sample, plusIndex, minusIndex, allele, settings.MinPlusDepth, settings.MinMinusDepth) {
				outcome[StrandBias].Set(i)
			}
		}
		if settings.MinLibraryCount > 0 && settings.MinLibraryDepth > 0 && libraryAvailable {
			if !libraryCountsOK(sample, libraryCountIndex, libraryDepthIndex, settings.MinLibraryCount, settings.MinLibraryDepth) {
				outcome[LibraryBias].Set(i)
			}
		}
		if settings.MinSplitSupport > 0 {
			if splitIndex < 0 || !splitSupportOK(sample, splitIndex, allele, settings.MinSplitSupport) {
				outcome[LowSplitSupport].Set(i)
			}
		}
	}
	return &outcome
}

func strandDepthsOK(sample string, plusIndex, minusIndex, allele, minPlus, minMinus int) bool {
	plus := fieldInts(sampleField(sample, plusIndex))
	minus := fieldInts(sampleField(sample, minusIndex))
	if allele >= len(plus) || allele >= len(minus) {
		return false
	}
	if minPlus > 0 && plus[allele] < minPlus {
		return false
	}
	if minMinus > 0 && minus[allele] < minMinus {
		return false
	}
	return true
}

func libraryCountsOK(sample string, countIndex, depthIndex, minCount, minDepth int) bool {
	declared, ok := fieldInt(sampleField(sample, countIndex))
	if !ok || declared < minCount {
		return false
	}
	supporting := 0
	for _, depth := range fieldInts(sampleField(sample, depthIndex)) {
		if depth >= minDepth {
			supporting++
		}
	}
	return supporting >= minCount
}

func splitSupportOK(sample string, splitIndex, allele, minSupport int) bool {
	support := fieldInts(sampleField(sample, splitIndex))
	return allele < len(support) && support[allele] >= minSupport
}

// decide runs the ordered checks for one (record, allele) pair and
// returns the mask tags to append, or drop.
func (s *Screener) decide(rec *vcf.Record, allele int, part *SamplePartition) (tags []utils.Symbol, drop bool) {
	settings := s.settings
	candidates := part.CandidateCount()
	if s.grouping {
		if _, ok := s.candidateGroup(part); !ok {
			return nil, true
		}
	}
	outcome := s.runBattery(rec, allele, part)
	for kind := LowDepth; kind <= LowSplitSupport; kind++ {
		if outcome.fired(kind, candidates) {
			if !settings.MaskOnly[kind] {
				return nil, true
			}
			tags = append(tags, kind.Tag())
		}
	}
	if s.controls.Count() > 0 && s.controls.IntersectionCardinality(part.Missing) > 0 {
		if !settings.MaskOnly[NoControlData] {
			return nil, true
		}
		tags = append(tags, NoControlData.Tag())
	}
	if settings.MaxShared > 0 && candidates > 1 {
		if candidates > settings.MaxShared {
			return nil, true
		}
		// Mutations are never allowed to be shared with control samples.
		if s.controls.IntersectionCardinality(part.Candidate) > 0 {
			return nil, true
		}
		if settings.MaskOnly[SharedMutation] {
			tags = append(tags, SharedMutation.Tag())
		}
	}
	if settings.MaxMissing >= 0 && part.MissingCount() > settings.MaxMissing {
		if !settings.MaskOnly[HighMissing] {
			return nil, true
		}
		tags = append(tags, HighMissing.Tag())
	}
	if settings.MaxTotalBackground >= 0 && s.totalBackgroundDepth(part) > settings.MaxTotalBackground {
		if !settings.MaskOnly[NonSpecific] {
			return nil, true
		}
		tags = append(tags, NonSpecific.Tag())
	}
	return tags, false
}
