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
	"sort"
	"strings"

	"github.com/compgen/mutscreen/utils"
	"github.com/compgen/mutscreen/vcf"
)

// CandidateColumn is the name of the single synthesized sample column
// in the output.
const CandidateColumn = "CANDIDATE"

// emit assembles the output record for a surviving allele. The
// identifier column holds the sorted candidate sample ids, and the
// single sample column holds the first candidate's genotype string;
// even when multiple candidates share the mutation, only that one
// representative genotype string is emitted.
func (s *Screener) emit(rec *vcf.Record, allele int, part *SamplePartition, tags []utils.Symbol) *vcf.Record {
	names := make([]string, 0, part.CandidateCount())
	first := -1
	for i, ok := part.Candidate.NextSet(0); ok; i, ok = part.Candidate.NextSet(i + 1) {
		if first < 0 {
			first = int(i)
		}
		names = append(names, s.samples[i])
	}
	sort.Strings(names)
	filter := rec.Filter
	if len(tags) > 0 {
		tagNames := make([]string, len(tags))
		for i, tag := range tags {
			tagNames[i] = *tag
		}
		sort.Strings(tagNames)
		filter = strings.Join(tagNames, ";")
	}
	return &vcf.Record{
		Chrom:          rec.Chrom,
		Pos:            rec.Pos,
		ID:             strings.Join(names, ";"),
		Ref:            rec.Ref,
		Alt:            rec.Alt,
		Qual:           rec.Qual,
		Filter:         filter,
		Info:           s.annotate(rec, allele, part),
		GenotypeFormat: rec.GenotypeFormat,
		Samples:        []string{rec.Samples[first]},
	}
}

var filterDescriptions = [nofFilterKinds]string{
	"Supporting depth below the required minimum in all candidate samples",
	"Plus or minus strand depth below the required minimum in all candidate samples",
	"Too few replicate libraries support the mutation in all candidate samples",
	"Split read support below the required minimum in all candidate samples",
	"A control sample has no data at this locus",
	"The mutation is shared by more than one sample",
	"Too many compare samples have no data at this locus",
	"Total background depth exceeds the noise ceiling",
}

// producibleTag reports whether a filter tag can appear in the
// output under the current settings. Tags only appear for checks
// that are both configured and registered for masking.
func (s *Screener) producibleTag(kind FilterKind) bool {
	if !s.settings.MaskOnly[kind] {
		return false
	}
	settings := s.settings
	switch kind {
	case LowDepth:
		return settings.MinSupportingDepth > 0
	case StrandBias:
		return settings.MinPlusDepth > 0 || settings.MinMinusDepth > 0
	case LibraryBias:
		return settings.MinLibraryCount > 0 && settings.MinLibraryDepth > 0
	case LowSplitSupport:
		return settings.MinSplitSupport > 0
	case NoControlData:
		return len(settings.Controls) > 0
	case SharedMutation:
		return settings.MaxShared > 0
	case HighMissing:
		return settings.MaxMissing >= 0
	case NonSpecific:
		return settings.MaxTotalBackground >= 0
	}
	return false
}

type infoDefinition struct {
	id, number, typ, description string
}

func (s *Screener) producibleInfos() []infoDefinition {
	infos := []infoDefinition{
		{mutantAlleleField, "1", "String", "Mutant allele"},
		{ratioField, "1", "Float", "Mutant allele depth ratio of the single candidate sample"},
		{backgroundDepthsField, ".", "Integer", "Distinct background depths at the mutant allele, ascending"},
		{backgroundFreqsField, ".", "Integer", "Number of background samples at each background depth"},
		{backgroundNamesField, ".", "String", "Background samples at each background depth"},
		{backgroundMeanField, "1", "Float", "Mean background depth at the mutant allele"},
		{missingCountField, "1", "Integer", "Number of samples without data at this locus"},
		{missingNamesField, ".", "String", "Samples without data at this locus, or none"},
		{sharedField, "1", "String", "Candidate count and genotype fields of a shared mutation"},
	}
	if s.grouping {
		infos = append(infos,
			infoDefinition{groupField, "1", "String", "Group of the candidate samples"},
			infoDefinition{groupDepthsField, ".", "Integer", "Distinct same-group background depths at the mutant allele, ascending"},
			infoDefinition{groupFreqsField, ".", "Integer", "Number of same-group background samples at each depth"},
			infoDefinition{groupNamesField, ".", "String", "Same-group background samples at each depth"},
		)
	}
	return infos
}

// OutputHeader derives the output header. The input meta lines pass
// through unchanged; definitions for the producible filter tags and
// annotation fields are appended, together with a provenance line;
// and the sample columns are replaced by the single synthesized
// candidate column.
func (s *Screener) OutputHeader(hdr *vcf.Header, commandLine, runID string) *vcf.Header {
	out := vcf.NewHeader()
	out.FileFormat = hdr.FileFormat
	out.MetaLines = append(out.MetaLines, hdr.MetaLines...)
	for kind := FilterKind(0); kind < nofFilterKinds; kind++ {
		if s.producibleTag(kind) {
			out.MetaLines = append(out.MetaLines,
				fmt.Sprintf("##FILTER=<ID=%v,Description=%q>", kind, filterDescriptions[kind]))
		}
	}
	for _, info := range s.producibleInfos() {
		out.MetaLines = append(out.MetaLines,
			fmt.Sprintf("##INFO=<ID=%v,Number=%v,Type=%v,Description=%q>", info.id, info.number, info.typ, info.description))
	}
	out.MetaLines = append(out.MetaLines,
		fmt.Sprintf("##%vVersion=%v", utils.ProgramName, utils.ProgramVersion),
		fmt.Sprintf("##%vCommand=<RunId=%q,CommandLine=%q>", utils.ProgramName, runID, commandLine))
	out.Columns = append(append([]string(nil), vcf.DefaultHeaderColumns...), CandidateColumn)
	return out
}
