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
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/compgen/mutscreen/vcf"
)

// A noiseHistogram groups samples by identical depth value at the
// mutant allele.
type noiseHistogram struct {
	depths  []int      // distinct depths, ascending
	freqs   []int      // number of samples at each depth
	samples [][]string // sorted sample ids at each depth
}

// noiseHistogram builds the depth histogram over the background
// samples. With sameGroup false, same-group background samples are
// excluded when grouping is active; with sameGroup true, only they
// are included.
func (s *Screener) noiseHistogram(part *SamplePartition, sameGroup bool, group string) (h noiseHistogram) {
	byDepth := make(map[int][]string)
	for i, ok := part.Background.NextSet(0); ok; i, ok = part.Background.NextSet(i + 1) {
		if s.grouping {
			if (s.groups[i] == group) != sameGroup {
				continue
			}
		} else if sameGroup {
			continue
		}
		byDepth[part.Depths[i]] = append(byDepth[part.Depths[i]], s.samples[i])
	}
	h.depths = make([]int, 0, len(byDepth))
	for depth := range byDepth {
		h.depths = append(h.depths, depth)
	}
	sort.Ints(h.depths)
	for _, depth := range h.depths {
		names := byDepth[depth]
		sort.Strings(names)
		h.freqs = append(h.freqs, len(names))
		h.samples = append(h.samples, names)
	}
	return h
}

func (h noiseHistogram) format() (depths, freqs, samples string) {
	depthList := make([]string, len(h.depths))
	freqList := make([]string, len(h.freqs))
	sampleList := make([]string, len(h.samples))
	for i := range h.depths {
		depthList[i] = strconv.Itoa(h.depths[i])
		freqList[i] = strconv.Itoa(h.freqs[i])
		sampleList[i] = strings.Join(h.samples[i], "/")
	}
	return strings.Join(depthList, ","), strings.Join(freqList, ","), strings.Join(sampleList, ",")
}

// mean returns the frequency-weighted mean background depth.
func (h noiseHistogram) mean() float64 {
	depths := make([]float64, len(h.depths))
	weights := make([]float64, len(h.freqs))
	for i := range h.depths {
		depths[i] = float64(h.depths[i])
		weights[i] = float64(h.freqs[i])
	}
	return stat.Mean(depths, weights)
}

func (s *Screener) missingNames(part *SamplePartition) []string {
	names := make([]string, 0, part.MissingCount())
	for i, ok := part.Missing.NextSet(0); ok; i, ok = part.Missing.NextSet(i + 1) {
		names = append(names, s.samples[i])
	}
	sort.Strings(names)
	return names
}

func formatSampleList(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// The annotation field names added to the INFO column.
const (
	mutantAlleleField     = "MUT"
	ratioField            = "RATIO"
	backgroundDepthsField = "BGD"
	backgroundFreqsField  = "BGF"
	backgroundNamesField  = "BGS"
	backgroundMeanField   = "BGAVG"
	missingCountField     = "NMISS"
	missingNamesField     = "MISSING"
	sharedField           = "SHARED"
	groupField            = "GRP"
	groupDepthsField      = "GBGD"
	groupFreqsField       = "GBGF"
	groupNamesField       = "GBGS"
)

// The shared-mutation descriptor joins the candidate genotype strings
// with a separator distinct from the list separator.
const sharedSeparator = "|"

// annotate derives the INFO annotation fields for a surviving allele.
func (s *Screener) annotate(rec *vcf.Record, allele int, part *SamplePartition) string {
	fields := []string{mutantAlleleField + "=" + rec.Allele(allele)}
	if part.CandidateCount() == 1 {
		// The ratio is ambiguous across multiple candidates and is
		// only reported for a lone candidate.
		i, _ := part.Candidate.NextSet(0)
		if ratio := part.Ratios[i]; ratio >= 0 {
			fields = append(fields, ratioField+"="+strconv.FormatFloat(ratio, 'f', -1, 64))
		}
	}
	group := ""
	if s.grouping {
		group, _ = s.candidateGroup(part)
	}
	if background := s.noiseHistogram(part, false, group); len(background.depths) > 0 {
		depths, freqs, samples := background.format()
		fields = append(fields,
			backgroundDepthsField+"="+depths,
			backgroundFreqsField+"="+freqs,
			backgroundNamesField+"="+samples,
			backgroundMeanField+"="+strconv.FormatFloat(background.mean(), 'f', 2, 64),
		)
	}
	fields = append(fields,
		missingCountField+"="+strconv.Itoa(part.MissingCount()),
		missingNamesField+"="+formatSampleList(s.missingNames(part)),
	)
	if part.CandidateCount() > 1 {
		descriptor := []string{strconv.Itoa(part.CandidateCount())}
		for i, ok := part.Candidate.NextSet(0); ok; i, ok = part.Candidate.NextSet(i + 1) {
			descriptor = append(descriptor, rec.Samples[i])
		}
		fields = append(fields, sharedField+"="+strings.Join(descriptor, sharedSeparator))
	}
	if s.grouping {
		fields = append(fields, groupField+"="+group)
		if sameGroup := s.noiseHistogram(part, true, group); len(sameGroup.depths) > 0 {
			depths, freqs, samples := sameGroup.format()
			fields = append(fields,
				groupDepthsField+"="+depths,
				groupFreqsField+"="+freqs,
				groupNamesField+"="+samples,
			)
		}
	}
	info := strings.Join(fields, ";")
	if s.settings.AppendInfo && rec.Info != "" && rec.Info != "." {
		return rec.Info + ";" + info
	}
	return info
}
