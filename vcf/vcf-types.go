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

package vcf

import "strconv"

// The supported VCF file format version prefix.
const fileFormatVersionLinePrefix = "##fileformat=VCFv4."

// DefaultHeaderColumns for VCF files with genotype data.
var DefaultHeaderColumns = []string{"CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO", "FORMAT"}

// SampleColumnOffset is the column index of the first sample column.
const SampleColumnOffset = 9

type (
	// Header section of a VCF file. Meta-information lines are kept
	// verbatim so that lines this tool does not understand pass
	// through unchanged.
	Header struct {
		FileFormat string
		MetaLines  []string
		Columns    []string
	}

	// Record is one data line of a VCF file. The per-sample genotype
	// fields are kept as raw strings; interpreting them is left to
	// the screening engine.
	Record struct {
		Chrom          string
		Pos            int32 // < 0 if unknown
		ID             string
		Ref            string
		Alt            []string // nil/empty if missing
		Qual           string   // "." if missing
		Filter         string
		Info           string
		GenotypeFormat []string // FORMAT tag names, in declaration order
		Samples        []string // raw genotype strings, one per sample column
	}
)

// NewHeader creates an empty instance.
func NewHeader() *Header {
	return &Header{Columns: DefaultHeaderColumns}
}

// Samples returns the sample names declared in the column header line.
func (hdr *Header) Samples() []string {
	if len(hdr.Columns) <= SampleColumnOffset {
		return nil
	}
	return hdr.Columns[SampleColumnOffset:]
}

// QualValue returns the quality score as a number. The second return
// value is false when the quality entry is missing or not numeric.
func (rec *Record) QualValue() (float64, bool) {
	if rec.Qual == "" || rec.Qual == "." {
		return 0, false
	}
	q, err := strconv.ParseFloat(rec.Qual, 64)
	if err != nil {
		return 0, false
	}
	return q, true
}

// AlleleCount returns the number of alleles at this record, the
// reference allele included.
func (rec *Record) AlleleCount() int {
	return len(rec.Alt) + 1
}

// Allele returns the allele sequence for the given allele index,
// where index 0 is the reference allele.
func (rec *Record) Allele(index int) string {
	if index == 0 {
		return rec.Ref
	}
	return rec.Alt[index-1]
}
