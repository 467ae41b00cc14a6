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

import (
	"bufio"
	"bytes"
	"reflect"
	"strings"
	"testing"
)

const testHeader = "##fileformat=VCFv4.2\n" +
	"##contig=<ID=chr1,length=248956422>\n" +
	"##FORMAT=<ID=GT,Number=1,Type=String,Description=\"Genotype\">\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\tS2\n"

func TestParseHeader(t *testing.T) {
	hdr, lines, err := ParseHeader(bufio.NewReader(strings.NewReader(testHeader)))
	if err != nil {
		t.Fatal(err)
	}
	if lines != 4 {
		t.Error("wrong number of header lines: ", lines)
	}
	if hdr.FileFormat != "##fileformat=VCFv4.2" {
		t.Error("wrong file format line: ", hdr.FileFormat)
	}
	if len(hdr.MetaLines) != 2 {
		t.Error("wrong number of meta lines: ", len(hdr.MetaLines))
	}
	if !reflect.DeepEqual(hdr.Samples(), []string{"S1", "S2"}) {
		t.Error("wrong sample columns: ", hdr.Samples())
	}
}

func TestParseHeaderErrors(t *testing.T) {
	invalid := []string{
		"chr1\t100\t.\tA\tT\t.\t.\t.\tGT\t0/1\n",
		"##fileformat=VCFv4.2\n",
		"##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n",
	}
	for _, contents := range invalid {
		if _, _, err := ParseHeader(bufio.NewReader(strings.NewReader(contents))); err == nil {
			t.Error("invalid header not reported: ", contents)
		}
	}
}

func TestFormatHeader(t *testing.T) {
	hdr, _, err := ParseHeader(bufio.NewReader(strings.NewReader(testHeader)))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	out := bufio.NewWriter(&buf)
	if err = hdr.Format(out); err != nil {
		t.Fatal(err)
	}
	if err = out.Flush(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != testHeader {
		t.Error("header round trip mismatch: ", buf.String())
	}
}

func TestParseRecord(t *testing.T) {
	rec, err := ParseRecord("chr1\t100\trs1\tA\tT,G\t50.5\tPASS\tDP=18\tGT:AD\t0/1:5,3\t0/0:10,0")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Chrom != "chr1" || rec.Pos != 100 || rec.ID != "rs1" {
		t.Error("wrong record coordinates: ", rec)
	}
	if rec.Ref != "A" || !reflect.DeepEqual(rec.Alt, []string{"T", "G"}) {
		t.Error("wrong record alleles: ", rec)
	}
	if rec.AlleleCount() != 3 || rec.Allele(0) != "A" || rec.Allele(2) != "G" {
		t.Error("wrong allele indexing")
	}
	if qual, ok := rec.QualValue(); !ok || qual != 50.5 {
		t.Error("wrong quality value: ", rec.Qual)
	}
	if !reflect.DeepEqual(rec.GenotypeFormat, []string{"GT", "AD"}) {
		t.Error("wrong format declaration: ", rec.GenotypeFormat)
	}
	if !reflect.DeepEqual(rec.Samples, []string{"0/1:5,3", "0/0:10,0"}) {
		t.Error("wrong sample columns: ", rec.Samples)
	}
}

func TestFormatRecord(t *testing.T) {
	lines := []string{
		"chr1\t100\trs1\tA\tT,G\t50.5\tPASS\tDP=18\tGT:AD\t0/1:5,3\t0/0:10,0",
		"chr2\t200\t.\tG\t.\t.\t.\t.\tGT:AD\t./.",
	}
	for _, line := range lines {
		rec, err := ParseRecord(line)
		if err != nil {
			t.Fatal(err)
		}
		if formatted := string(rec.Format(nil)); formatted != line+"\n" {
			t.Error("record round trip mismatch: ", formatted)
		}
	}
}

func TestParseRecordTruncated(t *testing.T) {
	truncated := []string{
		"chr1\t100\t.\tA\t.",
		"chr1\t100\t.\tA\tT",
		"chr1\t100\t.\tA\tT\t50",
		"chr1\t100",
	}
	for _, line := range truncated {
		if _, err := ParseRecord(line); err == nil {
			t.Error("truncated data line not reported: ", line)
		}
	}
}

func TestQualValueMissing(t *testing.T) {
	rec := &Record{Qual: "."}
	if _, ok := rec.QualValue(); ok {
		t.Error("missing quality entry not reported")
	}
}
