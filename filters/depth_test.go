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
	"reflect"
	"testing"
)

func TestDetectDepthEncoding(t *testing.T) {
	cases := []struct {
		format   []string
		encoding DepthEncoding
	}{
		{[]string{"GT", "AD", "DP"}, EncodingAlleleDepth},
		{[]string{"GT", "AD", "NR", "NV"}, EncodingAlleleDepth},
		{[]string{"GT", "NR", "NV"}, EncodingReadCounts},
		{[]string{"GT", "NR"}, EncodingNone},
		{[]string{"GT", "DR", "DV", "RR", "RV"}, EncodingPairedJunction},
		{[]string{"GT", "DR", "DV", "RR", "PR"}, EncodingPairedSupport},
		{[]string{"GT", "PR"}, EncodingPairedSupport},
		{[]string{"GT", "DP", "GQ"}, EncodingNone},
	}
	for _, c := range cases {
		if encoding := DetectDepthEncoding(c.format); encoding != c.encoding {
			t.Error("wrong depth encoding for ", c.format, ": ", encoding)
		}
	}
}

func TestNormalizeAlleleDepths(t *testing.T) {
	format := []string{"GT", "AD"}
	depths, ok := NormalizeDepths(EncodingAlleleDepth, format, "0/1:5,3", 2, ZeroFillFixer{})
	if !ok || !reflect.DeepEqual(depths, DepthVector{5, 3}) {
		t.Error("wrong allele depths: ", depths)
	}
	depths, ok = NormalizeDepths(EncodingAlleleDepth, format, "0/1:5,3", 3, ZeroFillFixer{})
	if !ok || !reflect.DeepEqual(depths, DepthVector{5, 3, 0}) {
		t.Error("short allele depth vector not zero-filled: ", depths)
	}
	if _, ok = NormalizeDepths(EncodingAlleleDepth, format, "./.", 2, ZeroFillFixer{}); ok {
		t.Error("sample without an allele depth entry not reported as missing")
	}
	if _, ok = NormalizeDepths(EncodingAlleleDepth, format, "./.:.", 2, ZeroFillFixer{}); ok {
		t.Error("sample with a dot allele depth entry not reported as missing")
	}
	if _, ok = NormalizeDepths(EncodingAlleleDepth, format, "0/1:a,b", 2, ZeroFillFixer{}); ok {
		t.Error("sample with a malformed allele depth entry not reported as missing")
	}
}

func TestNormalizeReadCounts(t *testing.T) {
	format := []string{"GT", "NR", "NV"}
	depths, ok := NormalizeDepths(EncodingReadCounts, format, "0/1:10:4", 2, ZeroFillFixer{})
	if !ok || !reflect.DeepEqual(depths, DepthVector{6, 4}) {
		t.Error("wrong read count depths: ", depths)
	}
	depths, ok = NormalizeDepths(EncodingReadCounts, format, "1/1:3:5", 2, ZeroFillFixer{})
	if !ok || !reflect.DeepEqual(depths, DepthVector{0, 5}) {
		t.Error("reference depth not clamped to zero: ", depths)
	}
	if _, ok = NormalizeDepths(EncodingReadCounts, format, "./.:.:.", 2, ZeroFillFixer{}); ok {
		t.Error("sample without read counts not reported as missing")
	}
}

func TestNormalizePairedJunction(t *testing.T) {
	format := []string{"GT", "DR", "DV", "RR", "RV"}
	depths, ok := NormalizeDepths(EncodingPairedJunction, format, "0/1:10:2:5:3", 2, ZeroFillFixer{})
	if !ok || !reflect.DeepEqual(depths, DepthVector{15, 5}) {
		t.Error("paired and junction counts not summed: ", depths)
	}
	if _, ok = NormalizeDepths(EncodingPairedJunction, format, "0/1:10:2:5:.", 2, ZeroFillFixer{}); ok {
		t.Error("sample with a missing junction count not reported as missing")
	}
}

func TestNormalizePairedSupport(t *testing.T) {
	format := []string{"GT", "PR"}
	depths, ok := NormalizeDepths(EncodingPairedSupport, format, "0/1:12,3", 2, ZeroFillFixer{})
	if !ok || !reflect.DeepEqual(depths, DepthVector{12, 3}) {
		t.Error("wrong paired support depths: ", depths)
	}
}

func TestDepthVectorTotal(t *testing.T) {
	if total := (DepthVector{5, 3, 1}).Total(); total != 9 {
		t.Error("wrong total depth: ", total)
	}
	if total := (DepthVector{}).Total(); total != 0 {
		t.Error("wrong total depth for an empty vector: ", total)
	}
}
