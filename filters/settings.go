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
	"strings"

	"github.com/compgen/mutscreen/utils"
)

// FilterKind identifies one check of the screening battery.
type FilterKind int

// The filter kinds, in evaluation order.
const (
	LowDepth FilterKind = iota
	StrandBias
	LibraryBias
	LowSplitSupport
	NoControlData
	SharedMutation
	HighMissing
	NonSpecific
	nofFilterKinds
)

var filterTags = [nofFilterKinds]utils.Symbol{
	utils.Intern("LowDepth"),
	utils.Intern("StrandBias"),
	utils.Intern("LibraryBias"),
	utils.Intern("LowSplitSupport"),
	utils.Intern("NoControlData"),
	utils.Intern("Shared"),
	utils.Intern("HighMissing"),
	utils.Intern("NonSpecific"),
}

// Tag returns the FILTER column tag for this filter kind.
func (kind FilterKind) Tag() utils.Symbol {
	return filterTags[kind]
}

func (kind FilterKind) String() string {
	return *filterTags[kind]
}

// ParseFilterKind maps a FILTER tag name to its filter kind.
func ParseFilterKind(name string) (FilterKind, error) {
	for kind := FilterKind(0); kind < nofFilterKinds; kind++ {
		if strings.EqualFold(name, *filterTags[kind]) {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown filter kind %v", name)
}

// Settings is the immutable run-wide configuration. A zero value for
// a ceiling or minimum disables the corresponding check, except where
// noted: ceilings for which zero is a meaningful value use -1 as
// their disabled value.
type Settings struct {
	QualityFloor       float64 // minimum QUAL; <= 0 disables
	MinSupportingDepth int     // minimum candidate depth at the mutant allele
	MinPlusDepth       int     // minimum plus-strand depth (ADF)
	MinMinusDepth      int     // minimum minus-strand depth (ADR)
	MinLibraryCount    int     // minimum number of replicate libraries (LBN/LBD)
	MinLibraryDepth    int     // minimum per-library depth
	MinSplitSupport    int     // minimum split-read support (SR)

	MaxMissing              int     // maximum missing compare samples; -1 disables
	MaxBackgroundDepth      int     // per-sample background depth ceiling; default 1
	MaxBackgroundPercentage float64 // per-sample background percentage ceiling; -1 disables
	MaxTotalBackground      int     // total background depth ceiling; -1 disables
	MaxShared               int     // shared-sample frequency ceiling; 0 disables

	MinIndelLength int // 0 disables
	MaxIndelLength int // 0 disables

	GroupFile  string
	ExcludeRef bool
	Controls   []string
	MaskOnly   map[FilterKind]bool
	AppendInfo bool
}

// DefaultSettings returns a Settings value with all checks disabled
// and the default per-sample background depth ceiling.
func DefaultSettings() *Settings {
	return &Settings{
		MaxMissing:              -1,
		MaxBackgroundDepth:      1,
		MaxBackgroundPercentage: -1,
		MaxTotalBackground:      -1,
		MaskOnly:                make(map[FilterKind]bool),
	}
}

// ParseMaskOnly parses a comma-separated list of FILTER tag names
// into the mask-only set.
func ParseMaskOnly(list string) (map[FilterKind]bool, error) {
	maskOnly := make(map[FilterKind]bool)
	if list == "" {
		return maskOnly, nil
	}
	for _, name := range strings.Split(list, ",") {
		kind, err := ParseFilterKind(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		maskOnly[kind] = true
	}
	return maskOnly, nil
}
