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
	"io/ioutil"
	"path/filepath"
	"testing"
)

func writeGroupFile(t *testing.T, contents string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "groups.txt")
	if err := ioutil.WriteFile(name, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestReadGroupFile(t *testing.T) {
	name := writeGroupFile(t, "# family assignments\nS1 fam1\nS2\tfam1\n\nS3 fam2 trailing\n")
	groups, err := ReadGroupFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 3 {
		t.Error("wrong number of group assignments: ", len(groups))
	}
	if groups["S1"] != "fam1" || groups["S2"] != "fam1" || groups["S3"] != "fam2" {
		t.Error("wrong group assignments: ", groups)
	}
}

func TestReadGroupFileMissingGroup(t *testing.T) {
	name := writeGroupFile(t, "S1 fam1\nS2\n")
	if _, err := ReadGroupFile(name); err == nil {
		t.Error("missing group id not reported")
	}
}
