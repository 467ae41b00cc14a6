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

package cmd

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/exascience/pargo/pipeline"
	"github.com/google/uuid"

	"github.com/compgen/mutscreen/filters"
	"github.com/compgen/mutscreen/internal"
	"github.com/compgen/mutscreen/vcf"
)

// ScreenHelp is the help string for the mutscreen screen command.
const ScreenHelp = "\nscreen parameters:\n" +
	"mutscreen screen vcf-file [vcf-output-file]\n" +
	"[--quality-floor qual]\n" +
	"[--min-supporting-depth nr]\n" +
	"[--min-plus-depth nr]\n" +
	"[--min-minus-depth nr]\n" +
	"[--min-library-count nr]\n" +
	"[--min-library-depth nr]\n" +
	"[--min-split-support nr]\n" +
	"[--max-missing nr]\n" +
	"[--max-background-depth nr]\n" +
	"[--max-background-percentage pct]\n" +
	"[--max-total-background nr]\n" +
	"[--max-shared nr]\n" +
	"[--group-file file]\n" +
	"[--exclude-ref]\n" +
	"[--controls list]\n" +
	"[--mask-only list]\n" +
	"[--min-indel-length nr]\n" +
	"[--max-indel-length nr]\n" +
	"[--append-info]\n" +
	"[--nr-of-threads nr]\n" +
	"[--timed]\n" +
	"[--profile file]\n" +
	"[--log-path path]\n"

const (
	minBatchSize = 512
	maxBatchSize = 4096
)

// Screen implements the mutscreen screen command.
func Screen() error {
	var (
		qualityFloor                     float64
		minSupportingDepth               int
		minPlusDepth, minMinusDepth      int
		minLibraryCount, minLibraryDepth int
		minSplitSupport                  int
		maxMissing                       int
		maxBackgroundDepth               int
		maxBackgroundPercentage          float64
		maxTotalBackground               int
		maxShared                        int
		groupFile                        string
		excludeRef                       bool
		controls                         string
		maskOnly                         string
		minIndelLength, maxIndelLength   int
		appendInfo                       bool
		nrOfThreads                      int
		timed                            bool
		profile                          string
		logPath                          string
	)

	var flags flag.FlagSet

	flags.Float64Var(&qualityFloor, "quality-floor", 0, "minimum QUAL for a record to be evaluated")
	flags.IntVar(&minSupportingDepth, "min-supporting-depth", 0, "minimum depth at the mutant allele for a candidate sample")
	flags.IntVar(&minPlusDepth, "min-plus-depth", 0, "minimum plus strand depth at the mutant allele")
	flags.IntVar(&minMinusDepth, "min-minus-depth", 0, "minimum minus strand depth at the mutant allele")
	flags.IntVar(&minLibraryCount, "min-library-count", 0, "minimum number of replicate libraries supporting the mutation")
	flags.IntVar(&minLibraryDepth, "min-library-depth", 0, "minimum per-library depth for a library to count as supporting")
	flags.IntVar(&minSplitSupport, "min-split-support", 0, "minimum split read support at the mutant allele")
	flags.IntVar(&maxMissing, "max-missing", -1, "maximum number of compare samples without data")
	flags.IntVar(&maxBackgroundDepth, "max-background-depth", 1, "per-sample background depth ceiling")
	flags.Float64Var(&maxBackgroundPercentage, "max-background-percentage", -1, "per-sample background percentage ceiling; takes precedence over the depth ceiling")
	flags.IntVar(&maxTotalBackground, "max-total-background", -1, "total background depth ceiling")
	flags.IntVar(&maxShared, "max-shared", 0, "maximum number of samples sharing a mutation")
	flags.StringVar(&groupFile, "group-file", "", "file with sample_id group_id pairs; enables group-specific screening")
	flags.BoolVar(&excludeRef, "exclude-ref", false, "never report mutations of the reference allele")
	flags.StringVar(&controls, "controls", "", "comma-separated control sample ids")
	flags.StringVar(&maskOnly, "mask-only", "", "comma-separated filter tags that mask records rather than drop them")
	flags.IntVar(&minIndelLength, "min-indel-length", 0, "minimum indel length for an allele to be evaluated")
	flags.IntVar(&maxIndelLength, "max-indel-length", 0, "maximum indel length for an allele to be evaluated")
	flags.BoolVar(&appendInfo, "append-info", false, "append the annotation fields to the original INFO column instead of replacing it")
	flags.IntVar(&nrOfThreads, "nr-of-threads", 0, "number of worker threads")
	flags.BoolVar(&timed, "timed", false, "measure the runtime")
	flags.StringVar(&profile, "profile", "", "write a runtime profile to the specified file(s)")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")

	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, ScreenHelp)
		os.Exit(1)
	}
	input := getFilename(os.Args[2], ScreenHelp)
	output := "/dev/stdout"
	requiredArgs := 3
	if len(os.Args) > 3 && !strings.HasPrefix(os.Args[3], "-") {
		output = os.Args[3]
		requiredArgs = 4
	}
	parseFlags(flags, requiredArgs, ScreenHelp)

	sanityChecksPassed := checkExist("", input)
	if output != "/dev/stdout" {
		sanityChecksPassed = checkCreate("", output) && sanityChecksPassed
	}
	if groupFile != "" {
		sanityChecksPassed = checkExist("--group-file", groupFile) && sanityChecksPassed
	}
	maskOnlySet, err := filters.ParseMaskOnly(maskOnly)
	if err != nil {
		log.Println("Error: ", err)
		sanityChecksPassed = false
	}
	if !sanityChecksPassed {
		fmt.Fprint(os.Stderr, ScreenHelp)
		os.Exit(1)
	}

	settings := filters.DefaultSettings()
	settings.QualityFloor = qualityFloor
	settings.MinSupportingDepth = minSupportingDepth
	settings.MinPlusDepth = minPlusDepth
	settings.MinMinusDepth = minMinusDepth
	settings.MinLibraryCount = minLibraryCount
	settings.MinLibraryDepth = minLibraryDepth
	settings.MinSplitSupport = minSplitSupport
	settings.MaxMissing = maxMissing
	settings.MaxBackgroundDepth = maxBackgroundDepth
	settings.MaxBackgroundPercentage = maxBackgroundPercentage
	settings.MaxTotalBackground = maxTotalBackground
	settings.MaxShared = maxShared
	settings.GroupFile = groupFile
	settings.ExcludeRef = excludeRef
	settings.MaskOnly = maskOnlySet
	settings.MinIndelLength = minIndelLength
	settings.MaxIndelLength = maxIndelLength
	settings.AppendInfo = appendInfo
	if controls != "" {
		settings.Controls = strings.Split(controls, ",")
	}

	runID := uuid.New().String()
	setLogOutput(logPath, runID)

	if nrOfThreads > 0 {
		runtime.GOMAXPROCS(nrOfThreads)
	}

	return timedRun(timed, profile, "Screening variants.", 1, func() (err error) {
		pathname, err := internal.FullPathname(input)
		if err != nil {
			return err
		}
		in, err := vcf.Open(pathname)
		if err != nil {
			return err
		}
		defer func() {
			nerr := in.Close()
			if err == nil {
				err = nerr
			}
		}()
		hdr, _, err := vcf.ParseHeader(in.Reader)
		if err != nil {
			return err
		}
		if len(hdr.Samples()) == 0 {
			return fmt.Errorf("no sample columns in %v", input)
		}
		screener, err := filters.NewScreener(settings, hdr.Samples(), nil)
		if err != nil {
			return err
		}
		out, err := vcf.Create(output)
		if err != nil {
			return err
		}
		defer func() {
			nerr := out.Close()
			if err == nil {
				err = nerr
			}
		}()
		outHdr := screener.OutputHeader(hdr, strings.Join(os.Args, " "), runID)
		if err := outHdr.Format(out.Writer); err != nil {
			return err
		}
		var p pipeline.Pipeline
		p.Source(in)
		p.SetVariableBatchSize(minBatchSize, maxBatchSize)
		p.Add(
			pipeline.LimitedPar(0, pipeline.Receive(func(_ int, data interface{}) interface{} {
				lines := data.([]string)
				records := make([][]byte, 0, len(lines))
				var buf []byte
				for _, line := range lines {
					rec, err := vcf.ParseRecord(line)
					if err != nil {
						p.SetErr(fmt.Errorf("%v, while parsing VCF record %v", err, line))
						return records
					}
					result, err := screener.Screen(rec)
					if err != nil {
						p.SetErr(err)
						return records
					}
					if result == nil {
						continue
					}
					buf = result.Format(buf[:0])
					records = append(records, append([]byte(nil), buf...))
				}
				return records
			})),
			pipeline.StrictOrd(pipeline.Receive(func(_ int, data interface{}) interface{} {
				var err error
				for _, record := range data.([][]byte) {
					_, err = out.Write(record)
				}
				if err != nil {
					p.SetErr(fmt.Errorf("%v, while writing VCF records to output", err))
				}
				return data
			})),
		)
		p.Run()
		return p.Err()
	})
}
