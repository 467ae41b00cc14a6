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
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

func getLine(reader *bufio.Reader) (line string, err error) {
	line, err = reader.ReadString('\n')
	switch {
	case err == nil:
		line = line[:len(line)-1]
	case err == io.EOF:
		err = nil
	}
	return
}

// ParseHeader parses a VCF header section. Meta-information lines are
// recorded verbatim, including lines this tool has no interpretation
// for; only the file format line and the column header line are
// checked.
func ParseHeader(reader *bufio.Reader) (hdr *Header, lines int, err error) {
	line, err := getLine(reader)
	if err != nil {
		return nil, 0, err
	}
	lines++
	if !strings.HasPrefix(line, fileFormatVersionLinePrefix) {
		return nil, 0, errors.New("invalid first line in a VCF file")
	}
	hdr = NewHeader()
	hdr.FileFormat = line
	for {
		data, e := reader.Peek(1)
		if e != nil {
			return nil, 0, errors.New("unexpected end of VCF header")
		}
		if data[0] != '#' {
			return nil, 0, errors.New("missing column header line in a VCF file")
		}
		line, err = getLine(reader)
		if err != nil {
			return nil, 0, err
		}
		lines++
		if !strings.HasPrefix(line, "##") {
			break
		}
		hdr.MetaLines = append(hdr.MetaLines, line)
	}
	hdr.Columns = strings.Split(line[1:], "\t")
	if len(hdr.Columns) < len(DefaultHeaderColumns) {
		return nil, 0, errors.New("too few columns in a VCF column header line")
	}
	return hdr, lines, nil
}

var altSeparator = []byte{',', '\t'}

// ParseRecord parses a VCF data line.
func ParseRecord(line string) (*Record, error) {
	var sc StringScanner
	sc.Reset(line)
	var rec Record
	rec.Chrom = sc.doString()
	rec.Pos = sc.doInt32()
	rec.ID = sc.doString()
	rec.Ref = sc.doString()
	rec.Alt = sc.doStringList(altSeparator)
	rec.Qual = sc.doString()
	rec.Filter = sc.doString()
	rec.Info = sc.doString()
	format, _ := sc.readUntilByte('\t')
	rec.GenotypeFormat = strings.Split(format, ":")
	for sc.Len() > 0 {
		sample, _ := sc.readUntilByte('\t')
		rec.Samples = append(rec.Samples, sample)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Format outputs a VCF header.
func (hdr *Header) Format(out *bufio.Writer) error {
	_, _ = out.WriteString(hdr.FileFormat)
	_ = out.WriteByte('\n')
	for _, meta := range hdr.MetaLines {
		_, _ = out.WriteString(meta)
		_ = out.WriteByte('\n')
	}
	_ = out.WriteByte('#')
	if len(hdr.Columns) > 0 {
		_, _ = out.WriteString(hdr.Columns[0])
		for _, col := range hdr.Columns[1:] {
			_ = out.WriteByte('\t')
			_, _ = out.WriteString(col)
		}
	}
	return out.WriteByte('\n')
}

func formatStringList(out []byte, list []string, separator byte) []byte {
	if len(list) == 0 {
		return append(out, '.')
	}
	out = append(out, list[0]...)
	for _, entry := range list[1:] {
		out = append(out, separator)
		out = append(out, entry...)
	}
	return out
}

// Format outputs a VCF data line.
func (rec *Record) Format(out []byte) []byte {
	out = append(append(out, rec.Chrom...), '\t')
	if rec.Pos < 0 {
		out = append(out, '.', '\t')
	} else {
		out = append(strconv.AppendInt(out, int64(rec.Pos), 10), '\t')
	}
	out = append(append(out, rec.ID...), '\t')
	out = append(append(out, rec.Ref...), '\t')
	out = append(formatStringList(out, rec.Alt, ','), '\t')
	out = append(append(out, rec.Qual...), '\t')
	out = append(append(out, rec.Filter...), '\t')
	out = append(append(out, rec.Info...), '\t')
	out = formatStringList(out, rec.GenotypeFormat, ':')
	for _, sample := range rec.Samples {
		out = append(out, '\t')
		out = append(out, sample...)
	}
	return append(out, '\n')
}

// The possible file extensions for VCF or BCF files, or gz-compressed VCF files
const (
	VcfExt = ".vcf"
	BcfExt = ".bcf"
	GzExt  = ".gz"
)

// InputFile represents a VCF or BCF file for input. It acts as a
// pargo pipeline source producing batches of data lines.
type InputFile struct {
	rc io.ReadCloser
	*bufio.Reader
	*exec.Cmd
	data interface{}
}

// OutputFile represents a VCF or BCF file for output.
type OutputFile struct {
	wc io.WriteCloser
	*bufio.Writer
	*exec.Cmd
}

// Open a VCF file for input.
//
// If the filename extension is .bcf or .gz, use bcftools view for
// input. bcftools must be visible in the directories named by the
// PATH environment variable in that case.
//
// If the filename extension is not .bcf or .gz, then .vcf is always
// assumed.
//
// If the name is "/dev/stdin", then the input is read from os.Stdin
func Open(name string) (*InputFile, error) {
	switch filepath.Ext(name) {
	case BcfExt, GzExt:
		if _, err := os.Stat(name); os.IsNotExist(err) {
			return nil, err
		}
		args := []string{"view", "--threads", strconv.FormatInt(int64(runtime.GOMAXPROCS(0)), 10), name}
		cmd := exec.Command("bcftools", args...)
		outPipe, err := cmd.StdoutPipe()
		if err != nil {
			return nil, err
		}
		if err = cmd.Start(); err != nil {
			return nil, err
		}
		return &InputFile{rc: outPipe, Reader: bufio.NewReader(outPipe), Cmd: cmd}, nil
	default:
		if name == "/dev/stdin" {
			return &InputFile{rc: os.Stdin, Reader: bufio.NewReader(os.Stdin)}, nil
		}
		file, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		return &InputFile{rc: file, Reader: bufio.NewReader(file)}, nil
	}
}

// Create a VCF file for output.
//
// If the filename extension is .bcf or .gz, use bcftools view for
// output. bcftools must be visible in the directories named by the
// PATH environment variable in that case.
//
// If the name is "/dev/stdout", then the output is written to
// os.Stdout.
func Create(name string) (*OutputFile, error) {
	switch ext := filepath.Ext(name); ext {
	case BcfExt, GzExt:
		args := []string{"view"}
		if ext == BcfExt {
			args = append(args, "-Ob")
		} else {
			args = append(args, "-Oz")
		}
		args = append(args, "--threads", strconv.FormatInt(int64(runtime.GOMAXPROCS(0)), 10), "-o", name, "-")
		cmd := exec.Command("bcftools", args...)
		inPipe, err := cmd.StdinPipe()
		if err != nil {
			return nil, err
		}
		if err = cmd.Start(); err != nil {
			return nil, err
		}
		return &OutputFile{wc: inPipe, Writer: bufio.NewWriter(inPipe), Cmd: cmd}, nil
	default:
		if name == "/dev/stdout" {
			return &OutputFile{wc: os.Stdout, Writer: bufio.NewWriter(os.Stdout)}, nil
		}
		file, err := os.Create(name)
		if err != nil {
			return nil, err
		}
		return &OutputFile{wc: file, Writer: bufio.NewWriter(file)}, nil
	}
}

// Err implements the method of the pipeline.Source interface.
func (input *InputFile) Err() error {
	return nil
}

// Prepare implements the method of the pipeline.Source interface.
func (input *InputFile) Prepare(_ context.Context) int {
	return -1
}

// Fetch implements the method of the pipeline.Source interface. It
// fetches up to size data lines from the input.
func (input *InputFile) Fetch(size int) (fetched int) {
	lines := make([]string, 0, size)
	for fetched < size {
		line, err := input.ReadString('\n')
		if err != nil && err != io.EOF {
			log.Panic(err)
		}
		line = strings.TrimSuffix(line, "\n")
		if line != "" {
			lines = append(lines, line)
			fetched++
		}
		if err == io.EOF {
			break
		}
	}
	input.data = lines
	return fetched
}

// Data implements the method of the pipeline.Source interface.
func (input *InputFile) Data() interface{} {
	return input.data
}

// Close the VCF input file. If bcftools view is used for input, wait
// for its process to finish.
func (input *InputFile) Close() error {
	if input.rc != os.Stdin {
		if err := input.rc.Close(); err != nil {
			return err
		}
	}
	if input.Cmd != nil {
		return input.Wait()
	}
	return nil
}

// Close the VCF output file. If bcftools view is used for output,
// wait for its process to finish.
func (output *OutputFile) Close() error {
	if err := output.Flush(); err != nil {
		return err
	}
	if output.wc != os.Stdout {
		if err := output.wc.Close(); err != nil {
			return err
		}
	}
	if output.Cmd != nil {
		return output.Wait()
	}
	return nil
}
