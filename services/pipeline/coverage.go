package pipeline

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"gnomad/pipeline/models/constants/chromosome"
	"gnomad/pipeline/models/variants"

	"github.com/pkg/errors"
)

const (
	locusColumn        = "locus"
	meanColumn         = "mean"
	medianColumn       = "median"
	medianApproxColumn = "median_approx"
)

// CoverageTable maps a locus to the coverage of one modality there.
type CoverageTable map[string]variants.CoverageDetail

func locusKey(contig string, position int) string {
	return variants.Locus{Contig: chromosome.Clean(contig), Position: position}.String()
}

// Lookup returns the coverage at locus, or NoCoverage when the table
// has no row for it.
func (t CoverageTable) Lookup(locus variants.Locus) (variants.CoverageDetail, bool) {
	detail, ok := t[locusKey(locus.Contig, locus.Position)]
	if !ok {
		return variants.NoCoverage, false
	}
	return detail, true
}

// ReadCoverageTable reads a tab separated coverage table with a header
// naming locus, mean, median (or median_approx) and every over_N column.
// Every row is validated; the first bad row fails the whole read.
func ReadCoverageTable(r io.Reader) (CoverageTable, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, errors.Wrap(err, "reading coverage header")
		}
		return nil, errors.New("coverage table is empty")
	}

	columns, err := coverageColumns(strings.Split(strings.TrimRight(scanner.Text(), "\r"), "\t"))
	if err != nil {
		return nil, err
	}

	table := CoverageTable{}
	line := 1
	for scanner.Scan() {
		line++

		text := strings.TrimRight(scanner.Text(), "\r")
		if text == "" {
			continue
		}

		key, detail, err := parseCoverageRow(strings.Split(text, "\t"), columns)
		if err != nil {
			return nil, errors.Wrapf(err, "coverage line %d", line)
		}
		if _, dup := table[key]; dup {
			return nil, errors.Errorf("coverage line %d: duplicate locus %s", line, key)
		}
		table[key] = detail
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "coverage line %d", line+1)
	}

	return table, nil
}

type columnIndex struct {
	locus  int
	mean   int
	median int
	overs  [len(variants.Thresholds)]int
	width  int
}

func coverageColumns(header []string) (columnIndex, error) {
	positions := map[string]int{}
	for i, name := range header {
		positions[strings.TrimSpace(name)] = i
	}

	find := func(names ...string) (int, error) {
		for _, name := range names {
			if i, ok := positions[name]; ok {
				return i, nil
			}
		}
		return 0, errors.Errorf("coverage header is missing %s", strings.Join(names, " or "))
	}

	var (
		idx columnIndex
		err error
	)
	idx.width = len(header)
	if idx.locus, err = find(locusColumn); err != nil {
		return idx, err
	}
	if idx.mean, err = find(meanColumn); err != nil {
		return idx, err
	}
	if idx.median, err = find(medianColumn, medianApproxColumn); err != nil {
		return idx, err
	}
	for i, t := range variants.Thresholds {
		if idx.overs[i], err = find(variants.OverField(t)); err != nil {
			return idx, err
		}
	}
	return idx, nil
}

func parseCoverageRow(fields []string, idx columnIndex) (string, variants.CoverageDetail, error) {
	if len(fields) != idx.width {
		return "", variants.CoverageDetail{}, errors.Errorf("expected %d columns, got %d", idx.width, len(fields))
	}

	contig, position, err := parseLocus(fields[idx.locus])
	if err != nil {
		return "", variants.CoverageDetail{}, err
	}

	mean, err := strconv.ParseFloat(fields[idx.mean], 64)
	if err != nil {
		return "", variants.CoverageDetail{}, errors.Wrap(err, meanColumn)
	}

	median, err := parseMedian(fields[idx.median])
	if err != nil {
		return "", variants.CoverageDetail{}, errors.Wrap(err, medianColumn)
	}

	overs := make([]float64, len(variants.Thresholds))
	for i, t := range variants.Thresholds {
		if overs[i], err = strconv.ParseFloat(fields[idx.overs[i]], 64); err != nil {
			return "", variants.CoverageDetail{}, errors.Wrap(err, variants.OverField(t))
		}
	}

	detail, err := variants.NewCoverageDetail(mean, median, overs...)
	if err != nil {
		return "", variants.CoverageDetail{}, errors.Wrapf(err, "locus %s", fields[idx.locus])
	}
	return locusKey(contig, position), detail, nil
}

// parseLocus reads "contig:position", i.e. 13:32889617 or chr13:32889617
func parseLocus(s string) (string, int, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 {
		return "", 0, errors.Errorf("malformed locus %q", s)
	}
	position, err := strconv.Atoi(s[i+1:])
	if err != nil || position < 0 {
		return "", 0, errors.Errorf("malformed locus %q", s)
	}
	return s[:i], position, nil
}

// parseMedian accepts integral values written as floats (34.0)
func parseMedian(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, errors.Errorf("median %q is not an integer", s)
	}
	return int(f), nil
}
