package gazetteer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Column positions in the header-less UN/LOCODE CSV.
const (
	colChange = iota
	colCountry
	colLocation
	colName
	colNameASCII
	colSubdivision
	colFunction
	colStatus
	colDate
	colIATA
	colCoordinates
	colRemarks

	minColumns = colFunction + 1
)

// ReadCSV parses one UN/LOCODE code-list file. Rows with too few columns,
// no country, no name, or a "." name (country header rows) are skipped.
func ReadCSV(r io.Reader) ([]PortRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var out []PortRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return out, fmt.Errorf("read unlocode csv: %w", err)
		}
		if rec, ok := parseRow(row); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func parseRow(row []string) (PortRecord, bool) {
	if len(row) < minColumns {
		return PortRecord{}, false
	}
	col := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(strings.ToValidUTF8(row[i], "�"))
	}

	country := col(colCountry)
	name := col(colName)
	if country == "" || name == "" || strings.HasPrefix(name, ".") {
		return PortRecord{}, false
	}

	location := col(colLocation)
	nameASCII := col(colNameASCII)
	if nameASCII == "" {
		nameASCII = name
	}
	functions := parseFunctions(col(colFunction))
	coords := col(colCoordinates)
	lat, lon := ParseCoordinates(coords)

	rec := PortRecord{
		Locode:       country + location,
		CountryCode:  country,
		LocationCode: location,
		Name:         name,
		NameASCII:    nameASCII,
		Subdivision:  col(colSubdivision),
		Functions:    functions,
		Status:       col(colStatus),
		IATA:         col(colIATA),
		Coordinates:  coords,
		Lat:          lat,
		Lon:          lon,
	}
	for _, f := range functions {
		switch f {
		case FunctionPort:
			rec.IsPort = true
		case FunctionAirport:
			rec.IsAirport = true
		}
	}
	return rec, true
}

// ResolveFiles expands path into the CSV files to load: the file itself, or
// every "*UNLOCODE*.csv" in a directory, sorted by name.
func ResolveFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", path, err)
	}
	var files []string
	for _, e := range entries {
		n := e.Name()
		if !e.IsDir() && strings.Contains(n, "UNLOCODE") && strings.HasSuffix(n, ".csv") {
			files = append(files, filepath.Join(path, n))
		}
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("no *UNLOCODE*.csv files in %s", path)
	}
	return files, nil
}

// LoadFiles reads and concatenates every file.
func LoadFiles(files []string) ([]PortRecord, error) {
	var all []PortRecord
	for _, f := range files {
		fh, err := os.Open(f)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f, err)
		}
		recs, err := ReadCSV(fh)
		_ = fh.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		all = append(all, recs...)
	}
	return all, nil
}
