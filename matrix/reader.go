package matrix

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// ReadDistanceFile loads a PHYLIP-style distance matrix from path.
// Files ending in ".gz" are decompressed transparently. The layout
// (square, upper or lower triangular) is detected from the row widths;
// triangular input is mirrored into a full symmetric matrix.
func ReadDistanceFile(path string) (*FlatMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w: %v", path, ErrIO, err)
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zip, zerr := gzip.NewReader(f)
		if zerr != nil {
			return nil, fmt.Errorf("opening gzip stream %q: %w: %v", path, ErrIO, zerr)
		}
		defer zip.Close()
		src = zip
	}

	return ReadDistancesFrom(src)
}

// ReadDistancesFrom parses a distance matrix from r: a taxon count on
// the first line, then one line per taxon holding the name followed by
// that row's distances. Row widths decide the layout: N values per row
// is square, N-1-i is upper triangular, i is lower triangular.
// Triangular rows are mirrored; the diagonal is forced to zero.
func ReadDistancesFrom(r io.Reader) (*FlatMatrix, error) {
	scan := bufio.NewScanner(r)
	scan.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	count, err := readTaxonCount(scan)
	if err != nil {
		return nil, err
	}

	m := NewFlatMatrix()
	if err = m.SetSize(count); err != nil {
		return nil, err
	}

	layout := "" // decided by the first row's width
	for row := 0; row < count; row++ {
		name, values, rerr := readMatrixRow(scan, row)
		if rerr != nil {
			return nil, rerr
		}
		m.AddCluster(name)
		if layout == "" {
			layout = detectLayout(len(values), row, count)
			if layout == "" {
				return nil, fmt.Errorf("row %d has %d entries for rank %d: %w",
					row, len(values), count, ErrBadMatrixFile)
			}
		}
		if err = m.storeRow(layout, row, values); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// readTaxonCount reads the leading taxon-count line.
func readTaxonCount(scan *bufio.Scanner) (int, error) {
	for scan.Scan() {
		fields := strings.Fields(scan.Text())
		if len(fields) == 0 {
			continue // tolerate leading blank lines
		}
		count, err := strconv.Atoi(fields[0])
		if err != nil || count < 1 {
			return 0, fmt.Errorf("taxon count %q: %w", fields[0], ErrBadMatrixFile)
		}

		return count, nil
	}
	if err := scan.Err(); err != nil {
		return 0, fmt.Errorf("reading header: %w: %v", ErrIO, err)
	}

	return 0, fmt.Errorf("missing taxon count: %w", ErrBadMatrixFile)
}

// readMatrixRow reads one taxon row: a name plus its distance entries.
func readMatrixRow(scan *bufio.Scanner, row int) (string, []float64, error) {
	for scan.Scan() {
		fields := strings.Fields(scan.Text())
		if len(fields) == 0 {
			continue
		}
		name := fields[0]
		values := make([]float64, 0, len(fields)-1)
		for _, field := range fields[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return "", nil, fmt.Errorf("row %d value %q: %w", row, field, ErrBadMatrixFile)
			}
			values = append(values, v)
		}

		return name, values, nil
	}
	if err := scan.Err(); err != nil {
		return "", nil, fmt.Errorf("reading row %d: %w: %v", row, ErrIO, err)
	}

	return "", nil, fmt.Errorf("missing row %d: %w", row, ErrBadMatrixFile)
}

// detectLayout maps the width of row `row` to a layout tag, or ""
// when the width fits none of the three formats.
func detectLayout(width, row, count int) string {
	switch width {
	case count:
		return FormatSquare
	case count - 1 - row:
		// Upper and lower widths coincide only when row == (count-1)/2;
		// for row 0 that means count == 1, where both layouts hold no
		// entries, so the first data row decides.
		return FormatUpper
	case row:
		return FormatLower
	default:
		return ""
	}
}

// storeRow writes one parsed row into the matrix, mirroring
// triangular input.
func (m *FlatMatrix) storeRow(layout string, row int, values []float64) error {
	count := m.rowCount
	switch layout {
	case FormatSquare:
		if len(values) != count {
			return fmt.Errorf("square row %d has %d entries: %w", row, len(values), ErrBadMatrixFile)
		}
		for c, v := range values {
			m.SetCell(row, c, v)
		}
	case FormatUpper:
		if len(values) != count-1-row {
			return fmt.Errorf("upper row %d has %d entries: %w", row, len(values), ErrBadMatrixFile)
		}
		for i, v := range values {
			c := row + 1 + i
			m.SetCell(row, c, v)
			m.SetCell(c, row, v)
		}
	case FormatLower:
		if len(values) != row {
			return fmt.Errorf("lower row %d has %d entries: %w", row, len(values), ErrBadMatrixFile)
		}
		for c, v := range values {
			m.SetCell(row, c, v)
			m.SetCell(c, row, v)
		}
	}
	m.SetCell(row, row, 0)

	return nil
}
