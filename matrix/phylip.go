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

// Distance matrix file formats (PHYLIP style). Append ".gz" to a
// format tag to request gzip compression of the output file.
const (
	FormatSquare = "square" // all N columns on every row
	FormatUpper  = "upper"  // columns i+1..N-1 on row i
	FormatLower  = "lower"  // columns 0..i-1 on row i
)

// maxWritePrecision caps the number of fractional digits written for
// each distance; larger requests are clamped.
const maxWritePrecision = 10

// minNameFieldWidth is the smallest field the taxon name column is
// padded to, regardless of the longest name.
const minNameFieldWidth = 10

// formatWantsGzip reports whether the format tag asks for gzip output.
func formatWantsGzip(format string) bool {
	return strings.Contains(format, ".gz")
}

// WriteToDistanceFile writes the matrix to path in the given format,
// with the given precision for distances and, for ".gz" formats, the
// given gzip compression level (gzip.DefaultCompression when out of
// the 1..9 range). Any underlying open/write/flush/close failure is
// reported wrapped in ErrIO; a partially written file is closed.
func (m *FlatMatrix) WriteToDistanceFile(format string, precision int,
	compressionLevel int, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w: %v", path, ErrIO, err)
	}

	var sink io.Writer = f
	var zip *gzip.Writer
	if formatWantsGzip(format) {
		if compressionLevel < gzip.BestSpeed || gzip.BestCompression < compressionLevel {
			compressionLevel = gzip.DefaultCompression
		}
		zip, err = gzip.NewWriterLevel(f, compressionLevel)
		if err != nil {
			_ = f.Close()
			return fmt.Errorf("gzip level %d: %w: %v", compressionLevel, ErrIO, err)
		}
		sink = zip
	}

	writeErr := m.WriteDistancesTo(format, precision, sink)
	if zip != nil {
		if err = zip.Close(); writeErr == nil && err != nil {
			writeErr = fmt.Errorf("closing gzip stream for %q: %w: %v", path, ErrIO, err)
		}
	}
	if err = f.Close(); writeErr == nil && err != nil {
		writeErr = fmt.Errorf("closing %q: %w: %v", path, ErrIO, err)
	}

	return writeErr
}

// WriteDistancesTo streams the matrix to w: one header line holding
// the taxon count, then one line per taxon. Each row line starts with
// the taxon name left-justified in a field of max(10, longest name)
// characters, followed by one space and one value per included column.
// Values that are not positive are written as the literal "0";
// positive values use fixed notation with the requested precision
// (at least 1, clamped to at most 10 fractional digits). Which columns a row
// includes depends on the format: square [0,N), upper [i+1,N),
// lower [0,i). The format is matched on its leading five characters;
// anything that is not "upper…" or "lower…" means square.
func (m *FlatMatrix) WriteDistancesTo(format string, precision int, w io.Writer) error {
	if precision < 1 {
		return fmt.Errorf("precision %d: %w", precision, ErrBadPrecision)
	}
	if precision > maxWritePrecision {
		precision = maxWritePrecision
	}
	nseqs := len(m.sequenceNames)
	width := m.MaxSeqNameLength()
	if width < minNameFieldWidth {
		width = minNameFieldWidth
	}
	lower := strings.HasPrefix(format, FormatLower)
	upper := strings.HasPrefix(format, FormatUpper)

	out := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(out, "%d\n", nseqs); err != nil {
		return fmt.Errorf("writing header: %w: %v", ErrIO, err)
	}
	var line []byte
	for seq1 := 0; seq1 < nseqs; seq1++ {
		line = line[:0]
		line = append(line, m.sequenceNames[seq1]...)
		for pad := len(m.sequenceNames[seq1]); pad < width; pad++ {
			line = append(line, ' ')
		}
		rowStart, rowStop := 0, nseqs
		if upper {
			rowStart = seq1 + 1
		}
		if lower {
			rowStop = seq1
		}
		line = m.appendRowDistances(line, seq1, rowStart, rowStop, precision)
		line = append(line, '\n')
		if _, err := out.Write(line); err != nil {
			return fmt.Errorf("writing row %d: %w: %v", seq1, ErrIO, err)
		}
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("flushing: %w: %v", ErrIO, err)
	}

	return nil
}

// appendRowDistances appends the [rowStart,rowStop) columns of row
// seq1 to line, each preceded by a single space.
func (m *FlatMatrix) appendRowDistances(line []byte, seq1, rowStart, rowStop,
	precision int) []byte {
	pos := seq1*m.rowCount + rowStart
	for seq2 := rowStart; seq2 < rowStop; seq2++ {
		line = append(line, ' ')
		if v := m.distances[pos]; v <= 0 {
			line = append(line, '0')
		} else {
			line = strconv.AppendFloat(line, v, 'f', precision, 64)
		}
		pos++
	}

	return line
}
