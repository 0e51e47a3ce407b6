package clustertree

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/klauspost/compress/gzip"
)

// WriteTreeTo serialises the tree to w in Newick notation: taxon names
// unquoted, branch lengths in general notation at the given precision,
// terminated by ";" and a line break. The cluster appended last is the
// root. Returns ErrEmptyTree on a tree with no clusters.
func (t *Tree[T]) WriteTreeTo(w io.Writer, precision int) error {
	if len(t.clusters) == 0 {
		return ErrEmptyTree
	}
	out := bufio.NewWriter(w)
	line := t.appendSubtree(nil, len(t.clusters)-1, precision)
	line = append(line, ';', '\n')
	if _, err := out.Write(line); err != nil {
		return fmt.Errorf("writing newick: %w: %v", ErrIO, err)
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("flushing newick: %w: %v", ErrIO, err)
	}

	return nil
}

// appendSubtree appends the Newick text of cluster c (without any
// trailing ":length"; the caller appends that for non-root clusters).
func (t *Tree[T]) appendSubtree(line []byte, c, precision int) []byte {
	node := &t.clusters[c]
	if node.IsLeaf() {
		return append(line, node.Name...)
	}
	line = append(line, '(')
	for i, link := range node.Links {
		if i > 0 {
			line = append(line, ',')
		}
		line = t.appendSubtree(line, link.Child, precision)
		line = append(line, ':')
		line = strconv.AppendFloat(line, float64(link.Length), 'g', precision, 64)
	}

	return append(line, ')')
}

// WriteTreeFile writes the Newick tree to path, gzip-compressed when
// zipped is set, appending to an existing file when appendFile is set.
// I/O failures surface wrapped in ErrIO; a partially written file is
// closed.
func (t *Tree[T]) WriteTreeFile(zipped bool, precision int, path string, appendFile bool) error {
	flags := os.O_CREATE | os.O_WRONLY
	if appendFile {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("opening %q: %w: %v", path, ErrIO, err)
	}

	var sink io.Writer = f
	var zip *gzip.Writer
	if zipped {
		zip = gzip.NewWriter(f)
		sink = zip
	}

	writeErr := t.WriteTreeTo(sink, precision)
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
