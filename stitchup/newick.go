package stitchup

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/klauspost/compress/gzip"
)

// WriteTreeTo serialises the contracted graph as Newick to w. The
// highest-numbered interior node serves as the traversal root; with
// subtreeOnly set the outer brackets and terminating ";" are omitted.
func (g *Graph[T]) WriteTreeTo(w io.Writer, precision int, subtreeOnly bool) error {
	if len(g.stitches) == 0 {
		return fmt.Errorf("graph has no stitches: %w", ErrNoMatrix)
	}
	g.sortStitches()

	// nodeToEdge[s] is the index of the first edge sourced at s, or
	// len(stitches) for nodes with no outgoing edges. The writer reuses
	// the slot as a visited mark while descending.
	lastNodeIndex := g.stitches[len(g.stitches)-1].Source
	edgeCount := len(g.stitches)
	nodeToEdge := make([]int, lastNodeIndex+1)
	for i := range nodeToEdge {
		nodeToEdge[i] = edgeCount
	}
	for j := edgeCount - 1; j >= 0; j-- {
		nodeToEdge[g.stitches[j].Source] = j
	}

	out := bufio.NewWriter(w)
	line := g.appendSubtree(nil, nodeToEdge, nil, lastNodeIndex, subtreeOnly, precision)
	if !subtreeOnly {
		line = append(line, ';', '\n')
	}
	if _, err := out.Write(line); err != nil {
		return fmt.Errorf("writing newick: %w: %v", ErrIO, err)
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("flushing newick: %w: %v", ErrIO, err)
	}

	return nil
}

// appendSubtree appends the Newick text rooted at nodeIndex. backstop
// is the edge the traversal arrived along (nil at the root); its
// length is appended after the subtree. Marking nodeToEdge[node] with
// the past-the-end sentinel before descending stops the child walk
// from re-entering its parent.
func (g *Graph[T]) appendSubtree(line []byte, nodeToEdge []int, backstop *Stitch[T],
	nodeIndex int, noBrackets bool, precision int) []byte {
	if nodeIndex < len(g.leafNames) {
		line = append(line, g.leafNames[nodeIndex]...)
	} else {
		if !noBrackets {
			line = append(line, '(')
		}
		first := true
		x := nodeToEdge[nodeIndex]
		y := len(g.stitches)
		nodeToEdge[nodeIndex] = y
		for ; x < y && g.stitches[x].Source == nodeIndex; x++ {
			child := g.stitches[x].Dest
			if nodeToEdge[child] != y { // no backsies
				if !first {
					line = append(line, ',')
				}
				first = false
				line = g.appendSubtree(line, nodeToEdge, &g.stitches[x],
					child, false, precision)
			}
		}
		if !noBrackets {
			line = append(line, ')')
		}
	}
	if backstop != nil {
		line = append(line, ':')
		line = strconv.AppendFloat(line, float64(backstop.Length), 'g', precision, 64)
	}

	return line
}

// WriteTreeFile writes the Newick tree to path, gzip-compressed when
// zipped is set, appending when appendFile is set. I/O failures
// surface wrapped in ErrIO; a partially written file is closed.
func (g *Graph[T]) WriteTreeFile(zipped bool, precision int, path string,
	appendFile, subtreeOnly bool) error {
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

	writeErr := g.WriteTreeTo(sink, precision, subtreeOnly)
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
