package clustertree_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseysm/decenttree/clustertree"
)

// TestTree_AppendOnly verifies leaf and join records: exterior-node
// counts sum, the root is the last record, records stay immutable.
func TestTree_AppendOnly(t *testing.T) {
	var tree clustertree.Tree[float64]

	a := tree.AddLeaf("A")
	b := tree.AddLeaf("B")
	c := tree.AddLeaf("C")
	require.Equal(t, []int{0, 1, 2}, []int{a, b, c})

	ab, err := tree.AddJoin(a, 1.5, b, 2.5)
	require.NoError(t, err)
	assert.Equal(t, 2, tree.Cluster(ab).CountOfExteriorNodes,
		"join of two leaves covers two exterior nodes")

	root, err := tree.AddTrifurcation(ab, 0.5, c, 3, a, 0)
	require.NoError(t, err)
	assert.Equal(t, root, tree.Size()-1, "root is the last record")

	_, err = tree.AddJoin(99, 1, a, 1)
	assert.ErrorIs(t, err, clustertree.ErrBadChild, "forward references must be rejected")
	_, err = tree.AddJoin(-1, 1, a, 1)
	assert.ErrorIs(t, err, clustertree.ErrBadChild)
}

// TestTree_Newick verifies the serialised form: unquoted names,
// ":length" per child, ";" and line break at the end, no internal
// labels.
func TestTree_Newick(t *testing.T) {
	var tree clustertree.Tree[float64]
	a := tree.AddLeaf("A")
	b := tree.AddLeaf("B")
	c := tree.AddLeaf("C")
	ab, err := tree.AddJoin(a, 1, b, 1)
	require.NoError(t, err)
	_, err = tree.AddTrifurcation(ab, 0.25, c, 3, a, 0.5)
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, tree.WriteTreeTo(&out, 6))
	assert.Equal(t, "((A:1,B:1):0.25,C:3,A:0.5);\n", out.String())
}

// TestTree_NewickPrecision verifies the general-notation length
// formatting at a reduced precision.
func TestTree_NewickPrecision(t *testing.T) {
	var tree clustertree.Tree[float64]
	a := tree.AddLeaf("A")
	b := tree.AddLeaf("B")
	_, err := tree.AddJoin(a, 1.0/3.0, b, 2)
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, tree.WriteTreeTo(&out, 3))
	assert.Equal(t, "(A:0.333,B:2);\n", out.String())
}

// TestTree_EmptyTree rejects Newick output with no clusters.
func TestTree_EmptyTree(t *testing.T) {
	var tree clustertree.Tree[float32]
	err := tree.WriteTreeTo(&strings.Builder{}, 6)
	assert.ErrorIs(t, err, clustertree.ErrEmptyTree)
}

// TestTree_WriteTreeFile exercises the plain, gzip and append paths.
func TestTree_WriteTreeFile(t *testing.T) {
	var tree clustertree.Tree[float64]
	a := tree.AddLeaf("A")
	b := tree.AddLeaf("B")
	_, err := tree.AddJoin(a, 1, b, 2)
	require.NoError(t, err)

	dir := t.TempDir()

	plain := filepath.Join(dir, "tree.nwk")
	require.NoError(t, tree.WriteTreeFile(false, 6, plain, false))
	require.NoError(t, tree.WriteTreeFile(false, 6, plain, true))
	raw, err := os.ReadFile(plain)
	require.NoError(t, err)
	assert.Equal(t, "(A:1,B:2);\n(A:1,B:2);\n", string(raw), "append should keep the first tree")

	zipped := filepath.Join(dir, "tree.nwk.gz")
	require.NoError(t, tree.WriteTreeFile(true, 6, zipped, false))
	f, err := os.Open(zipped)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	unzipped, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, "(A:1,B:2);\n", string(unzipped))
}
