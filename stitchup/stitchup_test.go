package stitchup_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseysm/decenttree/stitchup"
)

// constructStitch runs the stitch-up engine and returns the Newick
// text.
func constructStitch(t *testing.T, names []string, distances []float64) string {
	t.Helper()
	m := stitchup.NewMatrix[float64](nil)
	require.NoError(t, m.LoadMatrix(names, distances))
	require.NoError(t, m.ConstructTree())
	var out strings.Builder
	require.NoError(t, m.WriteTreeTo(&out))

	return out.String()
}

// TestStitchup_FourTaxa checks the spec scenario: {A,B} and {C,D}
// must group together, with full path lengths 5 and 8 preserved.
func TestStitchup_FourTaxa(t *testing.T) {
	newick := constructStitch(t,
		[]string{"A", "B", "C", "D"},
		[]float64{
			0, 5, 9, 9,
			5, 0, 10, 10,
			9, 10, 0, 8,
			9, 10, 8, 0,
		})

	tree := parseNewick(t, newick)
	assert.Equal(t, []string{"A", "B", "C", "D"}, leafNames(tree))

	paths := pathLengths(tree)
	assert.InDelta(t, 5.0, paths[[2]string{"A", "B"}], 1e-9,
		"A↔B path must preserve the joined distance")
	assert.InDelta(t, 8.0, paths[[2]string{"C", "D"}], 1e-9,
		"C↔D path must preserve the joined distance")
	// Grouping: the A↔B and C↔D paths must be shorter than any
	// cross-pair path.
	for _, cross := range [][2]string{{"A", "C"}, {"A", "D"}, {"B", "C"}, {"B", "D"}} {
		assert.Greater(t, paths[cross], paths[[2]string{"A", "B"}],
			"%v should be further apart than the A,B pair", cross)
	}
}

// TestStitchup_DegenerateTies feeds three identical distances: the
// engine must terminate and every pairwise path must stay within
// 1 + 2·StapleLeg + ε.
func TestStitchup_DegenerateTies(t *testing.T) {
	newick := constructStitch(t,
		[]string{"A", "B", "C"},
		[]float64{
			0, 1, 1,
			1, 0, 1,
			1, 1, 0,
		})

	tree := parseNewick(t, newick)
	assert.Equal(t, []string{"A", "B", "C"}, leafNames(tree))
	bound := 1 + 2*stitchup.StapleLeg + 1e-9
	for pair, length := range pathLengths(tree) {
		assert.LessOrEqual(t, length, bound, "pair %v", pair)
		assert.GreaterOrEqual(t, length, -1e-9, "pair %v must not go negative", pair)
	}
}

// TestStitchup_IdenticalTaxa runs an all-zero matrix: star-like tree,
// all lengths 0, no crash.
func TestStitchup_IdenticalTaxa(t *testing.T) {
	names := []string{"A", "B", "C", "D", "E"}
	newick := constructStitch(t, names, make([]float64, 25))

	tree := parseNewick(t, newick)
	assert.Equal(t, names, leafNames(tree))
	for pair, length := range pathLengths(tree) {
		assert.InDelta(t, 0.0, length, 1e-9, "pair %v", pair)
	}
}

// TestStitchup_Deterministic verifies byte-identical output across
// repeated runs: the tiebreak generator reseeds per LoadMatrix, so a
// run never depends on what ran before it.
func TestStitchup_Deterministic(t *testing.T) {
	names := []string{"A", "B", "C", "D", "E", "F"}
	distances := make([]float64, 36)
	seed := uint64(41)
	for r := 0; r < 6; r++ {
		for c := r + 1; c < 6; c++ {
			seed = seed*6364136223846793005 + 1442695040888963407
			v := 0.25 + float64(seed>>11)/float64(1<<53)
			distances[r*6+c] = v
			distances[c*6+r] = v
		}
	}

	first := constructStitch(t, names, distances)
	m := stitchup.NewMatrix[float64](nil)
	for run := 0; run < 3; run++ {
		require.NoError(t, m.LoadMatrix(names, distances))
		require.NoError(t, m.ConstructTree())
		var out strings.Builder
		require.NoError(t, m.WriteTreeTo(&out))
		assert.Equal(t, first, out.String(), "run %d must be byte-identical", run)
	}
}

// TestStitchup_NonNegativeLengths checks the numerical tolerance on a
// matrix that forces shrinking leg lengths.
func TestStitchup_NonNegativeLengths(t *testing.T) {
	newick := constructStitch(t,
		[]string{"A", "B", "C", "D"},
		[]float64{
			0, 1, 1.05, 3,
			1, 0, 1.1, 3,
			1.05, 1.1, 0, 3,
			3, 3, 3, 0,
		})

	tree := parseNewick(t, newick)
	var walk func(n *newickNode)
	walk = func(n *newickNode) {
		assert.GreaterOrEqual(t, n.length, -1e-9,
			"edge above %q must stay non-negative within tolerance", n.name)
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(tree)
}

// TestStitchup_SubtreeOnly drops the outer brackets and terminator.
func TestStitchup_SubtreeOnly(t *testing.T) {
	m := stitchup.NewMatrix[float64](nil)
	require.NoError(t, m.LoadMatrix(
		[]string{"A", "B", "C"},
		[]float64{
			0, 2, 4,
			2, 0, 4,
			4, 4, 0,
		}))
	require.NoError(t, m.ConstructTree())
	require.True(t, m.SetSubtreeOnly(true))

	var out strings.Builder
	require.NoError(t, m.WriteTreeTo(&out))
	text := out.String()
	assert.False(t, strings.HasSuffix(strings.TrimSpace(text), ";"),
		"subtree-only output must not terminate with ';'")
	assert.False(t, strings.HasPrefix(text, "("),
		"subtree-only output must not open with a bracket")
}

// TestStitchup_InputErrors rejects missing and undersized matrices.
func TestStitchup_InputErrors(t *testing.T) {
	m := stitchup.NewMatrix[float64](nil)
	assert.ErrorIs(t, m.ConstructTree(), stitchup.ErrNoMatrix)

	require.NoError(t, m.LoadMatrix([]string{"A", "B"}, make([]float64, 4)))
	assert.ErrorIs(t, m.ConstructTree(), stitchup.ErrTooFewTaxa)

	assert.ErrorIs(t, m.WriteTreeTo(&strings.Builder{}), stitchup.ErrNoMatrix,
		"tree output before construction must fail")
}
