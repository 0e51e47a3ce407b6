package upgma_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseysm/decenttree/upgma"
)

// construct runs a UPGMA engine over (names, distances) and returns
// the Newick text.
func construct(t *testing.T, opts upgma.Options, names []string, distances []float64) string {
	t.Helper()
	m := upgma.NewMatrix[float32](opts)
	require.NoError(t, m.LoadMatrix(names, distances))
	require.NoError(t, m.ConstructTree())
	var out strings.Builder
	require.NoError(t, m.WriteTreeTo(&out))

	return out.String()
}

// TestUPGMA_ThreeTaxa pins the root trifurcation lengths: with three
// equal-sized clusters the weights are 1/6 each, so legs for
// D = [[0,2,4],[2,0,4],[4,4,0]] come out 1, 1 and 4/3. The tree is
// printed at 10 significant digits so that the 1e-6 checks see the
// computed lengths rather than the default 6-digit rounding.
func TestUPGMA_ThreeTaxa(t *testing.T) {
	m := upgma.NewMatrix[float32](upgma.DefaultOptions())
	m.SetPrecision(10)
	require.NoError(t, m.LoadMatrix(
		[]string{"A", "B", "C"},
		[]float64{
			0, 2, 4,
			2, 0, 4,
			4, 4, 0,
		}))
	require.NoError(t, m.ConstructTree())
	var out strings.Builder
	require.NoError(t, m.WriteTreeTo(&out))

	tree := parseNewick(t, out.String())
	assert.Equal(t, []string{"A", "B", "C"}, leafNames(tree))
	require.Len(t, tree.children, 3, "root must be a trifurcation")
	byName := map[string]float64{}
	for _, c := range tree.children {
		require.Empty(t, c.children, "all children of the root are leaves here")
		byName[c.name] = c.length
	}
	assert.InDelta(t, 1.0, byName["A"], 1e-6)
	assert.InDelta(t, 1.0, byName["B"], 1e-6)
	assert.InDelta(t, 4.0/3.0, byName["C"], 1e-6)
}

// TestUPGMA_FourTaxa pins the exact output for one merge plus the
// trifurcation. All values are exactly representable in float32, so
// the string compares byte for byte.
func TestUPGMA_FourTaxa(t *testing.T) {
	newick := construct(t, upgma.DefaultOptions(),
		[]string{"A", "B", "C", "D"},
		[]float64{
			0, 5, 9, 9,
			5, 0, 10, 10,
			9, 10, 0, 8,
			9, 10, 8, 0,
		})

	assert.Equal(t, "((A:2.5,B:2.5):2.375,D:3.375,C:3.375);\n", newick)
}

// TestUPGMA_BlockedMatchesScalar runs both row-minimum scans over the
// same matrix; the trees must be byte-identical.
func TestUPGMA_BlockedMatchesScalar(t *testing.T) {
	const n = 17 // bigger than two vector blocks, with a scalar tail
	names := make([]string, n)
	distances := make([]float64, n*n)
	seed := uint64(99)
	next := func() float64 {
		seed = seed*6364136223846793005 + 1442695040888963407
		return float64(seed>>11) / float64(1<<53)
	}
	for i := range names {
		names[i] = "t" + string(rune('A'+i))
	}
	for r := 0; r < n; r++ {
		for c := r + 1; c < n; c++ {
			v := 0.1 + next()
			distances[r*n+c] = v
			distances[c*n+r] = v
		}
	}

	blocked := upgma.DefaultOptions()
	blocked.BlockedScan = true
	scalar := upgma.DefaultOptions()
	scalar.BlockedScan = false

	assert.Equal(t,
		construct(t, scalar, names, distances),
		construct(t, blocked, names, distances),
		"blocked and scalar scans must choose identical joins")
}

// TestUPGMA_DeterministicAcrossThreadCounts verifies that the
// parallel row scan does not perturb the output.
func TestUPGMA_DeterministicAcrossThreadCounts(t *testing.T) {
	const n = 12
	names := make([]string, n)
	distances := make([]float64, n*n)
	for i := range names {
		names[i] = "x" + string(rune('a'+i))
	}
	seed := uint64(7)
	next := func() float64 {
		seed = seed*6364136223846793005 + 1442695040888963407
		return float64(seed>>11) / float64(1<<53)
	}
	for r := 0; r < n; r++ {
		for c := r + 1; c < n; c++ {
			v := 0.5 + next()
			distances[r*n+c] = v
			distances[c*n+r] = v
		}
	}

	single := upgma.DefaultOptions()
	single.ThreadCount = 1
	many := upgma.DefaultOptions()
	many.ThreadCount = 8

	first := construct(t, single, names, distances)
	for run := 0; run < 3; run++ {
		assert.Equal(t, first, construct(t, many, names, distances),
			"run %d should reproduce the single-threaded tree", run)
	}
}

// TestUPGMA_IdenticalTaxa feeds an all-zero matrix: the imbalance
// tie-break must still produce a tree, with every leaf at length 0.
func TestUPGMA_IdenticalTaxa(t *testing.T) {
	names := []string{"A", "B", "C", "D", "E"}
	newick := construct(t, upgma.DefaultOptions(), names, make([]float64, 25))

	tree := parseNewick(t, newick)
	assert.Equal(t, names, leafNames(tree))
	for pair, length := range pathLengths(tree) {
		assert.InDelta(t, 0.0, length, 1e-9, "pair %v should sit at distance 0", pair)
	}
}

// TestUPGMA_UltrametricMerges runs an ultrametric matrix: the two
// closest pairs merge first (at half their distance each way) and the
// trifurcation distributes the rest by cluster size.
func TestUPGMA_UltrametricMerges(t *testing.T) {
	names := []string{"A", "B", "C", "D", "E"}
	distances := []float64{
		0, 2, 4, 6, 6,
		2, 0, 4, 6, 6,
		4, 4, 0, 6, 6,
		6, 6, 6, 0, 2,
		6, 6, 6, 2, 0,
	}

	newick := construct(t, upgma.DefaultOptions(), names, distances)
	tree := parseNewick(t, newick)
	assert.Equal(t, names, leafNames(tree))

	paths := pathLengths(tree)
	// {A,B} and {D,E} join at distance 2; the trifurcation over
	// {A,B}, {D,E}, C weights D(0,1)=6, D(0,2)=4, D(1,2)=6 by
	// exterior-node counts (2,2,1)/10, giving legs 1.6, 1.8, 2.
	assert.InDelta(t, 2.0, paths[[2]string{"A", "B"}], 1e-5)
	assert.InDelta(t, 2.0, paths[[2]string{"D", "E"}], 1e-5)
	assert.InDelta(t, 4.6, paths[[2]string{"A", "C"}], 1e-5)
	assert.InDelta(t, 4.6, paths[[2]string{"B", "C"}], 1e-5)
	assert.InDelta(t, 5.4, paths[[2]string{"A", "D"}], 1e-5)
}

// TestUPGMA_InputErrors rejects missing and undersized matrices.
func TestUPGMA_InputErrors(t *testing.T) {
	m := upgma.NewMatrix[float32](upgma.DefaultOptions())
	assert.ErrorIs(t, m.ConstructTree(), upgma.ErrNoMatrix, "construct before load must fail")

	require.NoError(t, m.LoadMatrix([]string{"A", "B"}, make([]float64, 4)))
	assert.ErrorIs(t, m.ConstructTree(), upgma.ErrTooFewTaxa)
}
