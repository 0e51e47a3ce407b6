package upgma_test

import (
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// newickNode is the minimal tree shape the tests reconstruct from the
// engines' output. Production code never parses Newick; this helper
// exists only so the tests can assert on topology and path lengths.
type newickNode struct {
	name     string
	length   float64
	children []*newickNode
}

// parseNewick parses a single Newick tree, requiring the terminating
// semicolon.
func parseNewick(t *testing.T, text string) *newickNode {
	t.Helper()
	text = strings.TrimSpace(text)
	require.True(t, strings.HasSuffix(text, ";"), "newick %q must end with ';'", text)
	node, rest := parseSubtree(t, strings.TrimSuffix(text, ";"))
	require.Empty(t, rest, "trailing garbage after newick tree")

	return node
}

func parseSubtree(t *testing.T, s string) (*newickNode, string) {
	t.Helper()
	node := &newickNode{}
	if strings.HasPrefix(s, "(") {
		s = s[1:]
		for {
			var child *newickNode
			child, s = parseSubtree(t, s)
			node.children = append(node.children, child)
			if strings.HasPrefix(s, ",") {
				s = s[1:]
				continue
			}
			require.True(t, strings.HasPrefix(s, ")"), "unbalanced newick at %q", s)
			s = s[1:]
			break
		}
	} else {
		stop := strings.IndexAny(s, ":,()")
		if stop < 0 {
			stop = len(s)
		}
		node.name = s[:stop]
		require.NotEmpty(t, node.name, "leaf with no name at %q", s)
		s = s[stop:]
	}
	if strings.HasPrefix(s, ":") {
		s = s[1:]
		stop := strings.IndexAny(s, ",()")
		if stop < 0 {
			stop = len(s)
		}
		length, err := strconv.ParseFloat(s[:stop], 64)
		require.NoError(t, err, "branch length at %q", s)
		node.length = length
		s = s[stop:]
	}

	return node, s
}

// leafNames returns the sorted multiset of leaf names.
func leafNames(n *newickNode) []string {
	var names []string
	var walk func(*newickNode)
	walk = func(x *newickNode) {
		if len(x.children) == 0 {
			names = append(names, x.name)
			return
		}
		for _, c := range x.children {
			walk(c)
		}
	}
	walk(n)
	sort.Strings(names)

	return names
}

// pathLengths returns the tree distance between every pair of leaves,
// keyed by the sorted name pair.
func pathLengths(n *newickNode) map[[2]string]float64 {
	out := make(map[[2]string]float64)
	gatherLeafDistances(n, out)

	return out
}

// gatherLeafDistances returns each leaf's distance up to node n,
// recording cross-subtree pair distances into out along the way.
func gatherLeafDistances(n *newickNode, out map[[2]string]float64) map[string]float64 {
	if len(n.children) == 0 {
		return map[string]float64{n.name: 0}
	}
	groups := make([]map[string]float64, 0, len(n.children))
	for _, c := range n.children {
		sub := gatherLeafDistances(c, out)
		for name := range sub {
			sub[name] += c.length
		}
		groups = append(groups, sub)
	}
	all := make(map[string]float64)
	for i := range groups {
		for j := i + 1; j < len(groups); j++ {
			for a, da := range groups[i] {
				for b, db := range groups[j] {
					key := [2]string{a, b}
					if b < a {
						key = [2]string{b, a}
					}
					out[key] = da + db
				}
			}
		}
		for name, d := range groups[i] {
			all[name] = d
		}
	}

	return all
}
