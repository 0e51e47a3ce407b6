package matrix_test

import (
	"fmt"
	"os"

	"github.com/caseysm/decenttree/matrix"
)

// ExampleFlatMatrix_WriteDistancesTo writes a three-taxon matrix in
// PHYLIP square format to stdout.
func ExampleFlatMatrix_WriteDistancesTo() {
	m := matrix.NewFlatMatrix()
	_ = m.SetSize(3)
	for _, name := range []string{"A", "B", "C"} {
		m.AddCluster(name)
	}
	m.SetCell(0, 1, 2)
	m.SetCell(1, 0, 2)
	m.SetCell(0, 2, 4)
	m.SetCell(2, 0, 4)
	m.SetCell(1, 2, 4)
	m.SetCell(2, 1, 4)

	_ = m.WriteDistancesTo(matrix.FormatSquare, 2, os.Stdout)

	// Output:
	// 3
	// A          0 2.00 4.00
	// B          2.00 0 4.00
	// C          4.00 4.00 0
}

// ExampleSquareMatrix_RemoveRowAndColumn shows the swap-shrink: the
// last row and column take the removed slot.
func ExampleSquareMatrix_RemoveRowAndColumn() {
	var m matrix.SquareMatrix[float64]
	_ = m.SetSize(3)
	_ = m.LoadDistancesFromFlatArray([]float64{
		0, 1, 2,
		1, 0, 3,
		2, 3, 0,
	})

	m.RemoveRowAndColumn(0)
	fmt.Println(m.RowCount(), m.Row(0)[1], m.Row(1)[0])

	// Output: 2 3 3
}
