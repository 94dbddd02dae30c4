package sparse

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFromRows(t *testing.T) {
	m := FromRows([][]Entry{
		{{Col: 0, Val: 1}, {Col: 2, Val: 3}},
		{},
		{{Col: 1, Val: 5}},
	}, 3)

	if m.Rows != 3 || m.Cols != 3 {
		t.Fatalf("dims = %dx%d, want 3x3", m.Rows, m.Cols)
	}
	if m.NNZ() != 3 {
		t.Fatalf("nnz = %d, want 3", m.NNZ())
	}
	if m.RowNNZ(1) != 0 {
		t.Errorf("fila vacía con nnz = %d", m.RowNNZ(1))
	}

	cols, vals := m.Row(0)
	if len(cols) != 2 || cols[0] != 0 || cols[1] != 2 {
		t.Errorf("fila 0 cols = %v", cols)
	}
	if !almostEqual(vals[1], 3) {
		t.Errorf("fila 0 vals = %v", vals)
	}
}

func TestTranspose(t *testing.T) {
	// matriz 2x3:
	//   [1 0 2]
	//   [0 3 4]
	m := FromRows([][]Entry{
		{{Col: 0, Val: 1}, {Col: 2, Val: 2}},
		{{Col: 1, Val: 3}, {Col: 2, Val: 4}},
	}, 3)

	tr := m.Transpose()
	if tr.Rows != 3 || tr.Cols != 2 {
		t.Fatalf("dims traspuesta = %dx%d, want 3x2", tr.Rows, tr.Cols)
	}
	if tr.NNZ() != m.NNZ() {
		t.Fatalf("nnz traspuesta = %d, want %d", tr.NNZ(), m.NNZ())
	}

	// fila 2 de la traspuesta = columna 2 original: (fila 0, 2.0), (fila 1, 4.0)
	cols, vals := tr.Row(2)
	if len(cols) != 2 || cols[0] != 0 || cols[1] != 1 {
		t.Errorf("traspuesta fila 2 cols = %v", cols)
	}
	if !almostEqual(vals[0], 2) || !almostEqual(vals[1], 4) {
		t.Errorf("traspuesta fila 2 vals = %v", vals)
	}

	// doble traspuesta vuelve al original
	back := tr.Transpose()
	for i := 0; i < m.Rows; i++ {
		c1, v1 := m.Row(i)
		c2, v2 := back.Row(i)
		if len(c1) != len(c2) {
			t.Fatalf("fila %d: nnz distinto tras doble traspuesta", i)
		}
		for j := range c1 {
			if c1[j] != c2[j] || !almostEqual(v1[j], v2[j]) {
				t.Errorf("fila %d difiere tras doble traspuesta", i)
			}
		}
	}
}

func TestRowNorms(t *testing.T) {
	m := FromRows([][]Entry{
		{{Col: 0, Val: 3}, {Col: 1, Val: 4}},
		{},
	}, 2)

	norms := m.RowNorms()
	if !almostEqual(norms[0], 5) {
		t.Errorf("norma fila 0 = %f, want 5", norms[0])
	}
	if norms[1] != 0 {
		t.Errorf("norma de fila vacía = %f, want 0", norms[1])
	}
}
