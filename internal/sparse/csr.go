package sparse

import "math"

// Entrada no-cero de una fila (columna + valor).
type Entry struct {
	Col int
	Val float64
}

// CSR es una matriz dispersa en formato compressed-sparse-row.
// Indptr tiene longitud Rows+1; la fila i ocupa el rango
// Indices[Indptr[i]:Indptr[i+1]] / Data[Indptr[i]:Indptr[i+1]].
type CSR struct {
	Rows    int
	Cols    int
	Indptr  []int
	Indices []int
	Data    []float64
}

// FromRows construye una CSR a partir de filas en formato lista-de-listas.
// Las entradas de cada fila deben venir con columnas únicas; el orden
// por columna se conserva tal cual llega.
func FromRows(rows [][]Entry, cols int) *CSR {
	m := &CSR{
		Rows:   len(rows),
		Cols:   cols,
		Indptr: make([]int, len(rows)+1),
	}
	nnz := 0
	for _, row := range rows {
		nnz += len(row)
	}
	m.Indices = make([]int, 0, nnz)
	m.Data = make([]float64, 0, nnz)

	for i, row := range rows {
		for _, e := range row {
			m.Indices = append(m.Indices, e.Col)
			m.Data = append(m.Data, e.Val)
		}
		m.Indptr[i+1] = len(m.Indices)
	}
	return m
}

// NNZ devuelve la cantidad de entradas almacenadas.
func (m *CSR) NNZ() int {
	return len(m.Data)
}

// Row devuelve las columnas y valores de la fila i (slices compartidos,
// no modificar).
func (m *CSR) Row(i int) ([]int, []float64) {
	start, end := m.Indptr[i], m.Indptr[i+1]
	return m.Indices[start:end], m.Data[start:end]
}

// RowNNZ devuelve cuántas entradas tiene la fila i.
func (m *CSR) RowNNZ(i int) int {
	return m.Indptr[i+1] - m.Indptr[i]
}

// Transpose devuelve la matriz traspuesta (conteo en dos pasadas,
// estilo scipy csr -> csc).
func (m *CSR) Transpose() *CSR {
	t := &CSR{
		Rows:    m.Cols,
		Cols:    m.Rows,
		Indptr:  make([]int, m.Cols+1),
		Indices: make([]int, m.NNZ()),
		Data:    make([]float64, m.NNZ()),
	}

	// 1) contar entradas por columna
	for _, c := range m.Indices {
		t.Indptr[c+1]++
	}
	for i := 0; i < m.Cols; i++ {
		t.Indptr[i+1] += t.Indptr[i]
	}

	// 2) volcar entradas; next lleva la posición libre por fila destino
	next := make([]int, m.Cols)
	copy(next, t.Indptr[:m.Cols])
	for i := 0; i < m.Rows; i++ {
		for p := m.Indptr[i]; p < m.Indptr[i+1]; p++ {
			c := m.Indices[p]
			pos := next[c]
			t.Indices[pos] = i
			t.Data[pos] = m.Data[p]
			next[c]++
		}
	}
	return t
}

// RowNorms devuelve la norma L2 de cada fila.
func (m *CSR) RowNorms() []float64 {
	norms := make([]float64, m.Rows)
	for i := 0; i < m.Rows; i++ {
		var sum float64
		for p := m.Indptr[i]; p < m.Indptr[i+1]; p++ {
			sum += m.Data[p] * m.Data[p]
		}
		norms[i] = math.Sqrt(sum)
	}
	return norms
}
