package pipeline

import (
	"runtime"
	"sort"
	"sync"

	"nodosml-recsys/internal/sparse"
)

// Neighbors es un grafo de vecinos podado sobre ítems: matriz cuadrada
// dispersa de similitudes coseno + mapeos movieId<->índice. Tras la poda
// top-K por fila el grafo en general NO es simétrico; eso es intencional
// y se conserva tal cual.
type Neighbors struct {
	Graph      *sparse.CSR
	MovieIndex map[int]int
	IndexMovie map[int]int
}

type simEntry struct {
	col int
	val float64
}

// CosineTopK calcula la similitud coseno entre todas las filas de
// vectors (una fila por entidad) y poda cada fila del grafo resultante
// a sus K mayores valores. ids[i] es el id externo de la entidad i y se
// usa para desempatar.
//
// Pasos:
//  1. normalización L2 por fila; norma cero usa divisor 1 (el vector
//     cero queda igual, nunca se divide entre cero)
//  2. producto de Gram vía índice invertido por columna (O(E²·d) en el
//     peor caso, suficiente para catálogos de decenas de miles)
//  3. diagonal en cero (sin self-loops)
//  4. poda por fila: si hay más de k entradas no-cero se conservan solo
//     las k mayores; las demás quedan estructuralmente ausentes
//  5. empates en el corte se resuelven por id externo ascendente
//     (determinístico y testeado, no depende del orden de iteración)
func CosineTopK(vectors *sparse.CSR, ids []int, k int) *sparse.CSR {
	n := vectors.Rows

	inv := make([]float64, n)
	for i, norm := range vectors.RowNorms() {
		if norm == 0 {
			inv[i] = 1
		} else {
			inv[i] = 1 / norm
		}
	}

	// índice invertido: por columna, las filas que la tocan con su valor
	// ya normalizado
	postStart := make([]int, vectors.Cols+1)
	for _, c := range vectors.Indices {
		postStart[c+1]++
	}
	for c := 0; c < vectors.Cols; c++ {
		postStart[c+1] += postStart[c]
	}
	postRow := make([]int, vectors.NNZ())
	postVal := make([]float64, vectors.NNZ())
	fill := make([]int, vectors.Cols)
	copy(fill, postStart[:vectors.Cols])
	for i := 0; i < n; i++ {
		cols, vals := vectors.Row(i)
		for p, c := range cols {
			pos := fill[c]
			postRow[pos] = i
			postVal[pos] = vals[p] * inv[i]
			fill[c]++
		}
	}

	// cada fila del grafo es independiente: repartimos filas entre
	// workers y ensamblamos al final en orden
	pruned := make([][]sparse.Entry, n)
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	rowCh := make(chan int, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acc := make([]float64, n)
			touched := make([]int, 0, n)
			for i := range rowCh {
				cols, vals := vectors.Row(i)
				for p, c := range cols {
					vi := vals[p] * inv[i]
					for q := postStart[c]; q < postStart[c+1]; q++ {
						j := postRow[q]
						if acc[j] == 0 {
							touched = append(touched, j)
						}
						acc[j] += vi * postVal[q]
					}
				}

				cands := make([]simEntry, 0, len(touched))
				for _, j := range touched {
					// diagonal excluida; una suma que cae exactamente
					// en cero tampoco se almacena
					if j != i && acc[j] != 0 {
						cands = append(cands, simEntry{col: j, val: acc[j]})
					}
					acc[j] = 0
				}
				touched = touched[:0]

				pruned[i] = topK(cands, ids, k)
			}
		}()
	}

	for i := 0; i < n; i++ {
		rowCh <- i
	}
	close(rowCh)
	wg.Wait()

	return sparse.FromRows(pruned, n)
}

// topK selecciona las k entradas de mayor valor; empates por id externo
// ascendente. Devuelve las entradas ordenadas por columna para el CSR.
func topK(cands []simEntry, ids []int, k int) []sparse.Entry {
	if len(cands) > k {
		sort.Slice(cands, func(a, b int) bool {
			if cands[a].val != cands[b].val {
				return cands[a].val > cands[b].val
			}
			return ids[cands[a].col] < ids[cands[b].col]
		})
		cands = cands[:k]
	}

	out := make([]sparse.Entry, len(cands))
	for i, c := range cands {
		out[i] = sparse.Entry{Col: c.col, Val: c.val}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Col < out[b].Col })
	return out
}
