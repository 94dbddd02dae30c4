package pipeline

import (
	"sort"

	"nodosml-recsys/internal/models"
	"nodosml-recsys/internal/sparse"
)

// Interactions es la matriz dispersa usuario×ítem construida a partir
// de los ratings que pasan el filtro de feedback positivo, junto con
// los mapeos id<->índice.
type Interactions struct {
	Matrix     *sparse.CSR // usuarios × ítems, valor = rating
	UserIndex  map[int]int // userId -> fila
	MovieIndex map[int]int // movieId -> columna
	IndexMovie map[int]int // columna -> movieId
}

// BuildInteractions filtra ratings con rating >= minRating y arma la
// matriz de interacciones. Los índices de fila/columna se asignan por
// orden de primera aparición en la secuencia filtrada, así el resultado
// es reproducible con el mismo input. Los ratings que no pasan el filtro
// no existen en la matriz (no son ceros: el usuario/ítem ni siquiera
// recibe índice si no tiene eventos que califiquen).
func BuildInteractions(ratings []models.RatingDoc, minRating float64) *Interactions {
	userIndex := make(map[int]int)
	movieIndex := make(map[int]int)
	indexMovie := make(map[int]int)

	// filas en formato lista-de-listas; duplicados (user,item) se suman,
	// igual que una matriz COO al compactarse
	type cell = map[int]float64
	var userRows []cell

	for _, r := range ratings {
		if r.Rating < minRating {
			continue
		}
		uIdx, ok := userIndex[r.UserID]
		if !ok {
			uIdx = len(userIndex)
			userIndex[r.UserID] = uIdx
			userRows = append(userRows, make(cell))
		}
		iIdx, ok := movieIndex[r.MovieID]
		if !ok {
			iIdx = len(movieIndex)
			movieIndex[r.MovieID] = iIdx
			indexMovie[iIdx] = r.MovieID
		}
		userRows[uIdx][iIdx] += r.Rating
	}

	lil := make([][]sparse.Entry, len(userRows))
	for u, row := range userRows {
		entries := make([]sparse.Entry, 0, len(row))
		for c, v := range row {
			entries = append(entries, sparse.Entry{Col: c, Val: v})
		}
		// columnas en orden ascendente para un CSR canónico
		sort.Slice(entries, func(a, b int) bool { return entries[a].Col < entries[b].Col })
		lil[u] = entries
	}

	return &Interactions{
		Matrix:     sparse.FromRows(lil, len(movieIndex)),
		UserIndex:  userIndex,
		MovieIndex: movieIndex,
		IndexMovie: indexMovie,
	}
}
