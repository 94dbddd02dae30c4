package pipeline

import (
	"testing"

	"nodosml-recsys/internal/models"
)

func TestBuildInteractions(t *testing.T) {
	ratings := []models.RatingDoc{
		{UserID: 1, MovieID: 10, Rating: 5.0},
		{UserID: 1, MovieID: 20, Rating: 3.0}, // bajo el umbral
		{UserID: 1, MovieID: 30, Rating: 4.0},
		{UserID: 2, MovieID: 20, Rating: 4.5},
		{UserID: 2, MovieID: 10, Rating: 4.0},
	}

	inter := BuildInteractions(ratings, 4.0)

	t.Run("los ratings bajo el umbral no existen en la matriz", func(t *testing.T) {
		if inter.Matrix.NNZ() != 4 {
			t.Errorf("nnz = %d, esperaba 4", inter.Matrix.NNZ())
		}
	})

	t.Run("índices por orden de primera aparición", func(t *testing.T) {
		wantUsers := map[int]int{1: 0, 2: 1}
		for id, idx := range wantUsers {
			if inter.UserIndex[id] != idx {
				t.Errorf("userIndex[%d] = %d, esperaba %d", id, inter.UserIndex[id], idx)
			}
		}
		// la película 20 aparece primero con rating 3.0, que no pasa el
		// filtro: su índice lo define la aparición calificada del user 2
		wantMovies := map[int]int{10: 0, 30: 1, 20: 2}
		for id, idx := range wantMovies {
			if inter.MovieIndex[id] != idx {
				t.Errorf("movieIndex[%d] = %d, esperaba %d", id, inter.MovieIndex[id], idx)
			}
			if inter.IndexMovie[idx] != id {
				t.Errorf("indexMovie[%d] = %d, esperaba %d", idx, inter.IndexMovie[idx], id)
			}
		}
	})

	t.Run("valores de celda", func(t *testing.T) {
		cols, vals := inter.Matrix.Row(0)
		if len(cols) != 2 || cols[0] != 0 || cols[1] != 1 {
			t.Fatalf("fila 0: columnas %v", cols)
		}
		if vals[0] != 5.0 || vals[1] != 4.0 {
			t.Errorf("fila 0: valores %v", vals)
		}
	})

	t.Run("duplicados (user,item) se suman", func(t *testing.T) {
		dup := append([]models.RatingDoc{}, ratings...)
		dup = append(dup, models.RatingDoc{UserID: 1, MovieID: 10, Rating: 4.0})
		inter := BuildInteractions(dup, 4.0)
		_, vals := inter.Matrix.Row(0)
		if vals[0] != 9.0 {
			t.Errorf("celda (1,10) = %v, esperaba 9.0 (5.0+4.0)", vals[0])
		}
	})

	t.Run("sin ratings que califiquen queda matriz vacía", func(t *testing.T) {
		inter := BuildInteractions([]models.RatingDoc{
			{UserID: 1, MovieID: 10, Rating: 2.0},
		}, 4.0)
		if inter.Matrix.Rows != 0 || inter.Matrix.NNZ() != 0 {
			t.Errorf("matriz %dx%d nnz=%d, esperaba vacía", inter.Matrix.Rows, inter.Matrix.Cols, inter.Matrix.NNZ())
		}
	})
}

func TestBuildItemNeighbors(t *testing.T) {
	// dos pares de películas con audiencias disjuntas: los vecinos solo
	// pueden salir del propio par
	ratings := []models.RatingDoc{
		{UserID: 1, MovieID: 100, Rating: 5.0},
		{UserID: 1, MovieID: 200, Rating: 4.0},
		{UserID: 2, MovieID: 300, Rating: 4.5},
		{UserID: 2, MovieID: 400, Rating: 5.0},
	}

	n := BuildItemNeighbors(ratings, 10, 4.0)

	if n.Graph.Rows != 4 {
		t.Fatalf("grafo %dx%d, esperaba 4x4", n.Graph.Rows, n.Graph.Cols)
	}
	pairs := map[int]int{100: 200, 200: 100, 300: 400, 400: 300}
	for movieID, wantNeighbor := range pairs {
		cols, _ := n.Graph.Row(n.MovieIndex[movieID])
		if len(cols) != 1 || n.IndexMovie[cols[0]] != wantNeighbor {
			t.Errorf("vecinos de %d: columnas %v, esperaba solo %d", movieID, cols, wantNeighbor)
		}
	}
}
