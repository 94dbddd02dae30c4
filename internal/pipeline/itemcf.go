package pipeline

import (
	"log"

	"nodosml-recsys/internal/models"
)

// BuildItemNeighbors construye el grafo de vecinos item-based: los
// vectores de cada ítem son las columnas de la matriz de interacciones
// (coordenada = rating del usuario), y sobre ellos corre el motor de
// similitud coseno con poda top-K.
func BuildItemNeighbors(ratings []models.RatingDoc, k int, minRating float64) *Neighbors {
	log.Printf("[item-cf] construyendo vecinos con k=%d minRating=%.1f", k, minRating)

	inter := BuildInteractions(ratings, minRating)

	// columnas -> filas: una fila por ítem, longitud = usuarios que califican
	items := inter.Matrix.Transpose()

	ids := make([]int, items.Rows)
	for idx, movieID := range inter.IndexMovie {
		ids[idx] = movieID
	}

	graph := CosineTopK(items, ids, k)
	log.Printf("[item-cf] grafo %dx%d con %d entradas", graph.Rows, graph.Cols, graph.NNZ())

	return &Neighbors{
		Graph:      graph,
		MovieIndex: inter.MovieIndex,
		IndexMovie: inter.IndexMovie,
	}
}
