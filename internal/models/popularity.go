package models

// PopularityEntry es una fila del ranking de popularidad bayesiana.
// Solo aparecen películas con RatingCount >= 1; el artefacto se
// persiste ordenado por BayesianScore descendente.
type PopularityEntry struct {
	MovieID       int     `json:"movieId"`
	BayesianScore float64 `json:"bayesianScore"`
	RatingCount   int     `json:"ratingCount"`
	PositiveRatio float64 `json:"positiveRatio"`
}
