package pipeline

import (
	"log"
	"sort"

	"nodosml-recsys/internal/models"
)

// ComputePopularity calcula el score de popularidad con suavizado
// bayesiano por película:
//
//	bayesian_score = (sum + smoothing*globalMean) / (count + smoothing)
//
// smoothing es la fuerza del prior: valores altos empujan a las
// películas con pocos ratings hacia la media global. positive_ratio es
// la fracción de ratings >= minRating (0 si count = 0, aunque esas
// películas nunca entran al agregado). El resultado sale ordenado por
// score descendente, empates por movieId ascendente.
func ComputePopularity(ratings []models.RatingDoc, smoothing, minRating float64) []models.PopularityEntry {
	log.Printf("[popularity] calculando scores con smoothing=%.1f", smoothing)

	type agg struct {
		count    int
		sum      float64
		positive int
	}
	byMovie := make(map[int]*agg)
	var globalSum float64

	for _, r := range ratings {
		a, ok := byMovie[r.MovieID]
		if !ok {
			a = &agg{}
			byMovie[r.MovieID] = a
		}
		a.count++
		a.sum += r.Rating
		if r.Rating >= minRating {
			a.positive++
		}
		globalSum += r.Rating
	}

	var globalMean float64
	if len(ratings) > 0 {
		globalMean = globalSum / float64(len(ratings))
	}

	out := make([]models.PopularityEntry, 0, len(byMovie))
	for movieID, a := range byMovie {
		positiveRatio := 0.0
		if a.count > 0 {
			positiveRatio = float64(a.positive) / float64(a.count)
		}
		out = append(out, models.PopularityEntry{
			MovieID:       movieID,
			BayesianScore: (a.sum + smoothing*globalMean) / (float64(a.count) + smoothing),
			RatingCount:   a.count,
			PositiveRatio: positiveRatio,
		})
	}

	sort.Slice(out, func(a, b int) bool {
		if out[a].BayesianScore != out[b].BayesianScore {
			return out[a].BayesianScore > out[b].BayesianScore
		}
		return out[a].MovieID < out[b].MovieID
	})

	log.Printf("[popularity] %d películas con score", len(out))
	return out
}
