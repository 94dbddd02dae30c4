package pipeline

import (
	"sort"

	"nodosml-recsys/internal/models"
)

// LeaveOneOutSplit ordena los ratings por (userId, timestamp) y separa
// la interacción más reciente de cada usuario como test; el resto es el
// set de entrenamiento del que salen todos los artefactos.
func LeaveOneOutSplit(ratings []models.RatingDoc) (train, test []models.RatingDoc) {
	sorted := make([]models.RatingDoc, len(ratings))
	copy(sorted, ratings)
	sort.SliceStable(sorted, func(a, b int) bool {
		if sorted[a].UserID != sorted[b].UserID {
			return sorted[a].UserID < sorted[b].UserID
		}
		return sorted[a].Timestamp < sorted[b].Timestamp
	})

	for i, r := range sorted {
		last := i+1 == len(sorted) || sorted[i+1].UserID != r.UserID
		if last {
			test = append(test, r)
		} else {
			train = append(train, r)
		}
	}
	return train, test
}

// BuildUserHistory agrupa el set de entrenamiento por usuario:
// watchedItems son todas las películas valoradas en orden de aparición,
// likedItems la subsecuencia con rating >= minRating. La salida viene
// ordenada por userId.
func BuildUserHistory(ratings []models.RatingDoc, minRating float64) []models.UserHistory {
	byUser := make(map[int]*models.UserHistory)
	var order []int

	for _, r := range ratings {
		h, ok := byUser[r.UserID]
		if !ok {
			h = &models.UserHistory{UserID: r.UserID}
			byUser[r.UserID] = h
			order = append(order, r.UserID)
		}
		h.WatchedItems = append(h.WatchedItems, r.MovieID)
		if r.Rating >= minRating {
			h.LikedItems = append(h.LikedItems, r.MovieID)
		}
	}

	sort.Ints(order)
	out := make([]models.UserHistory, 0, len(order))
	for _, userID := range order {
		out = append(out, *byUser[userID])
	}
	return out
}
