package service

import (
	"context"
	"fmt"

	"nodosml-recsys/internal/models"
	"nodosml-recsys/internal/repository"
)

type RatingService struct {
	ratings *repository.RatingRepository
	movies  *repository.MovieRepository
}

func NewRatingService(ratings *repository.RatingRepository, movies *repository.MovieRepository) *RatingService {
	return &RatingService{ratings: ratings, movies: movies}
}

// Rate registra (o actualiza) la valoración de un usuario. El rating
// queda en Mongo y entra al siguiente run offline; los artefactos ya
// cargados no se tocan.
func (s *RatingService) Rate(ctx context.Context, userID, movieID int, rating float64) error {
	if rating < 0.5 || rating > 5 {
		return fmt.Errorf("rating %.1f fuera de rango [0.5, 5.0]", rating)
	}

	m, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("movieId=%d no existe", movieID)
	}

	return s.ratings.UpsertRating(ctx, userID, movieID, rating)
}

func (s *RatingService) GetByUser(ctx context.Context, userID, limit, offset int) ([]models.RatingDoc, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.ratings.GetByUser(ctx, userID, limit, offset)
}
