package service

import (
	"context"

	"nodosml-recsys/internal/models"
	"nodosml-recsys/internal/repository"
)

type MovieService struct {
	movies *repository.MovieRepository
}

func NewMovieService(movies *repository.MovieRepository) *MovieService {
	return &MovieService{movies: movies}
}

func (s *MovieService) GetMovie(ctx context.Context, movieID int) (*models.MovieDoc, error) {
	return s.movies.GetByID(ctx, movieID)
}

func (s *MovieService) Search(
	ctx context.Context,
	q, genre string,
	yearFrom, yearTo, limit, offset int,
) ([]models.MovieDoc, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.movies.Search(ctx, q, genre, yearFrom, yearTo, limit, offset)
}
