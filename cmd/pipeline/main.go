package main

import (
	"context"
	"flag"
	"log"
	"time"

	"nodosml-recsys/internal/artifact"
	"nodosml-recsys/internal/config"
	"nodosml-recsys/internal/db"
	"nodosml-recsys/internal/pipeline"
	"nodosml-recsys/internal/repository"
)

// Pipeline offline: lee ratings y películas de Mongo, hace el split
// leave-one-out, construye los grafos de vecinos (item-cf y contenido),
// el ranking de popularidad, los historiales y la metadata, y exporta
// todo como un set atómico de artefactos que la API carga al arrancar.
func main() {
	cfg := config.Load()

	outDir := flag.String("out", cfg.ArtifactDir, "directorio de salida de artefactos")
	topK := flag.Int("topk", cfg.TopKNeighbors, "vecinos a retener por ítem")
	minRating := flag.Float64("min-rating", cfg.MinRating, "rating mínimo para feedback positivo")
	smoothing := flag.Float64("smoothing", cfg.PopSmoothing, "suavizado bayesiano de popularidad")
	flag.Parse()

	if *topK < 1 {
		log.Fatalf("[pipeline] topk=%d inválido", *topK)
	}

	db.InitMongo(cfg)
	ratingRepo := repository.NewRatingRepository()
	movieRepo := repository.NewMovieRepository()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	start := time.Now()

	ratings, err := ratingRepo.GetAll(ctx)
	if err != nil {
		log.Fatalf("[pipeline] error leyendo ratings: %v", err)
	}
	movies, err := movieRepo.GetAll(ctx)
	if err != nil {
		log.Fatalf("[pipeline] error leyendo películas: %v", err)
	}
	log.Printf("[pipeline] %d ratings, %d películas", len(ratings), len(movies))

	// la interacción más reciente de cada usuario queda fuera del
	// entrenamiento (evaluación leave-one-out)
	train, test := pipeline.LeaveOneOutSplit(ratings)
	log.Printf("[pipeline] split: train=%d test=%d", len(train), len(test))

	popularity := pipeline.ComputePopularity(train, *smoothing, *minRating)
	item := pipeline.BuildItemNeighbors(train, *topK, *minRating)
	content := pipeline.BuildContentNeighbors(movies, *topK)
	history := pipeline.BuildUserHistory(train, *minRating)
	meta := pipeline.BuildMovieMeta(movies)

	bundle := &artifact.Bundle{
		Popularity: popularity,
		Item:       item,
		Content:    content,
		History:    history,
		Movies:     meta,
		Manifest: artifact.Manifest{
			BuiltAt:      time.Now().UTC().Format(time.RFC3339),
			TopK:         *topK,
			MinRating:    *minRating,
			Smoothing:    *smoothing,
			Ratings:      len(ratings),
			TrainRatings: len(train),
			Movies:       len(movies),
			Users:        len(history),
		},
	}

	if err := artifact.Export(*outDir, bundle); err != nil {
		log.Fatalf("[pipeline] error exportando artefactos: %v", err)
	}

	log.Printf("[pipeline] completado en %s", time.Since(start))
}
