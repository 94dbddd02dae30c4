package service

import (
	"context"
	"log"

	"nodosml-recsys/internal/artifact"
	"nodosml-recsys/internal/cache"
	"nodosml-recsys/internal/config"
)

// ArtifactSummary es el resumen que ve el admin del set servido.
type ArtifactSummary struct {
	Manifest       artifact.Manifest `json:"manifest"`
	Movies         int               `json:"movies"`
	UsersWithHist  int               `json:"usersWithHistory"`
	PopularityRows int               `json:"popularityRows"`
	ItemGraphDim   int               `json:"itemGraphDim"`
	ItemGraphNNZ   int               `json:"itemGraphNnz"`
	ContentDim     int               `json:"contentGraphDim"`
	ContentNNZ     int               `json:"contentGraphNnz"`
}

// AdminArtifactsService orquesta el mantenimiento del set de
// artefactos: resumen y recarga completa tras una corrida offline.
type AdminArtifactsService struct {
	cfg *config.Config
	rec *RecommendService
}

func NewAdminArtifactsService(cfg *config.Config, rec *RecommendService) *AdminArtifactsService {
	return &AdminArtifactsService{cfg: cfg, rec: rec}
}

// Summary describe el set actualmente cargado.
func (s *AdminArtifactsService) Summary(ctx context.Context) *ArtifactSummary {
	art := s.rec.Artifacts()
	return &ArtifactSummary{
		Manifest:       art.Manifest,
		Movies:         len(art.Movies),
		UsersWithHist:  art.Users(),
		PopularityRows: len(art.Popularity),
		ItemGraphDim:   art.ItemGraph.Rows,
		ItemGraphNNZ:   art.ItemGraph.NNZ(),
		ContentDim:     art.ContentGraph.Rows,
		ContentNNZ:     art.ContentGraph.NNZ(),
	}
}

// Reload carga el set completo desde disco y lo intercambia de una
// sola vez. Si algún artefacto falla la validación, el set anterior
// sigue sirviendo (todo o nada, igual que el arranque).
func (s *AdminArtifactsService) Reload(ctx context.Context) (*ArtifactSummary, error) {
	art, err := artifact.Load(s.cfg.ArtifactDir)
	if err != nil {
		return nil, err
	}
	s.rec.Reload(art)

	// respuestas cacheadas del set anterior dejan de valer
	if err := cache.InvalidatePrefix(ctx, "rec:"); err != nil {
		log.Printf("[admin] error invalidando cache: %v", err)
	}
	return s.Summary(ctx), nil
}
