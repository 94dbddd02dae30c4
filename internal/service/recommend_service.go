package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"nodosml-recsys/internal/artifact"
	"nodosml-recsys/internal/cache"
	"nodosml-recsys/internal/models"
	"nodosml-recsys/internal/repository"
	"nodosml-recsys/internal/sparse"
)

const (
	DefaultK = 10
	MaxK     = 200 // por seguridad, no deja pedir 1000 ítems
)

// RecommendService responde las tres estrategias (popular, item-cf,
// contenido) como funciones puras sobre los artefactos cargados. Los
// artefactos son inmutables; el único punto de escritura es Reload, que
// cambia el set completo de una vez (nunca se muta un grafo cargado).
type RecommendService struct {
	mu      sync.RWMutex
	art     *artifact.Set
	recRepo *repository.RecommendationRepository
}

func NewRecommendService(art *artifact.Set, recRepo *repository.RecommendationRepository) *RecommendService {
	return &RecommendService{art: art, recRepo: recRepo}
}

// Artifacts devuelve el set actualmente servido.
func (s *RecommendService) Artifacts() *artifact.Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.art
}

// Reload reemplaza el set completo de artefactos (refresh atómico tras
// una nueva corrida offline).
func (s *RecommendService) Reload(art *artifact.Set) {
	s.mu.Lock()
	s.art = art
	s.mu.Unlock()
	log.Println("[recommend] artefactos recargados")
}

// ====== Popular ======

// Popular devuelve las primeras k filas del ranking de popularidad
// precalculado. userID es solo para logging/atribución, no entra al
// score. Nunca falla.
func (s *RecommendService) Popular(ctx context.Context, userID *int, k int) []models.RecItem {
	if userID != nil {
		log.Printf("[recommend] popular solicitado por user=%d k=%d", *userID, k)
	}

	key := fmt.Sprintf("rec:popular:k:%d", k)
	var cached []models.RecItem
	if ok, err := cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached
	}

	art := s.Artifacts()
	items := make([]models.RecItem, 0, k)
	for _, p := range art.Popularity {
		if len(items) >= k {
			break
		}
		items = append(items, s.recItem(art, p.MovieID, p.BayesianScore, "popular", "Muy bien valorada por la comunidad."))
	}

	if err := cache.SetJSON(ctx, key, items, 60*60); err != nil {
		log.Printf("[recommend] error cacheando popular: %v", err)
	}
	return items
}

// ====== Item-based CF ======

// ItemCF produce recomendaciones personalizadas sumando las filas de
// vecinos de los ítems que el usuario marcó como positivos. Usuario sin
// historial (o sin ítems usables) devuelve lista vacía, no error.
func (s *RecommendService) ItemCF(ctx context.Context, userID, k int, refresh bool) []models.RecItem {
	key := fmt.Sprintf("rec:user:%d:k:%d", userID, k)
	if !refresh {
		var cached []models.RecItem
		if ok, err := cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached
		}
	}

	art := s.Artifacts()
	hist := art.History(userID)
	if hist == nil {
		return []models.RecItem{}
	}

	liked := hist.LikedItems
	if len(liked) == 0 {
		liked = hist.WatchedItems
	}
	if len(liked) == 0 {
		return []models.RecItem{}
	}

	scores := accumulate(art.ItemGraph, liked, art.ItemIndex.MovieIndex, "item-cf")

	// ya vistas nunca se recomiendan de nuevo
	excluded := make(map[int]bool, len(hist.WatchedItems))
	for _, movieID := range hist.WatchedItems {
		excluded[movieID] = true
	}

	reason := fmt.Sprintf("Porque te gustó %s", s.titleOf(art, liked[0]))
	items := s.rank(art, scores, art.ItemIndex.IndexMovie, excluded, k, "item_cf", reason)

	// historial en Mongo; si falla no rompemos la respuesta
	if s.recRepo != nil && len(items) > 0 {
		rec := &models.Recommendation{
			UserID: userID,
			Algo:   "item_cf",
			Params: map[string]any{"k": k, "refresh": refresh},
			Items:  items,
		}
		if err := s.recRepo.Insert(ctx, rec); err != nil {
			log.Printf("[recommend] error guardando historial en Mongo: %v", err)
		}
	}

	if err := cache.SetJSON(ctx, key, items, 60*60); err != nil {
		log.Printf("[recommend] error cacheando recomendación: %v", err)
	}
	return items
}

// ====== Por títulos (contenido) ======

// ByTitles resuelve cada título semilla contra la metadata (substring
// case-insensitive, primera coincidencia en orden de tabla — limitación
// conocida con títulos ambiguos), deduplica las semillas resueltas y
// suma sus filas del grafo de contenido. Si ninguna semilla resuelve
// devuelve lista vacía.
func (s *RecommendService) ByTitles(ctx context.Context, titles []string, k int) []models.RecItem {
	art := s.Artifacts()

	var seeds []int
	seen := make(map[int]bool)
	for _, title := range titles {
		movieID, ok := resolveTitle(art, title)
		if !ok {
			log.Printf("[recommend] título %q no resuelve, se omite", title)
			continue
		}
		// semillas repetidas o con alias cuentan una sola vez
		if !seen[movieID] {
			seen[movieID] = true
			seeds = append(seeds, movieID)
		}
	}
	if len(seeds) == 0 {
		return []models.RecItem{}
	}

	scores := accumulate(art.ContentGraph, seeds, art.ContentIndex.MovieIndex, "content")

	// las propias semillas nunca aparecen en el resultado
	excluded := make(map[int]bool, len(seeds))
	for _, movieID := range seeds {
		excluded[movieID] = true
	}

	reason := fmt.Sprintf("Similar a %s", titles[0])
	return s.rank(art, scores, art.ContentIndex.IndexMovie, excluded, k, "content", reason)
}

// ServedHistory lista las últimas listas personalizadas que se le
// guardaron a un usuario (más reciente primero).
func (s *RecommendService) ServedHistory(ctx context.Context, userID int, limit int64) ([]models.Recommendation, error) {
	if s.recRepo == nil {
		return []models.Recommendation{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	recs, err := s.recRepo.FindByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []models.Recommendation{}
	}
	return recs, nil
}

// ====== núcleo de agregación ======

// accumulate suma las filas de vecinos de cada semilla en un acumulador
// denso sobre todo el catálogo del grafo. Semillas sin índice en el
// grafo se saltan en silencio: la cobertura parcial de ids entre
// artefactos con cadencias de refresh distintas es esperada, no un
// error.
func accumulate(graph *sparse.CSR, seeds []int, movieIndex map[int]int, tag string) []float64 {
	scores := make([]float64, graph.Rows)
	for _, movieID := range seeds {
		idx, ok := movieIndex[movieID]
		if !ok {
			log.Printf("[recommend] movieId=%d sin índice en grafo %s, se omite", movieID, tag)
			continue
		}
		cols, vals := graph.Row(idx)
		for p, c := range cols {
			scores[c] += vals[p]
		}
	}
	return scores
}

type scoredMovie struct {
	movieID int
	score   float64
}

// rank ordena los candidatos acumulados (score descendente, empates por
// movieId ascendente), descarta excluidos e índices sin mapeo inverso,
// y arma los primeros k ítems de respuesta.
func (s *RecommendService) rank(
	art *artifact.Set,
	scores []float64,
	indexMovie map[int]int,
	excluded map[int]bool,
	k int,
	source, reason string,
) []models.RecItem {

	cands := make([]scoredMovie, 0, len(scores))
	for idx, score := range scores {
		if score <= 0 {
			continue
		}
		movieID, ok := indexMovie[idx]
		if !ok || excluded[movieID] {
			continue
		}
		cands = append(cands, scoredMovie{movieID: movieID, score: score})
	}

	sort.Slice(cands, func(a, b int) bool {
		if cands[a].score != cands[b].score {
			return cands[a].score > cands[b].score
		}
		return cands[a].movieID < cands[b].movieID
	})
	if len(cands) > k {
		cands = cands[:k]
	}

	items := make([]models.RecItem, 0, len(cands))
	for _, c := range cands {
		items = append(items, s.recItem(art, c.movieID, c.score, source, reason))
	}
	return items
}

// ====== helpers de presentación ======

func (s *RecommendService) recItem(art *artifact.Set, movieID int, score float64, source, reason string) models.RecItem {
	meta := art.Meta(movieID)
	title := fmt.Sprintf("Movie %d", movieID)
	genres := []string{}
	if meta != nil {
		title = displayTitle(meta)
		genres = meta.Genres
	}
	return models.RecItem{
		MovieID: movieID,
		Title:   title,
		Genres:  genres,
		Score:   score,
		Source:  source,
		Reason:  reason,
	}
}

func (s *RecommendService) titleOf(art *artifact.Set, movieID int) string {
	if meta := art.Meta(movieID); meta != nil {
		return displayTitle(meta)
	}
	return fmt.Sprintf("Movie %d", movieID)
}

func displayTitle(meta *models.MovieMeta) string {
	if meta.CleanTitle != "" {
		return FormatTitle(meta.CleanTitle)
	}
	return FormatTitle(meta.Title)
}

// resolveTitle busca la primera película cuyo título normalizado
// contenga el texto (case-insensitive), en orden de tabla.
func resolveTitle(art *artifact.Set, title string) (int, bool) {
	needle := strings.ToLower(strings.TrimSpace(title))
	if needle == "" {
		return 0, false
	}
	for _, m := range art.Movies {
		haystack := m.CleanTitle
		if haystack == "" {
			haystack = m.Title
		}
		// se compara también contra la forma con el artículo adelante,
		// para que "The Matrix" encuentre "Matrix, The"
		if strings.Contains(strings.ToLower(haystack), needle) ||
			strings.Contains(strings.ToLower(FormatTitle(haystack)), needle) {
			return m.MovieID, true
		}
	}
	return 0, false
}

// FormatTitle mueve el artículo colgante del formato MovieLens al
// inicio ("Matrix, The" -> "The Matrix"). Es idempotente: un título ya
// formateado sale igual.
func FormatTitle(raw string) string {
	title := strings.TrimSpace(raw)
	for _, article := range []string{"The", "An", "A"} {
		suffix := ", " + article
		if strings.HasSuffix(title, suffix) {
			return article + " " + strings.TrimSpace(strings.TrimSuffix(title, suffix))
		}
	}
	return title
}
