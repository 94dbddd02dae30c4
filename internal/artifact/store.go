package artifact

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"nodosml-recsys/internal/models"
	"nodosml-recsys/internal/pipeline"
	"nodosml-recsys/internal/sparse"
)

// Nombres de archivo dentro del directorio de artefactos.
const (
	FileItemNeighbors    = "item_neighbors.bin"
	FileItemIndex        = "item_index.json"
	FileContentNeighbors = "content_neighbors.bin"
	FileContentIndex     = "content_index.json"
	FilePopularity       = "pop_score.json"
	FileMovieMeta        = "movie_meta.json"
	FileUserHistory      = "user_history.json"
	FileManifest         = "manifest.json"
)

// Manifest describe una corrida offline; informativo.
type Manifest struct {
	BuiltAt      string  `json:"builtAt"`
	TopK         int     `json:"topK"`
	MinRating    float64 `json:"minRating"`
	Smoothing    float64 `json:"smoothing"`
	Ratings      int     `json:"ratings"`
	TrainRatings int     `json:"trainRatings"`
	Movies       int     `json:"movies"`
	Users        int     `json:"users"`
}

// Bundle es el producto completo de una corrida offline, listo para
// exportar.
type Bundle struct {
	Popularity []models.PopularityEntry
	Item       *pipeline.Neighbors
	Content    *pipeline.Neighbors
	History    []models.UserHistory
	Movies     []models.MovieMeta
	Manifest   Manifest
}

// Export escribe todos los artefactos de forma atómica: primero a un
// directorio temporal y al final un rename que reemplaza el set
// anterior completo. Un set nunca se muta en el lugar.
func Export(dir string, b *Bundle) error {
	tmp := dir + ".tmp"
	if err := os.RemoveAll(tmp); err != nil {
		return err
	}
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return err
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{FileItemNeighbors, func() error { return SaveCSR(filepath.Join(tmp, FileItemNeighbors), b.Item.Graph) }},
		{FileItemIndex, func() error {
			return SaveJSON(filepath.Join(tmp, FileItemIndex), IDIndex{MovieIndex: b.Item.MovieIndex, IndexMovie: b.Item.IndexMovie})
		}},
		{FileContentNeighbors, func() error { return SaveCSR(filepath.Join(tmp, FileContentNeighbors), b.Content.Graph) }},
		{FileContentIndex, func() error {
			return SaveJSON(filepath.Join(tmp, FileContentIndex), IDIndex{MovieIndex: b.Content.MovieIndex, IndexMovie: b.Content.IndexMovie})
		}},
		{FilePopularity, func() error { return SaveJSON(filepath.Join(tmp, FilePopularity), b.Popularity) }},
		{FileMovieMeta, func() error { return SaveJSON(filepath.Join(tmp, FileMovieMeta), b.Movies) }},
		{FileUserHistory, func() error { return SaveJSON(filepath.Join(tmp, FileUserHistory), b.History) }},
		{FileManifest, func() error { return SaveJSON(filepath.Join(tmp, FileManifest), b.Manifest) }},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return fmt.Errorf("exportando %s: %w", s.name, err)
		}
	}

	old := dir + ".old"
	if _, err := os.Stat(dir); err == nil {
		if err := os.RemoveAll(old); err != nil {
			return err
		}
		if err := os.Rename(dir, old); err != nil {
			return err
		}
	}
	if err := os.Rename(tmp, dir); err != nil {
		return err
	}
	_ = os.RemoveAll(old)

	log.Printf("[artifact] set exportado en %s", dir)
	return nil
}

// Set son los artefactos cargados en memoria. Tras Load el set es
// inmutable y de solo lectura durante toda la vida del proceso; las
// requests concurrentes lo comparten sin locks.
type Set struct {
	Popularity   []models.PopularityEntry
	ItemGraph    *sparse.CSR
	ItemIndex    IDIndex
	ContentGraph *sparse.CSR
	ContentIndex IDIndex
	Movies       []models.MovieMeta
	Manifest     Manifest

	metaByID  map[int]int
	histByID  map[int]int
	histories []models.UserHistory
}

// NewSet arma un set en memoria, valida la consistencia entre grafos e
// índices y construye los lookups internos.
func NewSet(
	popularity []models.PopularityEntry,
	itemGraph *sparse.CSR, itemIndex IDIndex,
	contentGraph *sparse.CSR, contentIndex IDIndex,
	movies []models.MovieMeta,
	histories []models.UserHistory,
	manifest Manifest,
) (*Set, error) {

	s := &Set{
		Popularity:   popularity,
		ItemGraph:    itemGraph,
		ItemIndex:    itemIndex,
		ContentGraph: contentGraph,
		ContentIndex: contentIndex,
		Movies:       movies,
		Manifest:     manifest,
		histories:    histories,
	}
	if err := s.validate(); err != nil {
		return nil, err
	}

	s.metaByID = make(map[int]int, len(s.Movies))
	for i, m := range s.Movies {
		s.metaByID[m.MovieID] = i
	}
	s.histByID = make(map[int]int, len(s.histories))
	for i, h := range s.histories {
		s.histByID[h.UserID] = i
	}
	return s, nil
}

// Load lee y valida el set completo. Cualquier archivo ausente,
// malformado, o un NeighborIndex que no calce con la dimensión de su
// grafo hace fallar la carga entera: el servicio se niega a arrancar
// con estado parcial.
func Load(dir string) (*Set, error) {
	var (
		popularity   []models.PopularityEntry
		itemIndex    IDIndex
		contentIndex IDIndex
		movies       []models.MovieMeta
		histories    []models.UserHistory
		manifest     Manifest
	)

	itemGraph, err := LoadCSR(filepath.Join(dir, FileItemNeighbors))
	if err != nil {
		return nil, err
	}
	if err = LoadJSON(filepath.Join(dir, FileItemIndex), &itemIndex); err != nil {
		return nil, err
	}
	contentGraph, err := LoadCSR(filepath.Join(dir, FileContentNeighbors))
	if err != nil {
		return nil, err
	}
	if err = LoadJSON(filepath.Join(dir, FileContentIndex), &contentIndex); err != nil {
		return nil, err
	}
	if err = LoadJSON(filepath.Join(dir, FilePopularity), &popularity); err != nil {
		return nil, err
	}
	if err = LoadJSON(filepath.Join(dir, FileMovieMeta), &movies); err != nil {
		return nil, err
	}
	if err = LoadJSON(filepath.Join(dir, FileUserHistory), &histories); err != nil {
		return nil, err
	}
	if err = LoadJSON(filepath.Join(dir, FileManifest), &manifest); err != nil {
		return nil, err
	}

	s, err := NewSet(popularity, itemGraph, itemIndex, contentGraph, contentIndex, movies, histories, manifest)
	if err != nil {
		return nil, err
	}

	log.Printf("[artifact] set cargado: %d películas, %d usuarios, grafos %dx%d / %dx%d",
		len(s.Movies), len(s.histories),
		s.ItemGraph.Rows, s.ItemGraph.Cols,
		s.ContentGraph.Rows, s.ContentGraph.Cols)
	return s, nil
}

func (s *Set) validate() error {
	if s.ItemGraph.Rows != s.ItemGraph.Cols {
		return fmt.Errorf("grafo item-cf no es cuadrado: %dx%d", s.ItemGraph.Rows, s.ItemGraph.Cols)
	}
	if s.ContentGraph.Rows != s.ContentGraph.Cols {
		return fmt.Errorf("grafo de contenido no es cuadrado: %dx%d", s.ContentGraph.Rows, s.ContentGraph.Cols)
	}
	if err := s.ItemIndex.Validate(s.ItemGraph.Rows); err != nil {
		return fmt.Errorf("índice item-cf: %w", err)
	}
	if err := s.ContentIndex.Validate(s.ContentGraph.Rows); err != nil {
		return fmt.Errorf("índice de contenido: %w", err)
	}
	return nil
}

// Meta devuelve la metadata de una película, o nil si no existe.
func (s *Set) Meta(movieID int) *models.MovieMeta {
	if i, ok := s.metaByID[movieID]; ok {
		return &s.Movies[i]
	}
	return nil
}

// History devuelve el historial de un usuario, o nil si no existe.
func (s *Set) History(userID int) *models.UserHistory {
	if i, ok := s.histByID[userID]; ok {
		return &s.histories[i]
	}
	return nil
}

// Users devuelve cuántos usuarios tienen historial.
func (s *Set) Users() int {
	return len(s.histories)
}
