package artifact

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"nodosml-recsys/internal/models"
	"nodosml-recsys/internal/pipeline"
	"nodosml-recsys/internal/sparse"
)

// bundle de juguete con dos películas por grafo.
func testBundle() *Bundle {
	graph := func() *sparse.CSR {
		return sparse.FromRows([][]sparse.Entry{
			{{Col: 1, Val: 0.9}},
			{{Col: 0, Val: 0.9}},
		}, 2)
	}
	index := map[int]int{10: 0, 20: 1}
	inverse := map[int]int{0: 10, 1: 20}

	return &Bundle{
		Popularity: []models.PopularityEntry{
			{MovieID: 10, BayesianScore: 4.2, RatingCount: 3, PositiveRatio: 1.0},
			{MovieID: 20, BayesianScore: 3.9, RatingCount: 5, PositiveRatio: 0.6},
		},
		Item:    &pipeline.Neighbors{Graph: graph(), MovieIndex: index, IndexMovie: inverse},
		Content: &pipeline.Neighbors{Graph: graph(), MovieIndex: index, IndexMovie: inverse},
		History: []models.UserHistory{
			{UserID: 1, WatchedItems: []int{10, 20}, LikedItems: []int{10}},
		},
		Movies: []models.MovieMeta{
			{MovieID: 10, Title: "Heat (1995)", CleanTitle: "Heat", Genres: []string{"Crime"}},
			{MovieID: 20, Title: "Ronin (1998)", CleanTitle: "Ronin", Genres: []string{"Action"}},
		},
		Manifest: Manifest{TopK: 100, MinRating: 4.0, Smoothing: 20.0, Movies: 2, Users: 1},
	}
}

func TestExportLoadRoundtrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "artifacts")
	b := testBundle()

	if err := Export(dir, b); err != nil {
		t.Fatalf("Export: %v", err)
	}

	// el directorio temporal no debe quedar colgando
	if _, err := os.Stat(dir + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("quedó el directorio temporal: %v", err)
	}

	s, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !reflect.DeepEqual(s.Popularity, b.Popularity) {
		t.Errorf("popularity = %+v", s.Popularity)
	}
	if !reflect.DeepEqual(s.ItemGraph, b.Item.Graph) {
		t.Errorf("item graph = %+v", s.ItemGraph)
	}
	if !reflect.DeepEqual(s.ItemIndex.MovieIndex, b.Item.MovieIndex) {
		t.Errorf("item index = %+v", s.ItemIndex)
	}
	if s.Manifest.TopK != 100 || s.Manifest.Smoothing != 20.0 {
		t.Errorf("manifest = %+v", s.Manifest)
	}

	if meta := s.Meta(10); meta == nil || meta.CleanTitle != "Heat" {
		t.Errorf("Meta(10) = %+v", meta)
	}
	if meta := s.Meta(999); meta != nil {
		t.Errorf("Meta(999) = %+v, esperaba nil", meta)
	}
	if h := s.History(1); h == nil || !reflect.DeepEqual(h.LikedItems, []int{10}) {
		t.Errorf("History(1) = %+v", h)
	}
	if h := s.History(999); h != nil {
		t.Errorf("History(999) = %+v, esperaba nil", h)
	}
	if s.Users() != 1 {
		t.Errorf("Users() = %d", s.Users())
	}
}

func TestExportReemplazaSetAnterior(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "artifacts")

	if err := Export(dir, testBundle()); err != nil {
		t.Fatalf("primer Export: %v", err)
	}

	b2 := testBundle()
	b2.Manifest.TopK = 50
	if err := Export(dir, b2); err != nil {
		t.Fatalf("segundo Export: %v", err)
	}

	s, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Manifest.TopK != 50 {
		t.Errorf("manifest.topK = %d, esperaba el set nuevo (50)", s.Manifest.TopK)
	}
	if _, err := os.Stat(dir + ".old"); !os.IsNotExist(err) {
		t.Errorf("quedó el directorio .old: %v", err)
	}
}

func TestLoadFallaConSetInconsistente(t *testing.T) {
	t.Run("archivo ausente", func(t *testing.T) {
		if _, err := Load(t.TempDir()); err == nil {
			t.Error("esperaba error con directorio vacío")
		}
	})

	t.Run("índice que no calza con el grafo", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "artifacts")
		if err := Export(dir, testBundle()); err != nil {
			t.Fatal(err)
		}
		// sobreescribimos el índice con uno de otra dimensión
		bad := IDIndex{MovieIndex: map[int]int{10: 0}, IndexMovie: map[int]int{0: 10}}
		if err := SaveJSON(filepath.Join(dir, FileItemIndex), bad); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(dir); err == nil {
			t.Error("esperaba error con índice de dimensión incorrecta")
		}
	})
}

func TestNewSetValidaGrafos(t *testing.T) {
	b := testBundle()
	// grafo no cuadrado
	rect := sparse.FromRows([][]sparse.Entry{{{Col: 0, Val: 1}}}, 3)
	_, err := NewSet(b.Popularity,
		rect, IDIndex{MovieIndex: map[int]int{10: 0}, IndexMovie: map[int]int{0: 10}},
		b.Content.Graph, IDIndex{MovieIndex: b.Content.MovieIndex, IndexMovie: b.Content.IndexMovie},
		b.Movies, b.History, b.Manifest)
	if err == nil {
		t.Error("esperaba error con grafo no cuadrado")
	}
}
