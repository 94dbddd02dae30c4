package pipeline

import (
	"math"
	"reflect"
	"testing"

	"nodosml-recsys/internal/models"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Toy Story (1995)", []string{"toy", "story", "1995"}},
		{"X-Men", []string{"men"}}, // tokens de un solo carácter se descartan
		{"  ", nil},
		{"Amélie", []string{"am", "lie"}},
	}
	for _, c := range cases {
		if got := tokenize(c.in); !reflect.DeepEqual(got, c.want) {
			t.Errorf("tokenize(%q) = %v, esperaba %v", c.in, got, c.want)
		}
	}
}

func TestNgrams(t *testing.T) {
	got := ngrams([]string{"toy", "story", "1995"})
	want := []string{"toy", "story", "1995", "toy story", "story 1995"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ngrams = %v, esperaba %v", got, want)
	}

	if got := ngrams([]string{"solo"}); !reflect.DeepEqual(got, []string{"solo"}) {
		t.Errorf("un solo token no genera bigramas: %v", got)
	}
}

func TestBuildVocabulary(t *testing.T) {
	docs := [][]string{
		{"action", "drama", "action"}, // repetido en el doc cuenta df=1
		{"drama", "comedy"},
	}
	vocab, df := buildVocabulary(docs)

	if df["action"] != 1 || df["drama"] != 2 || df["comedy"] != 1 {
		t.Errorf("df = %v", df)
	}
	// columnas en orden alfabético
	want := map[string]int{"action": 0, "comedy": 1, "drama": 2}
	if !reflect.DeepEqual(vocab, want) {
		t.Errorf("vocab = %v, esperaba %v", vocab, want)
	}
}

func TestVectorizeIDF(t *testing.T) {
	docs := [][]string{
		{"drama", "drama", "action"},
		{"drama"},
	}
	vocab, df := buildVocabulary(docs)
	m := vectorize(docs, vocab, df, len(docs))

	// idf suavizado: ln((1+N)/(1+df)) + 1
	idfAction := math.Log(3.0/2.0) + 1
	idfDrama := math.Log(3.0/3.0) + 1

	cols, vals := m.Row(0)
	if len(cols) != 2 {
		t.Fatalf("fila 0 con %d entradas", len(cols))
	}
	// columnas: action=0, drama=1
	if !approx(vals[0], 1*idfAction) {
		t.Errorf("tfidf(doc0, action) = %v, esperaba %v", vals[0], idfAction)
	}
	if !approx(vals[1], 2*idfDrama) {
		t.Errorf("tfidf(doc0, drama) = %v, esperaba %v", vals[1], 2*idfDrama)
	}
}

func TestBuildContentNeighbors(t *testing.T) {
	movies := []models.MovieDoc{
		{MovieID: 1, Title: "Heat (1995)", Genres: []string{"Action", "Crime"}},
		{MovieID: 2, Title: "Ronin (1998)", Genres: []string{"Action", "Crime"}},
		{MovieID: 3, Title: "Sabrina (1995)", Genres: []string{"Comedy", "Romance"}},
	}

	n := BuildContentNeighbors(movies, 10)

	if n.Graph.Rows != 3 || n.Graph.Cols != 3 {
		t.Fatalf("grafo %dx%d", n.Graph.Rows, n.Graph.Cols)
	}
	for _, m := range movies {
		if idx, ok := n.MovieIndex[m.MovieID]; !ok || n.IndexMovie[idx] != m.MovieID {
			t.Errorf("mapeo inconsistente para movieId=%d", m.MovieID)
		}
	}

	// 1 y 2 comparten géneros: su mejor vecino mutuo debe ser el otro
	row0 := rowAsMap(t, n.Graph, n.MovieIndex[1])
	if row0[n.MovieIndex[2]] <= row0[n.MovieIndex[3]] {
		t.Errorf("esperaba sim(1,2) > sim(1,3): %v", row0)
	}
	if _, ok := row0[n.MovieIndex[1]]; ok {
		t.Error("self-loop en el grafo de contenido")
	}
}
