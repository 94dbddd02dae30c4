package pipeline

import (
	"log"
	"math"
	"sort"
	"strings"

	"nodosml-recsys/internal/models"
	"nodosml-recsys/internal/sparse"
)

// Tamaño máximo del vocabulario TF-IDF (términos con mayor frecuencia
// documental).
const maxVocabulary = 5000

// BuildContentNeighbors construye el grafo de vecinos por contenido:
// título + géneros se tokenizan en unigramas y bigramas, se codifican
// como vectores TF-IDF y pasan por el mismo motor de similitud que el
// camino colaborativo. Aquí las entidades son filas directas, no
// columnas de una matriz de interacciones.
func BuildContentNeighbors(movies []models.MovieDoc, k int) *Neighbors {
	log.Printf("[content] construyendo vecinos con k=%d sobre %d películas", k, len(movies))

	docs := make([][]string, len(movies))
	movieIndex := make(map[int]int, len(movies))
	indexMovie := make(map[int]int, len(movies))
	ids := make([]int, len(movies))

	for i, m := range movies {
		// géneros vienen con separador reservado "|"
		text := m.Title + " " + strings.ReplaceAll(strings.Join(m.Genres, "|"), "|", " ")
		docs[i] = ngrams(tokenize(text))
		movieIndex[m.MovieID] = i
		indexMovie[i] = m.MovieID
		ids[i] = m.MovieID
	}

	vocab, df := buildVocabulary(docs)
	matrix := vectorize(docs, vocab, df, len(docs))
	log.Printf("[content] matriz TF-IDF %dx%d con %d entradas", matrix.Rows, matrix.Cols, matrix.NNZ())

	graph := CosineTopK(matrix, ids, k)
	log.Printf("[content] grafo %dx%d con %d entradas", graph.Rows, graph.Cols, graph.NNZ())

	return &Neighbors{
		Graph:      graph,
		MovieIndex: movieIndex,
		IndexMovie: indexMovie,
	}
}

// tokenize pasa a minúsculas y corta en secuencias alfanuméricas de al
// menos dos caracteres.
func tokenize(text string) []string {
	text = strings.ToLower(text)
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() >= 2 {
			tokens = append(tokens, cur.String())
		}
		cur.Reset()
	}
	for _, r := range text {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			cur.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// ngrams devuelve unigramas + bigramas (bigramas unidos con espacio).
func ngrams(tokens []string) []string {
	out := make([]string, 0, 2*len(tokens))
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// buildVocabulary cuenta frecuencia documental por término y recorta el
// vocabulario a los maxVocabulary términos con mayor df (empates por
// término ascendente, para que el corte sea reproducible). Los índices
// de columna se asignan en orden alfabético.
func buildVocabulary(docs [][]string) (map[string]int, map[string]int) {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool, len(doc))
		for _, term := range doc {
			if !seen[term] {
				df[term]++
				seen[term] = true
			}
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}

	if len(terms) > maxVocabulary {
		sort.Slice(terms, func(a, b int) bool {
			if df[terms[a]] != df[terms[b]] {
				return df[terms[a]] > df[terms[b]]
			}
			return terms[a] < terms[b]
		})
		terms = terms[:maxVocabulary]
	}
	sort.Strings(terms)

	vocab := make(map[string]int, len(terms))
	for i, term := range terms {
		vocab[term] = i
	}
	return vocab, df
}

// vectorize arma la matriz TF-IDF: tf = conteo crudo en el documento,
// idf = ln((1+N)/(1+df)) + 1 (suavizado). La normalización L2 la aplica
// después el motor de similitud.
func vectorize(docs [][]string, vocab map[string]int, df map[string]int, numDocs int) *sparse.CSR {
	rows := make([][]sparse.Entry, len(docs))
	for i, doc := range docs {
		tf := make(map[int]float64)
		for _, term := range doc {
			if col, ok := vocab[term]; ok {
				tf[col]++
			}
		}
		entries := make([]sparse.Entry, 0, len(tf))
		for col, count := range tf {
			entries = append(entries, sparse.Entry{Col: col, Val: count})
		}
		sort.Slice(entries, func(a, b int) bool { return entries[a].Col < entries[b].Col })
		rows[i] = entries
	}

	// idf por columna
	idf := make([]float64, len(vocab))
	for term, col := range vocab {
		idf[col] = math.Log(float64(1+numDocs)/float64(1+df[term])) + 1
	}
	for _, row := range rows {
		for p := range row {
			row[p].Val *= idf[row[p].Col]
		}
	}

	return sparse.FromRows(rows, len(vocab))
}
