package pipeline

import (
	"reflect"
	"testing"

	"nodosml-recsys/internal/models"
)

func TestParseTitleYear(t *testing.T) {
	cases := []struct {
		in    string
		clean string
		year  int // 0 = sin año
	}{
		{"Toy Story (1995)", "Toy Story", 1995},
		{"Matrix, The (1999)", "Matrix, The", 1999},
		{"Fargo", "Fargo", 0},
		{"Blade Runner (Director's Cut) (1982)", "Blade Runner (Director's Cut)", 1982},
		{"  Heat (1995)  ", "Heat", 1995},
		{"1984 (1956)", "1984", 1956},
	}
	for _, c := range cases {
		clean, year := ParseTitleYear(c.in)
		if clean != c.clean {
			t.Errorf("ParseTitleYear(%q) título = %q, esperaba %q", c.in, clean, c.clean)
		}
		if c.year == 0 {
			if year != nil {
				t.Errorf("ParseTitleYear(%q) año = %d, esperaba nil", c.in, *year)
			}
		} else if year == nil || *year != c.year {
			t.Errorf("ParseTitleYear(%q) año = %v, esperaba %d", c.in, year, c.year)
		}
	}
}

func TestBuildMovieMeta(t *testing.T) {
	year := 1990
	movies := []models.MovieDoc{
		{MovieID: 1, Title: "Goodfellas (1990)", Genres: []string{"Crime", "Drama"}},
		{MovieID: 2, Title: "Sin Año", Year: &year, Genres: nil},
	}

	out := BuildMovieMeta(movies)
	if len(out) != 2 {
		t.Fatalf("esperaba 2 filas, hay %d", len(out))
	}

	if out[0].CleanTitle != "Goodfellas" || out[0].Year == nil || *out[0].Year != 1990 {
		t.Errorf("meta[0] = %+v", out[0])
	}
	if !reflect.DeepEqual(out[0].Genres, []string{"Crime", "Drama"}) {
		t.Errorf("géneros = %v", out[0].Genres)
	}

	// sin año en el título cae al campo del documento; géneros nil se
	// normaliza a lista vacía
	if out[1].CleanTitle != "Sin Año" || out[1].Year == nil || *out[1].Year != 1990 {
		t.Errorf("meta[1] = %+v", out[1])
	}
	if out[1].Genres == nil || len(out[1].Genres) != 0 {
		t.Errorf("géneros de [1] = %#v, esperaba lista vacía", out[1].Genres)
	}
}
