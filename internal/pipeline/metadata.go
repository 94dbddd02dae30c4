package pipeline

import (
	"regexp"
	"strings"

	"nodosml-recsys/internal/models"
)

var yearRe = regexp.MustCompile(`\((\d{4})\)\s*$`)

// BuildMovieMeta normaliza la metadata que viaja en los artefactos:
// título limpio sin el sufijo "(YYYY)", año extraído (nil si el título
// no lo trae) y géneros como lista ordenada de strings. Conserva el
// orden de entrada, que es el orden de resolución de títulos en línea.
func BuildMovieMeta(movies []models.MovieDoc) []models.MovieMeta {
	out := make([]models.MovieMeta, 0, len(movies))
	for _, m := range movies {
		clean, year := ParseTitleYear(m.Title)
		if year == nil {
			year = m.Year
		}
		genres := m.Genres
		if genres == nil {
			genres = []string{}
		}
		out = append(out, models.MovieMeta{
			MovieID:    m.MovieID,
			Title:      m.Title,
			CleanTitle: clean,
			Genres:     genres,
			Year:       year,
		})
	}
	return out
}

// ParseTitleYear separa el sufijo de año "(YYYY)" típico de MovieLens.
func ParseTitleYear(raw string) (string, *int) {
	raw = strings.TrimSpace(raw)
	m := yearRe.FindStringSubmatch(raw)
	if len(m) != 2 {
		return raw, nil
	}
	year := 0
	for _, d := range m[1] {
		year = year*10 + int(d-'0')
	}
	clean := strings.TrimSpace(yearRe.ReplaceAllString(raw, ""))
	return clean, &year
}
