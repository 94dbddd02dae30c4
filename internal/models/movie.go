package models

type RatingStats struct {
	Average     float64 `json:"average" bson:"average"`
	Count       int     `json:"count" bson:"count"`
	LastRatedAt string  `json:"lastRatedAt,omitempty" bson:"lastRatedAt,omitempty"`
}

// MovieDoc es el documento de película en Mongo (cargado por el ETL).
type MovieDoc struct {
	MovieID     int          `json:"movieId" bson:"movieId"`
	Title       string       `json:"title" bson:"title"`
	Year        *int         `json:"year,omitempty" bson:"year,omitempty"`
	Genres      []string     `json:"genres" bson:"genres"`
	RatingStats *RatingStats `json:"ratingStats,omitempty" bson:"ratingStats,omitempty"`
	CreatedAt   string       `json:"createdAt" bson:"createdAt"`
	UpdatedAt   string       `json:"updatedAt" bson:"updatedAt"`
}

// MovieMeta es la fila de metadata que viaja en los artefactos offline.
// CleanTitle es el título sin el sufijo de año "(YYYY)"; Genres se guarda
// siempre como lista ordenada de strings (representación canónica única,
// sin contenedores heterogéneos).
type MovieMeta struct {
	MovieID    int      `json:"movieId"`
	Title      string   `json:"title"`
	CleanTitle string   `json:"cleanTitle"`
	Genres     []string `json:"genres"`
	Year       *int     `json:"year,omitempty"`
}
