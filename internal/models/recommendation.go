package models

import "time"

// RecItem es un ítem recomendado listo para responder por API.
// Source indica qué algoritmo lo produjo: "popular", "item_cf" o "content".
type RecItem struct {
	MovieID int      `json:"movieId" bson:"movieId"`
	Title   string   `json:"title" bson:"title"`
	Genres  []string `json:"genres" bson:"genres"`
	Score   float64  `json:"score" bson:"score"`
	Source  string   `json:"source" bson:"source"`
	Reason  string   `json:"reason" bson:"reason"`
}

// Recommendation es el historial que guardamos en Mongo por cada
// lista personalizada servida.
type Recommendation struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    int       `bson:"userId" json:"userId"`
	Algo      string    `bson:"algo" json:"algo"`
	Params    any       `bson:"params" json:"params"`
	Items     []RecItem `bson:"items" json:"items"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
