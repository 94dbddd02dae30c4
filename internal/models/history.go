package models

// UserHistory resume las interacciones de un usuario en el set de
// entrenamiento. WatchedItems conserva el orden de las valoraciones;
// LikedItems es la subsecuencia con rating >= umbral.
type UserHistory struct {
	UserID       int   `json:"userId"`
	WatchedItems []int `json:"watchedItems"`
	LikedItems   []int `json:"likedItems"`
}
