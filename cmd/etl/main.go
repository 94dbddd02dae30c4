package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"nodosml-recsys/internal/config"
	"nodosml-recsys/internal/db"
	"nodosml-recsys/internal/models"
	"nodosml-recsys/internal/pipeline"

	"go.mongodb.org/mongo-driver/bson"
)

const insertBatch = 5000

// ETL: carga los CSV de MovieLens (ratings.csv y movies.csv) en Mongo.
// Es la única entrada de datos crudos; el pipeline offline y la API
// leen siempre de Mongo.
func main() {
	cfg := config.Load()

	ratingsPath := flag.String("ratings", "", "ruta a ratings.csv (userId,movieId,rating,timestamp)")
	moviesPath := flag.String("movies", "", "ruta a movies.csv (movieId,title,genres)")
	drop := flag.Bool("drop", false, "si true, vacía las colecciones antes de cargar")
	flag.Parse()

	if *ratingsPath == "" || *moviesPath == "" {
		log.Fatal("[etl] --ratings y --movies son obligatorios")
	}

	db.InitMongo(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	start := time.Now()

	if *drop {
		for _, col := range []string{"ratings", "movies"} {
			if _, err := db.DB().Collection(col).DeleteMany(ctx, bson.M{}); err != nil {
				log.Fatalf("[etl] error vaciando %s: %v", col, err)
			}
		}
		log.Println("[etl] colecciones vaciadas")
	}

	ratings, stats, err := loadRatings(ctx, *ratingsPath)
	if err != nil {
		log.Fatalf("[etl] ratings: %v", err)
	}
	movies, err := loadMovies(ctx, *moviesPath, stats)
	if err != nil {
		log.Fatalf("[etl] movies: %v", err)
	}

	log.Printf("[etl] cargados %d ratings y %d películas en %s", ratings, movies, time.Since(start))
}

type ratingStats struct {
	count int
	sum   float64
	last  int64
}

// checkHeader verifica que el CSV traiga exactamente las columnas
// requeridas; si falta alguna es un error de configuración y se aborta.
func checkHeader(got, want []string, path string) error {
	if len(got) < len(want) {
		return fmt.Errorf("%s: header %v, se esperaban columnas %v", path, got, want)
	}
	for i, name := range want {
		if strings.TrimSpace(strings.ToLower(got[i])) != strings.ToLower(name) {
			return fmt.Errorf("%s: columna %d es %q, se esperaba %q", path, i, got[i], name)
		}
	}
	return nil
}

func loadRatings(ctx context.Context, path string) (int, map[int]*ratingStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return 0, nil, err
	}
	if err := checkHeader(header, []string{"userId", "movieId", "rating", "timestamp"}, path); err != nil {
		return 0, nil, err
	}

	col := db.DB().Collection("ratings")
	stats := make(map[int]*ratingStats)
	batch := make([]any, 0, insertBatch)
	total := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := col.InsertMany(ctx, batch); err != nil {
			return err
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, nil, err
		}

		userID, err1 := strconv.Atoi(rec[0])
		movieID, err2 := strconv.Atoi(rec[1])
		rating, err3 := strconv.ParseFloat(rec[2], 64)
		ts, err4 := strconv.ParseInt(rec[3], 10, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			log.Printf("[etl] fila de rating inválida %v, se omite", rec)
			continue
		}

		batch = append(batch, models.RatingDoc{
			UserID:    userID,
			MovieID:   movieID,
			Rating:    rating,
			Timestamp: ts,
		})

		st, ok := stats[movieID]
		if !ok {
			st = &ratingStats{}
			stats[movieID] = st
		}
		st.count++
		st.sum += rating
		if ts > st.last {
			st.last = ts
		}

		if len(batch) == insertBatch {
			if err := flush(); err != nil {
				return 0, nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return 0, nil, err
	}
	return total, stats, nil
}

func loadMovies(ctx context.Context, path string, stats map[int]*ratingStats) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return 0, err
	}
	if err := checkHeader(header, []string{"movieId", "title", "genres"}, path); err != nil {
		return 0, err
	}

	col := db.DB().Collection("movies")
	now := time.Now().UTC().Format(time.RFC3339)
	batch := make([]any, 0, insertBatch)
	total := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := col.InsertMany(ctx, batch); err != nil {
			return err
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}

		movieID, err := strconv.Atoi(rec[0])
		if err != nil {
			log.Printf("[etl] fila de película inválida %v, se omite", rec)
			continue
		}

		title := strings.TrimSpace(rec[1])
		_, year := pipeline.ParseTitleYear(title)

		var genres []string
		if rec[2] != "" && rec[2] != "(no genres listed)" {
			genres = strings.Split(rec[2], "|")
		} else {
			genres = []string{}
		}

		doc := models.MovieDoc{
			MovieID:   movieID,
			Title:     title,
			Year:      year,
			Genres:    genres,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if st, ok := stats[movieID]; ok && st.count > 0 {
			doc.RatingStats = &models.RatingStats{
				Average:     st.sum / float64(st.count),
				Count:       st.count,
				LastRatedAt: time.Unix(st.last, 0).UTC().Format(time.RFC3339),
			}
		}

		batch = append(batch, doc)
		if len(batch) == insertBatch {
			if err := flush(); err != nil {
				return 0, err
			}
		}
	}
	if err := flush(); err != nil {
		return 0, err
	}
	return total, nil
}
