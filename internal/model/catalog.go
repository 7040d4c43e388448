package model

import "time"

// Game is a catalog entity that questions are answered about
type Game struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	ReleaseDate *time.Time `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	Summary     string     `json:"summary,omitempty" yaml:"summary,omitempty"`
	Story       string     `json:"story,omitempty" yaml:"story,omitempty"`
	Rating      float64    `json:"rating" yaml:"rating"` // 0-100, negative when unknown
}

// HasRating reports whether the catalog knows a rating for the game
func (g Game) HasRating() bool {
	return g.Rating >= 0
}

// Franchise groups related games
type Franchise struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	GameIDs []string `json:"games,omitempty" yaml:"games,omitempty"`
}

// Catalog is the import format for games and franchises
type Catalog struct {
	Games      []Game      `yaml:"games"`
	Franchises []Franchise `yaml:"franchises"`
}
