package model

// RealityID is the game id recorded for facts that are not about any catalog game
const RealityID = "0"

// Session metadata keys
const (
	SessionUser     = "user"
	SessionID       = "session_id"
	SessionLastGame = "last_game"
)

// Relation is a subject-relation-object fact extracted from text
type Relation struct {
	Subject        string  `json:"subject"`
	Relation       string  `json:"relation"` // verb lemma
	Object         string  `json:"object"`
	Extra          string  `json:"extra,omitempty"` // stranded preposition or particle
	OriginalPhrase string  `json:"original_phrase"`
	GameID         string  `json:"game_id"`
	FranchiseID    *string `json:"franchise_id,omitempty"`
}

// RelationKey identifies a fact; storing the same key twice is a no-op
type RelationKey struct {
	Subject  string
	Relation string
	Object   string
	GameID   string
}

// Key returns the uniqueness key of the relation
func (r Relation) Key() RelationKey {
	return RelationKey{
		Subject:  r.Subject,
		Relation: r.Relation,
		Object:   r.Object,
		GameID:   r.GameID,
	}
}
