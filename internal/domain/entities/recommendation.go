package entities

// RecommendedLoad is one ranked candidate returned by the recommendation
// engine. The engine owns the scoring; the evaluation core never recomputes it.
type RecommendedLoad struct {
	LoadID int64   `json:"load_id"`
	Score  float64 `json:"recommendation_score"`
}
