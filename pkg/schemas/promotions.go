package schemas

// PromotionRequest is the body of POST /applications/promote.
type PromotionRequest struct {
	SourceAppID  string   `json:"source_app_id"`
	TargetAppIDs []string `json:"target_app_ids"`
}

// Promotion is a batch promotion of one source application to every target.
// A single identifier tracks the whole batch.
type Promotion struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// PromotionEnvelope wraps every promotion response: {"promote": {...}}.
type PromotionEnvelope struct {
	Promote Promotion `json:"promote"`
}
