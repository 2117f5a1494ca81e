package schema

// CriterionInfo describes one criterion and its active weight.
type CriterionInfo struct {
	Key         Criterion `json:"key"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
	Weight      float64   `json:"weight"`
	Share       float64   `json:"share"` // Percentage of the total weight
}

// CriteriaRenderModel contains all processed data needed for displaying criteria definitions.
type CriteriaRenderModel struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Criteria    []CriterionInfo `json:"criteria"`
	TotalWeight float64         `json:"total_weight"`
	Formula     string          `json:"formula"`
}
