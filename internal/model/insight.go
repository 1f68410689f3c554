package model

// Insight is a single actionable observation about the target site.
// Insights are values: once a module emits one, nothing downstream modifies it.
type Insight struct {
	Category    Category `json:"category"`
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Impact      string   `json:"impact"`
	Solution    string   `json:"solution"`
	Effort      Effort   `json:"effort"`
	ROI         int      `json:"roi"`
}

// Key returns the identity used when deduplicating insights.
func (i Insight) Key() string {
	return string(i.Category) + "|" + i.Title
}

// Recommendation is an insight restated as a prioritized action.
type Recommendation struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Impact      string   `json:"impact"`
	Effort      Effort   `json:"effort"`
	ROI         int      `json:"roi"`
	Priority    int      `json:"priority"`
	Category    Category `json:"category"`
}

// Recommendation priorities. Lower is more urgent.
const (
	PriorityUrgent   = 1
	PriorityHigh     = 2
	PriorityStandard = 3
)
