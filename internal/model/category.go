package model

// Category classifies an insight by the area of the website it concerns.
type Category string

// Insight categories.
const (
	CategorySEO         Category = "SEO"
	CategoryPerformance Category = "Performance"
	CategoryUX          Category = "UX"
	CategoryConversion  Category = "Conversion"
	CategoryTechnical   Category = "Technical"
	CategoryContent     Category = "Content"
	CategoryMobile      Category = "Mobile"
	CategorySecurity    Category = "Security"
)

// AllCategories returns every category in report order.
func AllCategories() []Category {
	return []Category{
		CategorySEO,
		CategoryPerformance,
		CategoryUX,
		CategoryConversion,
		CategoryTechnical,
		CategoryContent,
		CategoryMobile,
		CategorySecurity,
	}
}

// String returns the string representation of the Category.
func (c Category) String() string {
	return string(c)
}

// IsValid returns true if this is a known category.
func (c Category) IsValid() bool {
	switch c {
	case CategorySEO, CategoryPerformance, CategoryUX, CategoryConversion,
		CategoryTechnical, CategoryContent, CategoryMobile, CategorySecurity:
		return true
	default:
		return false
	}
}

// Effort estimates the work required to act on an insight.
type Effort string

// Effort levels.
const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// String returns the string representation of the Effort.
func (e Effort) String() string {
	return string(e)
}

// IsValid returns true if this is a known effort level.
func (e Effort) IsValid() bool {
	switch e {
	case EffortLow, EffortMedium, EffortHigh:
		return true
	default:
		return false
	}
}
