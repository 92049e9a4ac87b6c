package enums

import "fmt"

// ReportCategory names the moderation report filters.
type ReportCategory string

const (
	ReportCategoryUnapproved ReportCategory = "unapproved"
	ReportCategoryLowRated   ReportCategory = "low_rated"
	ReportCategoryOffensive  ReportCategory = "offensive"
)

var validReportCategories = []ReportCategory{
	ReportCategoryUnapproved,
	ReportCategoryLowRated,
	ReportCategoryOffensive,
}

// IsValid reports whether the value is known.
func (c ReportCategory) IsValid() bool {
	for _, candidate := range validReportCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseReportCategory converts raw strings into ReportCategory.
func ParseReportCategory(value string) (ReportCategory, error) {
	for _, candidate := range validReportCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid report category %q", value)
}
