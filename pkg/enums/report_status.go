package enums

import "fmt"

// ReportStatus mirrors the admin_report status column.
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusRejected ReportStatus = "rejected"
)

var validReportStatuses = []ReportStatus{
	ReportStatusPending,
	ReportStatusRejected,
}

// String implements fmt.Stringer.
func (r ReportStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is known.
func (r ReportStatus) IsValid() bool {
	for _, candidate := range validReportStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseReportStatus converts raw strings into ReportStatus.
func ParseReportStatus(value string) (ReportStatus, error) {
	for _, candidate := range validReportStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid report status %q", value)
}
