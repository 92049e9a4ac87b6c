package enums

import "fmt"

// ReviewOrder names the supported orderings for public review listings.
type ReviewOrder string

const (
	ReviewOrderCreated    ReviewOrder = "created"
	ReviewOrderEngagement ReviewOrder = "engagement"
)

var validReviewOrders = []ReviewOrder{
	ReviewOrderCreated,
	ReviewOrderEngagement,
}

// IsValid reports whether the value is known.
func (o ReviewOrder) IsValid() bool {
	for _, candidate := range validReviewOrders {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseReviewOrder converts raw strings into ReviewOrder.
func ParseReviewOrder(value string) (ReviewOrder, error) {
	for _, candidate := range validReviewOrders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid review order %q", value)
}
