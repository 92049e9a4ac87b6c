package access

import (
	"github.com/batoolr/reviewhub-backend/pkg/db/models"
	"github.com/batoolr/reviewhub-backend/pkg/enums"
	"github.com/google/uuid"
)

// Action names a mutation gated by the authorization table.
type Action string

const (
	ActionEditProduct       Action = "edit_product"
	ActionDeleteProduct     Action = "delete_product"
	ActionEditReview        Action = "edit_review"
	ActionDeleteReview      Action = "delete_review"
	ActionModerateReview    Action = "moderate_review"
	ActionEditInteraction   Action = "edit_interaction"
	ActionDeleteInteraction Action = "delete_interaction"
	ActionStaffApprove      Action = "staff_approve"
)

// Relationship describes how the requester relates to the target entity.
type Relationship string

const (
	RelationshipOwner        Relationship = "owner"
	RelationshipAuthor       Relationship = "author"
	RelationshipProductOwner Relationship = "product_owner"
	RelationshipStaff        Relationship = "staff"
	RelationshipOther        Relationship = "other"
)

type rule struct {
	action       Action
	relationship Relationship
}

// policy is the explicit allow table. Anything not listed is denied.
var policy = map[rule]bool{
	{ActionEditProduct, RelationshipOwner}:           true,
	{ActionDeleteProduct, RelationshipOwner}:         true,
	{ActionEditReview, RelationshipAuthor}:           true,
	{ActionDeleteReview, RelationshipAuthor}:         true,
	{ActionModerateReview, RelationshipProductOwner}: true,
	{ActionEditInteraction, RelationshipOwner}:       true,
	{ActionDeleteInteraction, RelationshipOwner}:     true,
	{ActionStaffApprove, RelationshipStaff}:          true,
}

// Allowed consults the authorization table.
func Allowed(action Action, relationship Relationship) bool {
	return policy[rule{action: action, relationship: relationship}]
}

// ProductRelationship derives the requester's relationship to a product.
func ProductRelationship(requesterID uuid.UUID, product *models.Product) Relationship {
	if product == nil || requesterID == uuid.Nil {
		return RelationshipOther
	}
	if product.OwnerID == requesterID {
		return RelationshipOwner
	}
	return RelationshipOther
}

// ReviewAuthorRelationship derives the requester's relationship to a review.
func ReviewAuthorRelationship(requesterID uuid.UUID, review *models.Review) Relationship {
	if review == nil || requesterID == uuid.Nil {
		return RelationshipOther
	}
	if review.AuthorID == requesterID {
		return RelationshipAuthor
	}
	return RelationshipOther
}

// ModerationRelationship derives the requester's relationship to the review's
// product. The review must carry its preloaded Product.
func ModerationRelationship(requesterID uuid.UUID, review *models.Review) Relationship {
	if review == nil || review.Product == nil || requesterID == uuid.Nil {
		return RelationshipOther
	}
	if review.Product.OwnerID == requesterID {
		return RelationshipProductOwner
	}
	return RelationshipOther
}

// InteractionRelationship derives the requester's relationship to a vote.
func InteractionRelationship(requesterID uuid.UUID, interaction *models.ReviewInteraction) Relationship {
	if interaction == nil || requesterID == uuid.Nil {
		return RelationshipOther
	}
	if interaction.UserID == requesterID {
		return RelationshipOwner
	}
	return RelationshipOther
}

// RoleRelationship maps an account role onto the table's relationships.
func RoleRelationship(role enums.UserRole) Relationship {
	if role == enums.UserRoleStaff {
		return RelationshipStaff
	}
	return RelationshipOther
}

// CanEditProduct reports whether the requester may mutate the product.
func CanEditProduct(requesterID uuid.UUID, product *models.Product) bool {
	return Allowed(ActionEditProduct, ProductRelationship(requesterID, product))
}

// CanDeleteProduct reports whether the requester may delete the product.
func CanDeleteProduct(requesterID uuid.UUID, product *models.Product) bool {
	return Allowed(ActionDeleteProduct, ProductRelationship(requesterID, product))
}

// CanEditReview reports whether the requester may mutate the review.
func CanEditReview(requesterID uuid.UUID, review *models.Review) bool {
	return Allowed(ActionEditReview, ReviewAuthorRelationship(requesterID, review))
}

// CanDeleteReview reports whether the requester may delete the review.
func CanDeleteReview(requesterID uuid.UUID, review *models.Review) bool {
	return Allowed(ActionDeleteReview, ReviewAuthorRelationship(requesterID, review))
}

// CanModerateReview reports whether the requester may approve/reject/flag the
// review.
func CanModerateReview(requesterID uuid.UUID, review *models.Review) bool {
	return Allowed(ActionModerateReview, ModerationRelationship(requesterID, review))
}

// CanEditInteraction reports whether the requester may mutate the vote.
func CanEditInteraction(requesterID uuid.UUID, interaction *models.ReviewInteraction) bool {
	return Allowed(ActionEditInteraction, InteractionRelationship(requesterID, interaction))
}

// CanDeleteInteraction reports whether the requester may delete the vote.
func CanDeleteInteraction(requesterID uuid.UUID, interaction *models.ReviewInteraction) bool {
	return Allowed(ActionDeleteInteraction, InteractionRelationship(requesterID, interaction))
}

// CanStaffApprove reports whether the role may use the staff approval surface.
func CanStaffApprove(role enums.UserRole) bool {
	return Allowed(ActionStaffApprove, RoleRelationship(role))
}
