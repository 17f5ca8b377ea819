package domain

import (
	"strings"
	"time"
)

// ReviewStatus is the moderation state of a review.
// PENDING -> {APPROVED, REJECTED}; the transition happens outside this service.
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "PENDING"
	ReviewStatusApproved ReviewStatus = "APPROVED"
	ReviewStatusRejected ReviewStatus = "REJECTED"
)

// Review is a user's rating of a product. At most one exists per (ProductID, UserID).
type Review struct {
	ID          int64        `json:"id"`
	ProductID   int64        `json:"productId"`
	UserID      int64        `json:"userId"`
	UserName    string       `json:"userName"`
	Rating      int          `json:"rating"`
	Comment     *string      `json:"comment,omitempty"`
	Status      ReviewStatus `json:"status"`
	DateCreated time.Time    `json:"dateCreated"`
}

// Approved reports whether the review counts toward public listings and ratings.
func (r Review) Approved() bool {
	return r.Status == ReviewStatusApproved
}

// Quote is a write-once request for a price. ProductName is captured at submission time.
type Quote struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"productId"`
	ProductName string    `json:"productName"`
	UserName    string    `json:"userName"`
	UserEmail   string    `json:"userEmail"`
	UserPhone   *string   `json:"userPhone,omitempty"`
	Message     *string   `json:"message,omitempty"`
	DateCreated time.Time `json:"dateCreated"`
}

// CallerIdentity is an opaque signal that the requester is authenticated.
// Only its presence is ever inspected.
type CallerIdentity string

// Anonymous is the identity of an unauthenticated caller.
const Anonymous CallerIdentity = ""

// Present reports whether the identity carries any non-blank value.
func (c CallerIdentity) Present() bool {
	return strings.TrimSpace(string(c)) != ""
}
