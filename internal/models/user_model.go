package models

import "time"

// User is the persisted user record in the external document store. It is
// read and written only by the auth-initialize flow and the billing flows
// (checkout, portal, webhook).
type User struct {
	ID         string    `json:"id" firestore:"-"` // Firebase Auth UID, used as the document ID
	Email      string    `json:"email" firestore:"email"`
	Name       string    `json:"name,omitempty" firestore:"name,omitempty"`
	CustomerID string    `json:"customerId,omitempty" firestore:"customerId,omitempty"`
	PriceID    string    `json:"priceId,omitempty" firestore:"priceId,omitempty"`
	HasAccess  bool      `json:"hasAccess" firestore:"hasAccess"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt  time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}
