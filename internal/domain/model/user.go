package model

import "time"

// User is a client-company account holder. Only email lookup matters to the
// payment flow (the post-payment registration prompt); the rest belongs to the
// auth CRUD surface.
type User struct {
	ID        int64
	Email     string
	Name      string
	CompanyID int64
	CreatedAt time.Time
}
