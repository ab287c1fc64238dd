package repository

import (
	"context"

	"youtube-performance-tracker/internal/domain/model"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.User, error)
}
