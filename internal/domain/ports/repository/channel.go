package repository

import (
	"context"

	"youtube-performance-tracker/internal/domain/model"
)

type ChannelRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Channel) (*model.Channel, error)
	FindByID(ctx context.Context, tx Tx, id, companyID int64) (*model.Channel, error)
	ListByCompany(ctx context.Context, tx Tx, companyID int64) ([]*model.Channel, error)
	Delete(ctx context.Context, tx Tx, id, companyID int64) error
}
