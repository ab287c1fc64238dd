package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"youtube-performance-tracker/internal/domain"
	"youtube-performance-tracker/internal/domain/model"
	"youtube-performance-tracker/internal/domain/ports/repository"
)

var _ repository.ChannelRepository = (*channelRepo)(nil)

type channelRepo struct{ pool *pgxpool.Pool }

func NewChannelRepo(pool *pgxpool.Pool) *channelRepo {
	return &channelRepo{pool: pool}
}

func (r *channelRepo) Save(ctx context.Context, tx repository.Tx, c *model.Channel) (*model.Channel, error) {
	const q = `
INSERT INTO channels (company_id, youtube_id, name, avatar, url, subscriber_count, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (company_id, youtube_id) DO UPDATE SET name=$3, avatar=$4, subscriber_count=$6
RETURNING id;`
	row, err := pickRow(ctx, r.pool, tx, q, c.CompanyID, c.YouTubeID, c.Name, c.Avatar, c.URL, c.SubscriberCount, c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := row.Scan(&c.ID); err != nil {
		return nil, domain.ErrOperationFailed
	}
	return c, nil
}

const channelColumns = `id, company_id, youtube_id, name, avatar, url, subscriber_count, created_at`

func (r *channelRepo) FindByID(ctx context.Context, tx repository.Tx, id, companyID int64) (*model.Channel, error) {
	q := `SELECT ` + channelColumns + ` FROM channels WHERE id=$1 AND company_id=$2;`
	row, err := pickRow(ctx, r.pool, tx, q, id, companyID)
	if err != nil {
		return nil, err
	}
	return scanChannel(row)
}

func (r *channelRepo) ListByCompany(ctx context.Context, tx repository.Tx, companyID int64) ([]*model.Channel, error) {
	q := `SELECT ` + channelColumns + ` FROM channels WHERE company_id=$1 ORDER BY created_at;`
	rows, err := pickRows(ctx, r.pool, tx, q, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Channel
	for rows.Next() {
		c, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *channelRepo) Delete(ctx context.Context, tx repository.Tx, id, companyID int64) error {
	const q = `DELETE FROM channels WHERE id=$1 AND company_id=$2;`
	_, err := execSQL(ctx, r.pool, tx, q, id, companyID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func scanChannel(row pgx.Row) (*model.Channel, error) {
	c := &model.Channel{}
	err := row.Scan(&c.ID, &c.CompanyID, &c.YouTubeID, &c.Name, &c.Avatar, &c.URL, &c.SubscriberCount, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return c, nil
}
