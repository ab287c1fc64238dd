package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"youtube-performance-tracker/internal/domain/model"
	"youtube-performance-tracker/internal/domain/ports/repository"
	"youtube-performance-tracker/internal/infra/metrics"
	red "youtube-performance-tracker/internal/infra/redis"
)

var _ repository.ChannelRepository = (*channelRepoCacheDecorator)(nil)

// channelRepoCacheDecorator caches per-company channel lists. The dashboard
// re-reads the list on every page load, so this is the hottest read path.
type channelRepoCacheDecorator struct {
	inner repository.ChannelRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewChannelRepoCacheDecorator(inner repository.ChannelRepository, cache red.RedisClient, ttl time.Duration) repository.ChannelRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &channelRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func listKey(companyID int64) string { return fmt.Sprintf("channels:company:%d", companyID) }

func (d *channelRepoCacheDecorator) ListByCompany(ctx context.Context, tx repository.Tx, companyID int64) ([]*model.Channel, error) {
	key := listKey(companyID)
	if val, err := d.cache.Get(ctx, key); err == nil {
		var channels []*model.Channel
		if json.Unmarshal([]byte(val), &channels) == nil {
			metrics.IncCacheRequest("channel_list", "hit")
			return channels, nil
		}
	}

	metrics.IncCacheRequest("channel_list", "miss")
	channels, err := d.inner.ListByCompany(ctx, tx, companyID)
	if err != nil {
		return nil, err
	}
	if len(channels) > 0 {
		if bytes, err := json.Marshal(channels); err == nil {
			d.cache.Set(ctx, key, bytes, d.ttl)
		}
	}
	return channels, nil
}

// Writes invalidate the company's cached list.
func (d *channelRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, c *model.Channel) (*model.Channel, error) {
	d.cache.Del(ctx, listKey(c.CompanyID))
	return d.inner.Save(ctx, tx, c)
}

func (d *channelRepoCacheDecorator) Delete(ctx context.Context, tx repository.Tx, id, companyID int64) error {
	d.cache.Del(ctx, listKey(companyID))
	return d.inner.Delete(ctx, tx, id, companyID)
}

// Single-row reads go straight through; they back the per-request video
// scoring and must see fresh subscriber counts.
func (d *channelRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id, companyID int64) (*model.Channel, error) {
	return d.inner.FindByID(ctx, tx, id, companyID)
}
