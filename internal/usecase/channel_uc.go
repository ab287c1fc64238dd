package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"youtube-performance-tracker/internal/domain/model"
	"youtube-performance-tracker/internal/domain/ports/adapter"
	"youtube-performance-tracker/internal/domain/ports/repository"
)

// ChannelUseCase manages tracked channels and builds the scored video list
// for the dashboard.
type ChannelUseCase struct {
	channels repository.ChannelRepository
	youtube  adapter.YouTube
	engine   *ScoreEngine
	log      *zerolog.Logger
}

func NewChannelUseCase(channels repository.ChannelRepository, youtube adapter.YouTube, engine *ScoreEngine, logger *zerolog.Logger) *ChannelUseCase {
	ucLog := logger.With().Str("component", "ChannelUC").Logger()
	return &ChannelUseCase{channels: channels, youtube: youtube, engine: engine, log: &ucLog}
}

func (u *ChannelUseCase) List(ctx context.Context, companyID int64) ([]*model.Channel, error) {
	return u.channels.ListByCompany(ctx, nil, companyID)
}

func (u *ChannelUseCase) Add(ctx context.Context, companyID int64, youtubeID string) (*model.Channel, error) {
	meta, err := u.youtube.FetchChannel(ctx, youtubeID)
	if err != nil {
		return nil, err
	}
	c := &model.Channel{
		CompanyID:       companyID,
		YouTubeID:       meta.YouTubeID,
		Name:            meta.Name,
		Avatar:          meta.Avatar,
		URL:             meta.URL,
		SubscriberCount: meta.SubscriberCount,
		CreatedAt:       time.Now(),
	}
	return u.channels.Save(ctx, nil, c)
}

func (u *ChannelUseCase) Remove(ctx context.Context, companyID, id int64) error {
	return u.channels.Delete(ctx, nil, id, companyID)
}

// RecentVideos fetches the channel's latest uploads and attaches the
// performance tier per video. Scoring is per request; nothing is persisted.
func (u *ChannelUseCase) RecentVideos(ctx context.Context, companyID, id int64) ([]model.Video, error) {
	channel, err := u.channels.FindByID(ctx, nil, id, companyID)
	if err != nil {
		return nil, err
	}
	raw, err := u.youtube.FetchRecentVideos(ctx, channel.YouTubeID)
	if err != nil {
		return nil, err
	}

	videos := make([]model.Video, 0, len(raw))
	for _, rv := range raw {
		publishedAt, err := time.Parse(time.RFC3339, rv.PublishedAt)
		if err != nil {
			u.log.Warn().Str("video_id", rv.ID).Str("published_at", rv.PublishedAt).Msg("skipping video with unparseable publish date")
			continue
		}
		tier, err := u.engine.Classify(model.VideoStats{
			Views:           rv.Views,
			Likes:           rv.Likes,
			PublishedAt:     publishedAt,
			SubscriberCount: int64(channel.SubscriberCount),
		})
		if err != nil {
			return nil, err
		}
		videos = append(videos, model.Video{
			ID:          rv.ID,
			Title:       rv.Title,
			Thumbnail:   rv.Thumbnail,
			URL:         rv.URL,
			PublishedAt: publishedAt,
			Views:       rv.Views,
			Likes:       rv.Likes,
			Performance: tier,
		})
	}
	return videos, nil
}
