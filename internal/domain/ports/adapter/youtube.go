package adapter

import "context"

// ChannelMetadata is what the YouTube Data API reports about a channel.
type ChannelMetadata struct {
	YouTubeID       string
	Name            string
	Avatar          string
	URL             string
	SubscriberCount uint64
}

// RawVideo is an upload with its statistics, unscored.
type RawVideo struct {
	ID          string
	Title       string
	Thumbnail   string
	URL         string
	PublishedAt string // RFC3339 as returned by the API
	Views       int64
	Likes       int64
}

// YouTube is the external metadata/statistics collaborator.
type YouTube interface {
	FetchChannel(ctx context.Context, youtubeID string) (*ChannelMetadata, error)
	FetchRecentVideos(ctx context.Context, channelID string) ([]RawVideo, error)
}
