package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"youtube-performance-tracker/internal/domain"
	"youtube-performance-tracker/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.YouTube = (*Client)(nil)

// Client is a thin wrapper over the YouTube Data API v3.
type Client struct {
	apiKey     string
	baseURL    string
	maxResults int
	client     *http.Client
}

func NewClient(apiKey, baseURL string, maxResults int) *Client {
	if baseURL == "" {
		baseURL = "https://www.googleapis.com/youtube/v3"
	}
	if maxResults <= 0 {
		maxResults = 10
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		maxResults: maxResults,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type channelListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title      string `json:"title"`
			Thumbnails struct {
				High    struct{ URL string } `json:"high"`
				Default struct{ URL string } `json:"default"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		Statistics struct {
			SubscriberCount string `json:"subscriberCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type searchListResponse struct {
	Items []struct {
		ID struct {
			Kind    string `json:"kind"`
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			PublishedAt string `json:"publishedAt"`
			Thumbnails  struct {
				High    struct{ URL string } `json:"high"`
				Default struct{ URL string } `json:"default"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type videoListResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
			LikeCount string `json:"likeCount"`
		} `json:"statistics"`
	} `json:"items"`
}

func (c *Client) FetchChannel(ctx context.Context, youtubeID string) (*adapter.ChannelMetadata, error) {
	q := url.Values{}
	q.Set("part", "snippet,statistics")
	q.Set("id", youtubeID)
	q.Set("key", c.apiKey)

	var out channelListResponse
	if err := c.get(ctx, "/channels", q, &out); err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("channel %s: %w", youtubeID, domain.ErrNotFound)
	}

	item := out.Items[0]
	avatar := item.Snippet.Thumbnails.High.URL
	if avatar == "" {
		avatar = item.Snippet.Thumbnails.Default.URL
	}
	subs, _ := strconv.ParseUint(item.Statistics.SubscriberCount, 10, 64)
	return &adapter.ChannelMetadata{
		YouTubeID:       item.ID,
		Name:            item.Snippet.Title,
		Avatar:          avatar,
		URL:             "https://www.youtube.com/channel/" + item.ID,
		SubscriberCount: subs,
	}, nil
}

// FetchRecentVideos lists the channel's latest uploads and joins in each
// video's view/like counters with a second statistics call.
func (c *Client) FetchRecentVideos(ctx context.Context, channelID string) ([]adapter.RawVideo, error) {
	q := url.Values{}
	q.Set("part", "snippet,id")
	q.Set("channelId", channelID)
	q.Set("order", "date")
	q.Set("type", "video")
	q.Set("maxResults", strconv.Itoa(c.maxResults))
	q.Set("key", c.apiKey)

	var search searchListResponse
	if err := c.get(ctx, "/search", q, &search); err != nil {
		return nil, err
	}

	videos := make([]adapter.RawVideo, 0, len(search.Items))
	ids := make([]string, 0, len(search.Items))
	for _, item := range search.Items {
		if item.ID.Kind != "youtube#video" || item.ID.VideoID == "" {
			continue
		}
		thumb := item.Snippet.Thumbnails.High.URL
		if thumb == "" {
			thumb = item.Snippet.Thumbnails.Default.URL
		}
		videos = append(videos, adapter.RawVideo{
			ID:          item.ID.VideoID,
			Title:       item.Snippet.Title,
			Thumbnail:   thumb,
			URL:         "https://www.youtube.com/watch?v=" + item.ID.VideoID,
			PublishedAt: item.Snippet.PublishedAt,
		})
		ids = append(ids, item.ID.VideoID)
	}
	if len(ids) == 0 {
		return videos, nil
	}

	sq := url.Values{}
	sq.Set("part", "statistics")
	sq.Set("id", strings.Join(ids, ","))
	sq.Set("key", c.apiKey)

	var stats videoListResponse
	if err := c.get(ctx, "/videos", sq, &stats); err != nil {
		return nil, err
	}
	counters := make(map[string][2]int64, len(stats.Items))
	for _, item := range stats.Items {
		views, _ := strconv.ParseInt(item.Statistics.ViewCount, 10, 64)
		likes, _ := strconv.ParseInt(item.Statistics.LikeCount, 10, 64)
		counters[item.ID] = [2]int64{views, likes}
	}
	for i := range videos {
		if cnt, ok := counters[videos[i].ID]; ok {
			videos[i].Views = cnt[0]
			videos[i].Likes = cnt[1]
		}
	}
	return videos, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create youtube request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("youtube api: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("youtube api: unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode youtube response: %w", err)
	}
	return nil
}
