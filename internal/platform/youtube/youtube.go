package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	types "github.com/yungbote/pathwise-backend/internal/domain"
	"github.com/yungbote/pathwise-backend/internal/domain/learning"
	"github.com/yungbote/pathwise-backend/internal/platform/envutil"
	"github.com/yungbote/pathwise-backend/internal/platform/httpx"
	"github.com/yungbote/pathwise-backend/internal/platform/logger"
)

const (
	APIKeyEnv = "YOUTUBE_API_KEY"

	searchURL = "https://www.youtube.com/results?search_query="
	watchURL  = "https://www.youtube.com/watch?v="
	listURL   = "https://www.youtube.com/playlist?list="

	curatedVideoCount    = 8
	curatedPlaylistCount = 2
)

var ErrNotConfigured = errors.New("youtube api key not configured")

// levelKeywords narrows a search toward content pitched at the learner's level.
var levelKeywords = map[types.Level]string{
	learning.LevelElementary:   "for kids",
	learning.LevelMiddleSchool: "for beginners",
	learning.LevelHighSchool:   "tutorial",
	learning.LevelUndergrad:    "course",
	learning.LevelPostgrad:     "advanced",
	learning.LevelProfessional: "professional",
}

// LevelKeyword returns the search suffix for level, "tutorial" when unknown.
func LevelKeyword(level types.Level) string {
	if kw, ok := levelKeywords[level]; ok {
		return kw
	}
	return "tutorial"
}

// Observer is told about every lookup and how it ended.
type Observer interface {
	ObserveEnrichmentLookup(source, outcome string)
}

type Config struct {
	// Endpoint overrides the API base URL; used against fakes in tests.
	Endpoint    string
	HTTPClient  *http.Client // test fakes only
	Credentials envutil.Source
	Observer    Observer
	Now         func() time.Time
}

type Client struct {
	log      *logger.Logger
	endpoint string
	hc       *http.Client
	creds    envutil.Source
	observer Observer
	now      func() time.Time
}

func New(log *logger.Logger, cfg Config) *Client {
	if cfg.Credentials == nil {
		cfg.Credentials = envutil.OS()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Client{
		log:      log.With("client", "YouTubeClient"),
		endpoint: cfg.Endpoint,
		hc:       cfg.HTTPClient,
		creds:    cfg.Credentials,
		observer: cfg.Observer,
		now:      cfg.Now,
	}
}

// service builds a client for the key currently configured. The key is
// looked up on every call so it can be supplied or revoked at runtime.
func (c *Client) service(ctx context.Context) (*yt.Service, error) {
	key := c.creds.Get(APIKeyEnv)
	if key == "" {
		return nil, ErrNotConfigured
	}
	opts := []option.ClientOption{option.WithAPIKey(key)}
	// A supplied client bypasses the key transport; only fakes inject one.
	if c.hc != nil {
		opts = append(opts, option.WithHTTPClient(c.hc))
	}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	return yt.NewService(ctx, opts...)
}

// SearchVideos returns up to count videos for topic. It never fails: any
// error yields the two deterministic search-link placeholders instead.
func (c *Client) SearchVideos(ctx context.Context, topic string, count int) []types.Resource {
	videos, err := c.searchVideos(ctx, topic, count)
	if err != nil {
		c.log.Warn("YouTube video search failed, using fallback", "topic", topic, "error", err.Error())
		c.observe("youtube_videos", "fallback")
		return c.Fallback(topic)
	}
	c.observe("youtube_videos", "ok")
	return videos
}

func (c *Client) searchVideos(ctx context.Context, query string, count int) ([]types.Resource, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(int64(count)).
		Order("relevance").
		VideoDefinition("any").
		VideoLicense("any").
		SafeSearch("moderate").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search.list: %w", err)
	}
	out := make([]types.Resource, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil || item.Id == nil || item.Snippet == nil {
			continue
		}
		out = append(out, types.Resource{
			Type:         learning.ResourceVideo,
			Title:        item.Snippet.Title,
			URL:          watchURL + item.Id.VideoId,
			Description:  item.Snippet.Description,
			Thumbnail:    thumbnailURL(item.Snippet.Thumbnails),
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
			VideoID:      item.Id.VideoId,
		})
	}
	return out, nil
}

// SearchPlaylists returns up to count tutorial playlists; failures yield none.
func (c *Client) SearchPlaylists(ctx context.Context, topic string, count int) []types.Resource {
	svc, err := c.service(ctx)
	if err == nil {
		var resp *yt.SearchListResponse
		resp, err = svc.Search.List([]string{"snippet"}).
			Q(topic + " tutorial playlist").
			Type("playlist").
			MaxResults(int64(count)).
			Order("relevance").
			Context(ctx).
			Do()
		if err == nil {
			c.observe("youtube_playlists", "ok")
			out := make([]types.Resource, 0, len(resp.Items))
			for _, item := range resp.Items {
				if item == nil || item.Id == nil || item.Snippet == nil {
					continue
				}
				out = append(out, types.Resource{
					Type:         learning.ResourcePlaylist,
					Title:        item.Snippet.Title,
					URL:          listURL + item.Id.PlaylistId,
					Description:  item.Snippet.Description,
					Thumbnail:    thumbnailURL(item.Snippet.Thumbnails),
					ChannelTitle: item.Snippet.ChannelTitle,
					PublishedAt:  item.Snippet.PublishedAt,
					PlaylistID:   item.Id.PlaylistId,
				})
			}
			return out
		}
	}
	c.log.Warn("YouTube playlist search failed", "topic", topic, "error", err.Error())
	c.observe("youtube_playlists", "error")
	return []types.Resource{}
}

// CurateEducationalContent combines level-targeted videos with tutorial
// playlists, fetched concurrently.
func (c *Client) CurateEducationalContent(ctx context.Context, topic string, level types.Level) []types.Resource {
	query := topic + " " + LevelKeyword(level)
	var videos, playlists []types.Resource
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		videos = c.SearchVideos(gctx, query, curatedVideoCount)
		return nil
	})
	g.Go(func() error {
		playlists = c.SearchPlaylists(gctx, topic, curatedPlaylistCount)
		return nil
	})
	_ = g.Wait()
	out := make([]types.Resource, 0, len(videos)+len(playlists))
	out = append(out, videos...)
	return append(out, playlists...)
}

// VideoDetails is the subset of videos.list metadata the UI shows.
type VideoDetails struct {
	Duration     string `json:"duration"`
	ViewCount    uint64 `json:"viewCount"`
	LikeCount    uint64 `json:"likeCount"`
	CommentCount uint64 `json:"commentCount"`
}

// GetVideoDetails returns nil when the video is unknown or the lookup fails.
func (c *Client) GetVideoDetails(ctx context.Context, videoID string) *VideoDetails {
	svc, err := c.service(ctx)
	if err != nil {
		return nil
	}
	resp, err := svc.Videos.List([]string{"contentDetails", "statistics"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		c.log.Warn("YouTube videos.list failed", "video_id", videoID, "error", err.Error())
		return nil
	}
	if len(resp.Items) == 0 || resp.Items[0] == nil {
		return nil
	}
	v := resp.Items[0]
	d := &VideoDetails{}
	if v.ContentDetails != nil {
		d.Duration = v.ContentDetails.Duration
	}
	if v.Statistics != nil {
		d.ViewCount = v.Statistics.ViewCount
		d.LikeCount = v.Statistics.LikeCount
		d.CommentCount = v.Statistics.CommentCount
	}
	return d
}

// Fallback returns the two search-link placeholders for topic. URLs depend
// only on topic.
func (c *Client) Fallback(topic string) []types.Resource {
	now := c.now().UTC().Format(time.RFC3339)
	return []types.Resource{
		{
			Type:         learning.ResourceVideo,
			Title:        topic + " - Introduction and Basics",
			URL:          searchURL + httpx.EscapeComponent(topic+" tutorial"),
			Description:  "Search for " + topic + " tutorials on YouTube",
			ChannelTitle: "YouTube Search",
			PublishedAt:  now,
		},
		{
			Type:         learning.ResourceVideo,
			Title:        topic + " - Practical Projects",
			URL:          searchURL + httpx.EscapeComponent(topic+" projects"),
			Description:  "Find practical " + topic + " projects on YouTube",
			ChannelTitle: "YouTube Search",
			PublishedAt:  now,
		},
	}
}

func (c *Client) observe(source, outcome string) {
	if c.observer != nil {
		c.observer.ObserveEnrichmentLookup(source, outcome)
	}
}

func thumbnailURL(t *yt.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	if t.Medium != nil && t.Medium.Url != "" {
		return t.Medium.Url
	}
	if t.Default != nil {
		return t.Default.Url
	}
	return ""
}
