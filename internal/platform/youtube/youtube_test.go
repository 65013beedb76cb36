package youtube

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/pathwise-backend/internal/domain/learning"
	"github.com/yungbote/pathwise-backend/internal/platform/envutil"
	"github.com/yungbote/pathwise-backend/internal/platform/logger"
)

const searchVideosBody = `{
  "items": [
    {"id": {"kind": "youtube#video", "videoId": "abc123"},
     "snippet": {"title": "Go in 100 Seconds", "description": "fast", "channelTitle": "Fireship",
                 "publishedAt": "2024-01-02T03:04:05Z",
                 "thumbnails": {"default": {"url": "https://i.ytimg.com/d.jpg"}, "medium": {"url": "https://i.ytimg.com/m.jpg"}}}},
    {"id": {"kind": "youtube#video", "videoId": "def456"},
     "snippet": {"title": "Go Tour", "description": "tour", "channelTitle": "Go",
                 "thumbnails": {"default": {"url": "https://i.ytimg.com/only-default.jpg"}}}}
  ]
}`

const searchPlaylistsBody = `{
  "items": [
    {"id": {"kind": "youtube#playlist", "playlistId": "PL1"},
     "snippet": {"title": "Go Full Course", "description": "all of it", "channelTitle": "Academy"}}
  ]
}`

type queryLog struct {
	mu sync.Mutex
	qs []string
}

func (l *queryLog) add(q string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.qs = append(l.qs, q)
}

func (l *queryLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.qs...)
}

func newFakeYouTube(t *testing.T) (*httptest.Server, *queryLog) {
	t.Helper()
	queries := &queryLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/search"):
			queries.add(r.URL.Query().Get("q"))
			if r.URL.Query().Get("type") == "playlist" {
				_, _ = io.WriteString(w, searchPlaylistsBody)
				return
			}
			_, _ = io.WriteString(w, searchVideosBody)
		case strings.HasSuffix(r.URL.Path, "/videos"):
			_, _ = io.WriteString(w, `{"items":[{"id":"abc123","contentDetails":{"duration":"PT2M"},"statistics":{"viewCount":"42","likeCount":"7","commentCount":"1"}}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, queries
}

func newTestClient(srv *httptest.Server, creds envutil.Static) *Client {
	cfg := Config{
		Credentials: creds,
		Now:         func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) },
	}
	if srv != nil {
		cfg.Endpoint = srv.URL + "/"
		cfg.HTTPClient = srv.Client()
	}
	return New(logger.Nop(), cfg)
}

func TestFallbackIsPureFunctionOfTopic(t *testing.T) {
	c := New(logger.Nop(), Config{Credentials: envutil.Static{}})
	first := c.Fallback("C++ & Rust")
	second := c.Fallback("C++ & Rust")
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("fallback size: want=2 got=%d,%d", len(first), len(second))
	}
	for i := range first {
		if first[i].URL != second[i].URL {
			t.Fatalf("url %d differs: %q vs %q", i, first[i].URL, second[i].URL)
		}
	}
	want := "https://www.youtube.com/results?search_query=C%2B%2B%20%26%20Rust%20tutorial"
	if first[0].URL != want {
		t.Fatalf("url: want=%q got=%q", want, first[0].URL)
	}
	if first[1].Title != "C++ & Rust - Practical Projects" {
		t.Fatalf("title: got=%q", first[1].Title)
	}
	if first[0].Type != learning.ResourceVideo || first[0].ChannelTitle != "YouTube Search" {
		t.Fatalf("fallback resource shape: %+v", first[0])
	}
}

func TestSearchVideosWithoutKeyFallsBack(t *testing.T) {
	c := newTestClient(nil, envutil.Static{})
	got := c.SearchVideos(context.Background(), "Python", 3)
	if len(got) != 2 {
		t.Fatalf("want 2 placeholders, got=%d", len(got))
	}
	if !strings.Contains(got[1].URL, "Python%20projects") {
		t.Fatalf("projects url: got=%q", got[1].URL)
	}
}

func TestSearchVideosMapsItems(t *testing.T) {
	srv, queries := newFakeYouTube(t)
	c := newTestClient(srv, envutil.Static{APIKeyEnv: "yt-key"})

	got := c.SearchVideos(context.Background(), "golang", 3)
	if len(got) != 2 {
		t.Fatalf("videos: want=2 got=%d", len(got))
	}
	if got[0].URL != "https://www.youtube.com/watch?v=abc123" || got[0].VideoID != "abc123" {
		t.Fatalf("video 0: %+v", got[0])
	}
	if got[0].Thumbnail != "https://i.ytimg.com/m.jpg" {
		t.Fatalf("medium thumbnail preferred, got=%q", got[0].Thumbnail)
	}
	if got[1].Thumbnail != "https://i.ytimg.com/only-default.jpg" {
		t.Fatalf("default thumbnail fallback, got=%q", got[1].Thumbnail)
	}
	if qs := queries.all(); len(qs) != 1 || qs[0] != "golang" {
		t.Fatalf("queries: %v", qs)
	}
}

func TestSearchVideosUpstreamErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"code":403,"message":"quotaExceeded"}}`)
	}))
	defer srv.Close()
	c := newTestClient(srv, envutil.Static{APIKeyEnv: "yt-key"})

	got := c.SearchVideos(context.Background(), "golang", 3)
	if len(got) != 2 || got[0].ChannelTitle != "YouTube Search" {
		t.Fatalf("expected fallback placeholders, got=%+v", got)
	}
}

func TestCurateEducationalContent(t *testing.T) {
	srv, queries := newFakeYouTube(t)
	c := newTestClient(srv, envutil.Static{APIKeyEnv: "yt-key"})

	got := c.CurateEducationalContent(context.Background(), "golang", learning.LevelElementary)
	if len(got) != 3 {
		t.Fatalf("resources: want=3 got=%d", len(got))
	}
	if got[2].Type != learning.ResourcePlaylist || got[2].URL != "https://www.youtube.com/playlist?list=PL1" {
		t.Fatalf("playlist last: %+v", got[2])
	}
	seen := map[string]bool{}
	for _, q := range queries.all() {
		seen[q] = true
	}
	if !seen["golang for kids"] || !seen["golang tutorial playlist"] {
		t.Fatalf("queries: %v", queries.all())
	}
}

func TestSearchPlaylistsWithoutKeyIsEmpty(t *testing.T) {
	c := newTestClient(nil, envutil.Static{})
	got := c.SearchPlaylists(context.Background(), "golang", 2)
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got=%v", got)
	}
}

func TestGetVideoDetails(t *testing.T) {
	srv, _ := newFakeYouTube(t)
	c := newTestClient(srv, envutil.Static{APIKeyEnv: "yt-key"})

	d := c.GetVideoDetails(context.Background(), "abc123")
	if d == nil {
		t.Fatalf("expected details")
	}
	if d.Duration != "PT2M" || d.ViewCount != 42 || d.LikeCount != 7 {
		t.Fatalf("details: %+v", d)
	}
}

func TestLevelKeywordDefault(t *testing.T) {
	if got := LevelKeyword("Kindergarten"); got != "tutorial" {
		t.Fatalf("default keyword: want=%q got=%q", "tutorial", got)
	}
	if got := LevelKeyword(learning.LevelPostgrad); got != "advanced" {
		t.Fatalf("postgrad keyword: got=%q", got)
	}
}
