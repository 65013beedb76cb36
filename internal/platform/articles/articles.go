package articles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	types "github.com/yungbote/pathwise-backend/internal/domain"
	"github.com/yungbote/pathwise-backend/internal/domain/learning"
	"github.com/yungbote/pathwise-backend/internal/platform/envutil"
	"github.com/yungbote/pathwise-backend/internal/platform/httpx"
	"github.com/yungbote/pathwise-backend/internal/platform/logger"
)

const (
	APIKeyEnv   = "GOOGLE_SEARCH_API_KEY"
	EngineIDEnv = "GOOGLE_SEARCH_ENGINE_ID"

	DefaultCount  = 5
	projectSuffix = "project tutorial hands-on practice"
)

var ErrNoResults = errors.New("custom search returned no items")

var levelModifiers = map[types.Level]string{
	learning.LevelElementary:   "basics introduction simple",
	learning.LevelMiddleSchool: "beginner fundamentals",
	learning.LevelHighSchool:   "intermediate tutorial",
	learning.LevelUndergrad:    "comprehensive guide course",
	learning.LevelPostgrad:     "advanced research",
	learning.LevelProfessional: "professional best practices",
}

// LevelModifier returns the search phrase for level, "tutorial" when unknown.
func LevelModifier(level types.Level) string {
	if m, ok := levelModifiers[level]; ok {
		return m
	}
	return "tutorial"
}

type platform struct {
	name        string
	searchURL   func(encoded string) string
	description func(topic string) string
}

var platforms = []platform{
	{
		name:        "Medium",
		searchURL:   func(e string) string { return "https://medium.com/search?q=" + e },
		description: func(t string) string { return "Comprehensive guides and tutorials on " + t },
	},
	{
		name:        "freeCodeCamp",
		searchURL:   func(e string) string { return "https://www.freecodecamp.org/news/search/?query=" + e },
		description: func(t string) string { return "Learn " + t + " with free tutorials and articles" },
	},
	{
		name:        "Dev.to",
		searchURL:   func(e string) string { return "https://dev.to/search?q=" + e },
		description: func(t string) string { return "Community articles and discussions on " + t },
	},
	{
		name:        "GeeksforGeeks",
		searchURL:   func(e string) string { return "https://www.geeksforgeeks.org/?s=" + e },
		description: func(t string) string { return "Technical articles and examples for " + t },
	},
	{
		name:        "Wikipedia",
		searchURL:   func(e string) string { return "https://en.wikipedia.org/wiki/" + strings.ReplaceAll(e, "%20", "_") },
		description: func(t string) string { return "Comprehensive overview and background on " + t },
	},
}

type Observer interface {
	ObserveEnrichmentLookup(source, outcome string)
}

type Config struct {
	Endpoint    string
	HTTPClient  *http.Client // test fakes only
	Credentials envutil.Source
	Observer    Observer
}

type Client struct {
	log      *logger.Logger
	endpoint string
	hc       *http.Client
	creds    envutil.Source
	observer Observer
}

func New(log *logger.Logger, cfg Config) *Client {
	if cfg.Credentials == nil {
		cfg.Credentials = envutil.OS()
	}
	return &Client{
		log:      log.With("client", "ArticleClient"),
		endpoint: cfg.Endpoint,
		hc:       cfg.HTTPClient,
		creds:    cfg.Credentials,
		observer: cfg.Observer,
	}
}

// Curated builds up to count platform search links for topic. It makes no
// network calls and depends only on its arguments.
func Curated(topic string, count int) []types.Resource {
	if count > len(platforms) {
		count = len(platforms)
	}
	if count < 0 {
		count = 0
	}
	encoded := httpx.EscapeComponent(topic)
	out := make([]types.Resource, 0, count)
	for i, p := range platforms[:count] {
		out = append(out, types.Resource{
			Type:        learning.ResourceArticle,
			Title:       topic + " - " + p.name + " Resource",
			URL:         p.searchURL(encoded),
			Description: p.description(topic),
			Source:      p.name,
			Priority:    i + 1,
		})
	}
	return out
}

// Search looks up articles for topic. Without both search credentials, or on
// any failure, it returns the curated platform links instead.
func (c *Client) Search(ctx context.Context, topic string, count int) []types.Resource {
	res, err := c.lookup(ctx, topic, count)
	if err != nil {
		c.log.Warn("Article search failed, using curated links", "topic", topic, "error", err.Error())
		c.observe("fallback")
		return Curated(topic, count)
	}
	return res
}

// CurateByLevel searches for topic narrowed to the learner's level.
func (c *Client) CurateByLevel(ctx context.Context, topic string, level types.Level) []types.Resource {
	return c.Search(ctx, topic+" "+LevelModifier(level), DefaultCount)
}

// FindProjectArticles searches for hands-on project material on topic.
func (c *Client) FindProjectArticles(ctx context.Context, topic string) []types.Resource {
	return c.Search(ctx, topic+" "+projectSuffix, DefaultCount)
}

type Comprehensive struct {
	Theory   []types.Resource `json:"theory"`
	Projects []types.Resource `json:"projects"`
	All      []types.Resource `json:"all"`
}

// GetComprehensive fetches level-targeted and project articles concurrently.
// If either live search fails both halves are replaced by smaller curated
// batches, so All is never empty.
func (c *Client) GetComprehensive(ctx context.Context, topic string, level types.Level) Comprehensive {
	var theory, projects []types.Resource
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		theory, err = c.lookup(gctx, topic+" "+LevelModifier(level), DefaultCount)
		return err
	})
	g.Go(func() error {
		var err error
		projects, err = c.lookup(gctx, topic+" "+projectSuffix, DefaultCount)
		return err
	})
	if err := g.Wait(); err != nil {
		c.log.Warn("Comprehensive article search failed, using curated links", "topic", topic, "error", err.Error())
		c.observe("fallback")
		theory = Curated(topic, 3)
		projects = Curated(topic+" projects", 2)
	}
	all := make([]types.Resource, 0, len(theory)+len(projects))
	all = append(all, theory...)
	all = append(all, projects...)
	return Comprehensive{Theory: theory, Projects: projects, All: all}
}

// lookup returns curated links when search is not configured and an error
// only when a configured live search fails.
func (c *Client) lookup(ctx context.Context, topic string, count int) ([]types.Resource, error) {
	key := c.creds.Get(APIKeyEnv)
	cx := c.creds.Get(EngineIDEnv)
	if key == "" || cx == "" {
		c.observe("curated")
		return Curated(topic, count), nil
	}
	res, err := c.searchLive(ctx, key, cx, topic, count)
	if err != nil {
		c.observe("error")
		return nil, err
	}
	c.observe("ok")
	return res, nil
}

func (c *Client) searchLive(ctx context.Context, key, cx, topic string, count int) ([]types.Resource, error) {
	opts := []option.ClientOption{option.WithAPIKey(key)}
	if c.hc != nil {
		opts = append(opts, option.WithHTTPClient(c.hc))
	}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("customsearch client: %w", err)
	}
	resp, err := svc.Cse.List().
		Cx(cx).
		Q(topic + " tutorial guide").
		Num(int64(count)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("customsearch cse.list: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, ErrNoResults
	}
	out := make([]types.Resource, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil {
			continue
		}
		u, err := url.Parse(item.Link)
		if err != nil {
			return nil, fmt.Errorf("customsearch result link %q: %w", item.Link, err)
		}
		out = append(out, types.Resource{
			Type:        learning.ResourceArticle,
			Title:       item.Title,
			URL:         item.Link,
			Description: item.Snippet,
			Source:      u.Hostname(),
			PublishedAt: publishedTime(item.Pagemap),
		})
	}
	return out, nil
}

func publishedTime(pagemap []byte) string {
	if len(pagemap) == 0 {
		return ""
	}
	var pm struct {
		Metatags []map[string]any `json:"metatags"`
	}
	if err := json.Unmarshal(pagemap, &pm); err != nil || len(pm.Metatags) == 0 {
		return ""
	}
	if s, ok := pm.Metatags[0]["article:published_time"].(string); ok {
		return s
	}
	return ""
}

func (c *Client) observe(outcome string) {
	if c.observer != nil {
		c.observer.ObserveEnrichmentLookup("articles", outcome)
	}
}
