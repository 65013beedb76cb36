package coursegen

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	types "github.com/yungbote/pathwise-backend/internal/domain"
	"github.com/yungbote/pathwise-backend/internal/domain/learning"
)

const (
	videosPerTopic = 3
	maxSubtopics   = 3
)

// Enrich attaches videos and articles to cur and returns the new value.
// Lookups run concurrently; videos come first, then articles, each in the
// order their lookups were issued. A lookup that panics leaves the
// curriculum with no resources instead of failing the request.
func (g *Generator) Enrich(ctx context.Context, cur types.Curriculum, topic string, level types.Level) types.Curriculum {
	ctx, span := tracer().Start(ctx, "coursegen.enrich")
	defer span.End()

	topics := videoTopics(cur.ResourceNeeds, topic)
	videoResults := make([][]types.Resource, len(topics))
	articleResults := make([][]types.Resource, 2)

	eg, egctx := errgroup.WithContext(ctx)
	for i, t := range topics {
		eg.Go(guard(fmt.Sprintf("videos[%d]", i), func() {
			if i == 0 && g.cfg.IncludePlaylists {
				videoResults[i] = g.videos.CurateEducationalContent(egctx, t, level)
				return
			}
			videoResults[i] = g.videos.SearchVideos(egctx, t, videosPerTopic)
		}))
	}
	eg.Go(guard("articles.level", func() {
		articleResults[0] = g.articles.CurateByLevel(egctx, topic, level)
	}))
	eg.Go(guard("articles.projects", func() {
		articleResults[1] = g.articles.FindProjectArticles(egctx, topic)
	}))

	out := cur
	out.ResourceNeeds = nil
	if err := eg.Wait(); err != nil {
		g.log.Error("Enrichment failed, returning curriculum without resources", "topic", topic, "error", err.Error())
		span.RecordError(err)
		span.SetStatus(codes.Error, "enrichment failed")
		out.Resources = []types.Resource{}
		out.ResourceCount = learning.ResourceCount{}
		return out
	}

	videos := flatten(videoResults)
	articles := flatten(articleResults)
	resources := make([]types.Resource, 0, len(videos)+len(articles))
	resources = append(resources, videos...)
	resources = append(resources, articles...)

	out.Resources = resources
	out.ResourceCount = learning.CountResources(videos, articles)
	span.SetAttributes(
		attribute.Int("coursegen.video_lookups", len(topics)),
		attribute.Int("coursegen.videos", out.ResourceCount.Videos),
		attribute.Int("coursegen.articles", out.ResourceCount.Articles),
	)
	return out
}

// videoTopics is the main topic followed by up to three subtopics from
// needs. With no needs at all the main topic stands in as the subtopic.
func videoTopics(needs *learning.ResourceNeeds, topic string) []string {
	subs := []string{topic}
	if needs != nil {
		subs = needs.VideoTopics
	}
	if len(subs) > maxSubtopics {
		subs = subs[:maxSubtopics]
	}
	out := make([]string, 0, 1+len(subs))
	out = append(out, topic)
	return append(out, subs...)
}

// guard runs fn and converts a panic into an *EnrichmentError.
func guard(name string, fn func()) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &EnrichmentError{Lookup: name, Cause: r}
			}
		}()
		fn()
		return nil
	}
}

func flatten(groups [][]types.Resource) []types.Resource {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	out := make([]types.Resource, 0, n)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
