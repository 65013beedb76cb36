package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	types "github.com/yungbote/pathwise-backend/internal/domain"
	"github.com/yungbote/pathwise-backend/internal/domain/learning"
	"github.com/yungbote/pathwise-backend/internal/platform/articles"
	"github.com/yungbote/pathwise-backend/internal/platform/logger"
	"github.com/yungbote/pathwise-backend/internal/platform/youtube"
	apperrors "github.com/yungbote/pathwise-backend/internal/pkg/errors"
)

type VideoCatalog interface {
	CurateEducationalContent(ctx context.Context, topic string, level types.Level) []types.Resource
	GetVideoDetails(ctx context.Context, videoID string) *youtube.VideoDetails
}

type ArticleCatalog interface {
	GetComprehensive(ctx context.Context, topic string, level types.Level) articles.Comprehensive
}

// ResourceBundle is a standalone resource lookup, outside any course.
type ResourceBundle struct {
	Topic    string                 `json:"topic"`
	Level    types.Level            `json:"level"`
	Videos   []types.Resource       `json:"videos"`
	Articles articles.Comprehensive `json:"articles"`
	Count    learning.ResourceCount `json:"count"`
}

type ResourceService interface {
	Find(ctx context.Context, topic string, level types.Level) (*ResourceBundle, error)
	VideoDetails(ctx context.Context, videoID string) (*youtube.VideoDetails, error)
}

type resourceService struct {
	log      *logger.Logger
	videos   VideoCatalog
	articles ArticleCatalog
}

func NewResourceService(log *logger.Logger, videos VideoCatalog, articleCatalog ArticleCatalog) ResourceService {
	return &resourceService{
		log:      log.With("service", "ResourceService"),
		videos:   videos,
		articles: articleCatalog,
	}
}

func (s *resourceService) Find(ctx context.Context, topic string, level types.Level) (*ResourceBundle, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("topic is required: %w", apperrors.ErrInvalidArgument)
	}
	if level == "" {
		level = learning.LevelHighSchool
	}
	if !level.Valid() {
		return nil, fmt.Errorf("invalid level %q: %w", level, apperrors.ErrInvalidArgument)
	}

	out := &ResourceBundle{Topic: topic, Level: level}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Videos = s.videos.CurateEducationalContent(gctx, topic, level)
		return nil
	})
	g.Go(func() error {
		out.Articles = s.articles.GetComprehensive(gctx, topic, level)
		return nil
	})
	_ = g.Wait()

	if out.Videos == nil {
		out.Videos = []types.Resource{}
	}
	out.Count = learning.CountResources(out.Videos, out.Articles.All)
	return out, nil
}

func (s *resourceService) VideoDetails(ctx context.Context, videoID string) (*youtube.VideoDetails, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, fmt.Errorf("video id is required: %w", apperrors.ErrInvalidArgument)
	}
	d := s.videos.GetVideoDetails(ctx, videoID)
	if d == nil {
		return nil, fmt.Errorf("video %s: %w", videoID, apperrors.ErrNotFound)
	}
	return d, nil
}
