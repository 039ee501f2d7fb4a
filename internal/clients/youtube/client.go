package youtube

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/coursepath/coursepath-backend/internal/logger"
)

// Qualifiers appended to every search so generic course titles resolve to
// instructional videos.
const searchQualifiers = "tutorial programming course"

const maxDescriptionLen = 200

const requestTimeout = 10 * time.Second

// Video is one search candidate, already merged with its resolved details.
type Video struct {
	VideoID      string
	Title        string
	URL          string
	ThumbnailURL string
	Channel      string
	PublishedAt  string
	Description  string
	Duration     string
	ViewCount    int64
}

// Details holds the per-video metadata resolved in the batched videos call.
type Details struct {
	Duration  string
	ViewCount int64
}

// Client talks to the YouTube Data API. Both calls degrade to empty results
// on transport or decode failures; callers treat empty as "no data".
type Client interface {
	Search(ctx context.Context, query string, maxResults int) []Video
	ResolveDetails(ctx context.Context, videoIDs []string) map[string]Details
}

type client struct {
	log *logger.Logger
	svc *ytapi.Service
}

func NewClient(ctx context.Context, log *logger.Logger) (Client, error) {
	apiKey := strings.TrimSpace(os.Getenv("YOUTUBE_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing YOUTUBE_API_KEY")
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if endpoint := strings.TrimSpace(os.Getenv("YOUTUBE_BASE_URL")); endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := ytapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init youtube service: %w", err)
	}

	return &client{
		log: log.With("client", "YouTubeClient"),
		svc: svc,
	}, nil
}

func (c *client) Search(ctx context.Context, query string, maxResults int) []Video {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.svc.Search.List([]string{"snippet"}).
		Context(ctx).
		Q(fmt.Sprintf("%s %s", query, searchQualifiers)).
		Type("video").
		MaxResults(int64(maxResults)).
		Order("relevance").
		VideoDuration("medium").
		VideoDefinition("high").
		RelevanceLanguage("en").
		Do()
	if err != nil {
		c.log.Warn("YouTube search failed, returning no candidates", "query", query, "error", err)
		return nil
	}

	videoIDs := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			videoIDs = append(videoIDs, item.Id.VideoId)
		}
	}
	details := c.ResolveDetails(ctx, videoIDs)

	videos := make([]Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		id := item.Id.VideoId
		snippet := item.Snippet
		if snippet == nil {
			snippet = &ytapi.SearchResultSnippet{}
		}
		v := Video{
			VideoID:     id,
			Title:       snippet.Title,
			URL:         fmt.Sprintf("https://www.youtube.com/embed/%s", id),
			Channel:     snippet.ChannelTitle,
			PublishedAt: snippet.PublishedAt,
			Description: truncateDescription(snippet.Description),
		}
		if snippet.Thumbnails != nil && snippet.Thumbnails.Medium != nil {
			v.ThumbnailURL = snippet.Thumbnails.Medium.Url
		}
		if d, ok := details[id]; ok {
			v.Duration = d.Duration
			v.ViewCount = d.ViewCount
		}
		videos = append(videos, v)
	}
	return videos
}

func (c *client) ResolveDetails(ctx context.Context, videoIDs []string) map[string]Details {
	details := map[string]Details{}
	if len(videoIDs) == 0 {
		return details
	}

	resp, err := c.svc.Videos.List([]string{"contentDetails", "statistics"}).
		Context(ctx).
		Id(videoIDs...).
		Do()
	if err != nil {
		c.log.Warn("YouTube details lookup failed, continuing without details", "error", err)
		return details
	}

	for _, item := range resp.Items {
		var d Details
		if item.ContentDetails != nil {
			d.Duration = FormatDuration(item.ContentDetails.Duration)
		}
		if item.Statistics != nil {
			d.ViewCount = int64(item.Statistics.ViewCount)
		}
		details[item.Id] = d
	}
	return details
}

// truncateDescription cuts on a rune boundary so a multibyte character is
// never split mid-sequence.
func truncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= maxDescriptionLen {
		return s
	}
	return string(runes[:maxDescriptionLen])
}
