package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go_comments/internal/engine"
)

// YouTube Data API v3 comment fetching: commentThreads.list pagination for
// top-level comments, comments.list for reply threads.

const (
	ytDataAPIBase = "https://www.googleapis.com/youtube/v3"
	ytPageSize    = 100 // API maximum for both endpoints
)

var (
	videoIDRE  = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:.*&)?v=|shorts/)|youtu\.be/)([a-zA-Z0-9_-]{11})`)
	rawVideoID = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

// ExtractVideoID pulls the 11-char video ID from a raw ID, watch URL,
// youtu.be short link, or /shorts/ URL.
func ExtractVideoID(urlOrID string) (string, error) {
	s := strings.TrimSpace(urlOrID)
	if rawVideoID.MatchString(s) {
		return s, nil
	}
	if m := videoIDRE.FindStringSubmatch(s); len(m) >= 2 {
		return m[1], nil
	}
	return "", fmt.Errorf("no video ID in %q", urlOrID)
}

// quotaError marks a Data API 403 — exhausted quota or a disabled surface.
// Distinguished so the caller can rotate to the fallback key.
type quotaError struct {
	Body string
}

func (e *quotaError) Error() string {
	return "youtube data API 403: " + e.Body
}

// --- Data API v3 response types ---

type ytCommentSnippet struct {
	AuthorDisplayName string `json:"authorDisplayName"`
	TextDisplay       string `json:"textDisplay"`
	LikeCount         int    `json:"likeCount"`
	PublishedAt       string `json:"publishedAt"`
}

type ytComment struct {
	ID      string           `json:"id"`
	Snippet ytCommentSnippet `json:"snippet"`
}

type ytThreadItem struct {
	Snippet struct {
		TopLevelComment ytComment `json:"topLevelComment"`
		TotalReplyCount int       `json:"totalReplyCount"`
	} `json:"snippet"`
}

type ytThreadsResp struct {
	Items         []ytThreadItem `json:"items"`
	NextPageToken string         `json:"nextPageToken"`
}

type ytCommentsResp struct {
	Items         []ytComment `json:"items"`
	NextPageToken string      `json:"nextPageToken"`
}

// FetchComments fetches the full comment set for a video, paginating
// through commentThreads and (optionally) each thread's replies.
// Results are cached; a quota 403 on the primary key rotates to the
// fallback key before failing.
func FetchComments(ctx context.Context, input engine.FetchInput) (*engine.FetchResult, error) {
	engine.IncrCommentFetches()

	videoID, err := ExtractVideoID(input.URL)
	if err != nil {
		return nil, err
	}

	includeReplies := engine.Cfg.IncludeReplies
	if input.IncludeReplies != nil {
		includeReplies = *input.IncludeReplies
	}
	order := strings.ToLower(strings.TrimSpace(input.Order))
	if order == "" {
		order = engine.Cfg.CommentOrder
	}
	if order != "time" {
		order = "relevance"
	}
	maxPages := input.MaxPages
	if maxPages <= 0 {
		maxPages = engine.Cfg.MaxCommentPages
	}

	cacheKey := engine.CacheKey("comments", videoID, order, fmt.Sprintf("replies_%v_pages_%d", includeReplies, maxPages))
	if out, ok := engine.CacheLoadJSON[engine.FetchResult](ctx, cacheKey); ok {
		return &out, nil
	}

	keys := []string{engine.Cfg.YouTubeAPIKey}
	if engine.Cfg.YouTubeAPIKeyFallback != "" {
		keys = append(keys, engine.Cfg.YouTubeAPIKeyFallback)
	}

	var result *engine.FetchResult
	var lastErr error
	for i, key := range keys {
		if key == "" {
			lastErr = fmt.Errorf("youtube data API: no API key configured")
			continue
		}
		if i > 0 {
			engine.IncrAPIKeyFallbacks()
			slog.Warn("youtube: primary key exhausted, using fallback", slog.String("video_id", videoID))
		}
		result, lastErr = fetchAllComments(ctx, videoID, key, order, includeReplies, maxPages)
		if lastErr == nil {
			break
		}
		var qe *quotaError
		if !errors.As(lastErr, &qe) {
			break // only quota errors rotate keys
		}
	}
	if lastErr != nil {
		engine.IncrFetchErrors()
		return nil, lastErr
	}

	meta, err := FetchVideoMeta(ctx, videoID)
	if err != nil {
		slog.Debug("youtube: video meta unavailable", slog.String("video_id", videoID), slog.Any("error", err))
		meta = &engine.VideoMeta{VideoID: videoID}
	}
	result.Video = *meta

	engine.CacheStoreJSON(ctx, cacheKey, *result)
	slog.Info("youtube: comments fetched",
		slog.String("video_id", videoID),
		slog.Int("top_level", result.TopLevel),
		slog.Int("replies", result.Replies),
		slog.Int("pages", result.Pages),
	)
	return result, nil
}

// fetchAllComments walks the commentThreads pagination for one API key.
func fetchAllComments(ctx context.Context, videoID, apiKey, order string, includeReplies bool, maxPages int) (*engine.FetchResult, error) {
	res := &engine.FetchResult{}
	pageToken := ""

	for {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("videoId", videoID)
		params.Set("maxResults", fmt.Sprintf("%d", ytPageSize))
		params.Set("order", order)
		params.Set("textFormat", "html")
		params.Set("key", apiKey)
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page ytThreadsResp
		if err := getDataAPI(ctx, "/commentThreads", params, &page); err != nil {
			return nil, fmt.Errorf("commentThreads page %d: %w", res.Pages+1, err)
		}
		res.Pages++
		engine.IncrCommentPages()

		for _, item := range page.Items {
			top := item.Snippet.TopLevelComment
			res.Comments = append(res.Comments, toComment(top, ""))
			res.TopLevel++

			if includeReplies && item.Snippet.TotalReplyCount > 0 {
				replies, err := fetchReplies(ctx, top.ID, apiKey)
				if err != nil {
					// Replies are best-effort; the thread itself is kept.
					slog.Warn("youtube: replies unavailable", slog.String("parent_id", top.ID), slog.Any("error", err))
					continue
				}
				res.Comments = append(res.Comments, replies...)
				res.Replies += len(replies)
			}
		}

		pageToken = page.NextPageToken
		if pageToken == "" || (maxPages > 0 && res.Pages >= maxPages) {
			break
		}
	}
	return res, nil
}

// fetchReplies pages through comments.list for one parent comment.
func fetchReplies(ctx context.Context, parentID, apiKey string) ([]engine.Comment, error) {
	engine.IncrReplyFetches()

	var out []engine.Comment
	pageToken := ""
	for {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("parentId", parentID)
		params.Set("maxResults", fmt.Sprintf("%d", ytPageSize))
		params.Set("textFormat", "html")
		params.Set("key", apiKey)
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page ytCommentsResp
		if err := getDataAPI(ctx, "/comments", params, &page); err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			out = append(out, toComment(item, parentID))
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return out, nil
}

// toComment converts an API comment into the engine type, flattening the
// HTML text the API returns with textFormat=html.
func toComment(c ytComment, parentID string) engine.Comment {
	return engine.Comment{
		ID:          c.ID,
		ParentID:    parentID,
		Author:      c.Snippet.AuthorDisplayName,
		LikeCount:   c.Snippet.LikeCount,
		PublishedAt: c.Snippet.PublishedAt,
		Text:        engine.HTMLToText(c.Snippet.TextDisplay),
	}
}

// getDataAPI performs one rate-limited, retried GET against the Data API
// and decodes the JSON response into out.
func getDataAPI(ctx context.Context, endpoint string, params url.Values, out any) error {
	if err := engine.WaitAPISlot(ctx); err != nil {
		return err
	}

	apiURL := ytDataAPIBase + endpoint + "?" + params.Encode()
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		req.Header.Set("Accept", "application/json")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return fmt.Errorf("youtube data API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &quotaError{Body: string(body)}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("youtube data API %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode youtube data API: %w", err)
	}
	return nil
}
