package sources

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/anatolykoptev/go_comments/internal/engine"
)

// Video metadata: Data API videos.list when a key is configured, watch-page
// <meta> scraping otherwise. Either way the pipeline gets a title for
// reports and meta.json.

const ytWatchURL = "https://www.youtube.com/watch"

type ytVideosResp struct {
	Items []struct {
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
	} `json:"items"`
}

// FetchVideoMeta resolves title and channel for a video ID.
func FetchVideoMeta(ctx context.Context, videoID string) (*engine.VideoMeta, error) {
	engine.IncrVideoMetaFetches()

	if engine.Cfg.YouTubeAPIKey != "" {
		meta, err := fetchVideoMetaDataAPI(ctx, videoID)
		if err == nil {
			return meta, nil
		}
		slog.Debug("youtube: videos.list failed, scraping watch page", slog.Any("error", err))
	}
	return fetchVideoMetaWatchPage(ctx, videoID)
}

func fetchVideoMetaDataAPI(ctx context.Context, videoID string) (*engine.VideoMeta, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", videoID)
	params.Set("key", engine.Cfg.YouTubeAPIKey)

	var resp ytVideosResp
	if err := getDataAPI(ctx, "/videos", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("video %s not found", videoID)
	}
	return &engine.VideoMeta{
		VideoID:      videoID,
		Title:        resp.Items[0].Snippet.Title,
		ChannelTitle: resp.Items[0].Snippet.ChannelTitle,
	}, nil
}

// fetchVideoMetaWatchPage scrapes og: meta tags from the watch page.
func fetchVideoMetaWatchPage(ctx context.Context, videoID string) (*engine.VideoMeta, error) {
	pageURL := ytWatchURL + "?v=" + url.QueryEscape(videoID)
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentChrome)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("watch page status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("watch page read: %w", err)
	}

	meta := parseWatchPageMeta(string(body))
	meta.VideoID = videoID
	if meta.Title == "" {
		return meta, fmt.Errorf("watch page for %s has no title meta", videoID)
	}
	return meta, nil
}

// parseWatchPageMeta walks the HTML tree for og:title and the channel
// itemprop link.
func parseWatchPageMeta(body string) *engine.VideoMeta {
	meta := &engine.VideoMeta{}

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return meta
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				var prop, name, content string
				for _, a := range n.Attr {
					switch a.Key {
					case "property":
						prop = a.Val
					case "name":
						name = a.Val
					case "content":
						content = a.Val
					}
				}
				if (prop == "og:title" || name == "title") && meta.Title == "" {
					meta.Title = content
				}
			case "link":
				var itemprop, content string
				for _, a := range n.Attr {
					switch a.Key {
					case "itemprop":
						itemprop = a.Val
					case "content":
						content = a.Val
					}
				}
				if itemprop == "name" && meta.ChannelTitle == "" {
					meta.ChannelTitle = content
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return meta
}
