package sources

// YouTube implementation is split across two files by responsibility:
//   youtube_comments.go — Data API v3 comment thread + reply pagination,
//                         API key fallback, and video ID extraction
//   youtube_video.go    — video metadata (videos.list + watch-page fallback)
