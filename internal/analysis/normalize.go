package analysis

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/RadhiFadlillah/whatlanggo"
)

// Text normalization: raw comment string → ordered token sequence.
// Total over all inputs — malformed or empty text yields an empty slice,
// never an error. Normalizing already-normalized text is a no-op.

var (
	urlRE     = regexp.MustCompile(`https?://\S+|www\.\S+`)
	mentionRE = regexp.MustCompile(`@\w+`)
	spaceRE   = regexp.MustCompile(`\s+`)
)

// Normalize converts one raw comment into tokens for the given bucket:
// unescape → strip URLs/mentions → squeeze repeats → lowercase → strip
// punctuation → split → stopword filter.
func Normalize(raw, bucket string) []string {
	clean := CleanText(raw)
	if clean == "" {
		return nil
	}

	stop := stopwordsFor(bucket)
	fields := strings.Fields(clean)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if stop != nil && stop[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

// CleanText applies every normalization step except stopword removal and
// returns a single space-joined string. Kept separate so processed CSVs can
// carry a readable clean_text column.
func CleanText(raw string) string {
	t := html.UnescapeString(raw)
	t = strings.NewReplacer("\n", " ", "\r", " ").Replace(t)
	t = urlRE.ReplaceAllString(t, " ")
	t = mentionRE.ReplaceAllString(t, " ")
	t = strings.ReplaceAll(t, "#", "") // hashtags keep their word
	t = squeezeRepeats(t)
	t = strings.ToLower(t)
	t = stripPunct(t)
	return strings.TrimSpace(spaceRE.ReplaceAllString(t, " "))
}

// squeezeRepeats caps runs of 4+ identical runes at 2 ("soooooo" → "soo").
// RE2 has no backreferences, so this is done runewise.
func squeezeRepeats(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	runLen := 0
	var pending []rune
	flush := func() {
		if runLen >= 4 {
			b.WriteRune(prev)
			b.WriteRune(prev)
		} else {
			for _, r := range pending {
				b.WriteRune(r)
			}
		}
		pending = pending[:0]
	}
	for _, r := range s {
		if runLen > 0 && r == prev {
			runLen++
			pending = append(pending, r)
			continue
		}
		flush()
		prev = r
		runLen = 1
		pending = append(pending[:0], r)
	}
	flush()
	return b.String()
}

// stripPunct replaces every rune that is not a letter or digit with a space.
func stripPunct(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s)
}

// --- Language buckets ---

const (
	bucketUnknown = "unknown"
	bucketOthers  = "others"

	// Detection thresholds. Comments below these limits go to "unknown".
	minWords          = 2
	minAlphaChars     = 8
	minLangConfidence = 0.35
)

// isLowSignal reports whether a comment is too short for reliable language
// detection.
func isLowSignal(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return true
	}
	if len(strings.Fields(t)) < minWords {
		return true
	}
	alpha := 0
	for _, r := range t {
		if unicode.IsLetter(r) {
			alpha++
		}
	}
	return alpha < minAlphaChars
}

// DetectLang classifies a comment's language as an ISO 639-1 code, "other"
// for languages without a stopword list, or "unknown" when the text is too
// short or detection confidence is low.
func DetectLang(text string) string {
	if isLowSignal(text) {
		return bucketUnknown
	}
	info := whatlanggo.Detect(text)
	if info.Confidence < minLangConfidence {
		return bucketUnknown
	}
	switch code := info.Lang.Iso6391(); code {
	case "tr", "en":
		return code
	default:
		return "other"
	}
}

// DecideBuckets picks which detected languages get their own analysis
// bucket: every language (except unknown/other) whose share of the comment
// set is at least threshold. The remainder lands in "others".
func DecideBuckets(langCounts map[string]int, threshold float64) map[string]bool {
	total := 0
	for _, n := range langCounts {
		total += n
	}
	analyze := make(map[string]bool)
	if total == 0 {
		return analyze
	}
	for lang, n := range langCounts {
		if lang == bucketUnknown || lang == "other" {
			continue
		}
		if float64(n)/float64(total) >= threshold {
			analyze[lang] = true
		}
	}
	return analyze
}

// BucketFor maps a detected language to its analysis bucket.
func BucketFor(lang string, analyze map[string]bool) string {
	if lang == bucketUnknown {
		return bucketUnknown
	}
	if analyze[lang] {
		return lang
	}
	return bucketOthers
}
