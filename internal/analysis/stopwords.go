package analysis

// Fixed stopword sets. Only languages with a list here get stopword
// filtering; other buckets keep every token.

var stopwordsEN = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"because": true, "so": true, "to": true, "of": true, "in": true, "on": true,
	"for": true, "with": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "it": true, "this": true, "that": true,
	"i": true, "you": true, "we": true, "they": true, "my": true, "your": true,
	"our": true, "their": true,
}

var stopwordsTR = map[string]bool{
	"ve": true, "ile": true, "ama": true, "fakat": true, "çünkü": true,
	"çok": true, "bir": true, "bu": true, "şu": true, "o": true, "da": true,
	"de": true, "mi": true, "mı": true, "mu": true, "mü": true, "için": true,
	"gibi": true, "daha": true, "en": true, "şey": true, "ben": true,
	"sen": true, "biz": true, "siz": true, "onlar": true, "var": true,
	"yok": true, "olan": true, "olarak": true, "ya": true, "ki": true,
}

// stopwordsFor returns the stopword set for a bucket tag, or nil.
func stopwordsFor(bucket string) map[string]bool {
	switch bucket {
	case "en":
		return stopwordsEN
	case "tr":
		return stopwordsTR
	}
	return nil
}
