package heuristic

// a1Words is the curated set of very common words scored A1 regardless of length
var a1Words = set(
	"the", "a", "an", "and", "i", "you", "he", "she", "it", "we", "they",
	"good", "bad", "big", "small", "new", "old", "hot", "cold",
	"time", "day", "year",
	"go", "come", "eat", "drink", "see", "look", "like", "want", "need",
	"home", "family", "friend", "water", "food", "work", "school",
)

// a2Words is the curated set of common words scored A2 regardless of length
var a2Words = set(
	"about", "after", "again", "because", "between", "during", "different",
	"important", "often", "through", "young", "large", "most", "write", "world",
)

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
