package story

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"
)

const (
	shortInputLimit = 10
	minStoryLength  = 50
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Corpus supplies the remote story collection.
type Corpus interface {
	Stories(ctx context.Context) ([]Story, error)
}

// Resolver turns transcript text into the story to narrate. Every path
// ends in a non-empty story: a corpus pick, a composed narrative, or one of
// the library fallbacks.
type Resolver struct {
	corpus  Corpus
	library *Library
	stop    map[string]bool
	mu      sync.Mutex
	rng     *rand.Rand
	logger  *log.Logger
}

// NewResolver wires a Resolver. rng drives every random selection, so tests
// pass a seeded source.
func NewResolver(corpus Corpus, library *Library, rng *rand.Rand, logger *log.Logger) *Resolver {
	stop := make(map[string]bool, len(library.StopWords))
	for _, w := range library.StopWords {
		stop[strings.ToLower(w)] = true
	}
	return &Resolver{corpus: corpus, library: library, stop: stop, rng: rng, logger: logger}
}

// Resolve picks the story for a transcript. Short transcripts and
// transcripts with no usable keywords draw from the fallback set. Otherwise
// the corpus is filtered by keyword and the chosen text is stripped of
// HTML-like tags; anything too short to narrate is replaced by a composed
// narrative built from the keywords.
func (r *Resolver) Resolve(ctx context.Context, transcript string) string {
	if utf8.RuneCountInString(transcript) <= shortInputLimit {
		return r.fallback()
	}
	keywords := Keywords(transcript, r.stop)
	if len(keywords) == 0 {
		return r.fallback()
	}

	stories, err := r.corpus.Stories(ctx)
	if err != nil {
		r.logger.Printf("story corpus unavailable: %v", err)
		return composeStory(keywords)
	}
	if len(stories) == 0 {
		return composeStory(keywords)
	}

	chosen := r.choose(stories, keywords)
	text := strings.TrimSpace(tagPattern.ReplaceAllString(chosen.Story, ""))
	if utf8.RuneCountInString(text) < minStoryLength {
		return composeStory(keywords)
	}
	return text
}

// choose picks uniformly among the stories whose text contains any keyword,
// or among the whole corpus when nothing matches.
func (r *Resolver) choose(stories []Story, keywords []string) Story {
	var matches []Story
	for _, s := range stories {
		text := strings.ToLower(s.Story)
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				matches = append(matches, s)
				break
			}
		}
	}
	pool := stories
	if len(matches) > 0 {
		pool = matches
	}
	return pool[r.pick(len(pool))]
}

func (r *Resolver) fallback() string {
	stories := r.library.Fallbacks
	return stories[r.pick(len(stories))].Story
}

// pick returns a random index below n. One Resolver serves every request
// and math/rand generators are not safe for concurrent use, so access is
// serialized here.
func (r *Resolver) pick(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

// composeStory builds the deterministic stand-in narrative used when the
// corpus cannot supply a usable story for the keywords.
func composeStory(keywords []string) string {
	subject := keywords[0]
	rest := "wonderful things"
	if len(keywords) > 1 {
		rest = strings.Join(keywords[1:], " and ")
	}
	return fmt.Sprintf(
		"Once upon a time, a curious traveler set out to learn everything about %s. "+
			"On the road the traveler found %s, and every stranger had a tale to share about them. "+
			"When the journey ended, the traveler understood that no treasure compares to %s. The end.",
		subject, rest, subject)
}
