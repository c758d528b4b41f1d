package story

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const minFallbacks = 3

// Story is one narratable entry, in the shape the corpus returns it and the
// library file declares it.
type Story struct {
	Title string `json:"title" yaml:"title"`
	Story string `json:"story" yaml:"story"`
	Moral string `json:"moral" yaml:"moral"`
}

// Library holds the built-in fallback stories and the stop-word list used
// during keyword extraction. A YAML file can override either list.
type Library struct {
	Fallbacks []Story  `yaml:"fallbacks"`
	StopWords []string `yaml:"stop_words"`
}

// DefaultLibrary returns the compiled-in library.
func DefaultLibrary() *Library {
	return &Library{
		Fallbacks: defaultFallbacks,
		StopWords: defaultStopWords,
	}
}

// LoadLibrary reads a YAML library file and overlays it on the defaults;
// lists the file leaves empty keep their built-in values.
func LoadLibrary(path string) (*Library, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read story library")
	}
	lib := &Library{}
	if err := yaml.Unmarshal(raw, lib); err != nil {
		return nil, errors.Wrap(err, "parse story library")
	}
	if len(lib.Fallbacks) == 0 {
		lib.Fallbacks = defaultFallbacks
	}
	if len(lib.StopWords) == 0 {
		lib.StopWords = defaultStopWords
	}
	if len(lib.Fallbacks) < minFallbacks {
		return nil, errors.Errorf("story library needs at least %d fallback stories, found %d", minFallbacks, len(lib.Fallbacks))
	}
	return lib, nil
}

var defaultFallbacks = []Story{
	{
		Title: "The Lighthouse Cat",
		Story: "A small grey cat lived in a lighthouse at the edge of a stormy sea. Every night she circled the great lamp, and sailors far from shore swore the beam blinked in greeting. One winter the keeper fell ill, and the cat paced the lamp room alone until the light was lit again. From that night on, no ship passing the point ever lost its way.",
		Moral: "Small guardians keep the largest promises.",
	},
	{
		Title: "The Clockmaker's Sparrow",
		Story: "A clockmaker once built a tin sparrow that could whistle a single note. The town laughed at the plain little bird sitting among his grand chiming clocks. But when the great tower clock froze one icy morning, it was the sparrow's note, steady as a heartbeat, that kept the whole square on time. The clockmaker polished the sparrow every day for the rest of his life.",
		Moral: "Steadiness outlasts splendor.",
	},
	{
		Title: "The Map with One Blank Corner",
		Story: "An explorer owned a map of the whole world, complete but for one blank corner. She crossed deserts and rivers to fill it, and found there only a quiet meadow with a single apple tree. She sat beneath the tree all afternoon, and when she finally drew the meadow onto the map she wrote beside it: worth the journey. It became the only place she ever visited twice.",
		Moral: "The unknown is sometimes a resting place.",
	},
	{
		Title: "The Baker of Thin Mornings",
		Story: "In a village where winters ran long, a baker rose before the birds to warm her ovens. She left the first loaf of every day on the windowsill for whoever needed it most. Nobody ever saw who took the loaves, yet every spring her garden bloomed with flowers nobody had planted. The baker never asked, and the flowers never stopped.",
		Moral: "Quiet kindness returns in quiet ways.",
	},
}

var defaultStopWords = []string{
	"about", "after", "again", "also", "been", "before", "being", "between",
	"both", "cannot", "could", "does", "doing", "down", "during", "each",
	"from", "further", "have", "having", "here", "hers", "herself", "himself",
	"into", "itself", "just", "like", "made", "make", "many", "more", "most",
	"much", "myself", "once", "only", "other", "over", "please", "same",
	"shall", "should", "some", "something", "stories", "story", "such",
	"tell", "than", "that", "their", "theirs", "them", "then", "there",
	"these", "they", "this", "those", "through", "until", "very", "want",
	"were", "what", "when", "where", "which", "while", "will", "with",
	"would", "your", "yours",
}
