package randomname

import (
	"fmt"
	"math/rand"
	"regexp"
)

var adjectives = []string{
	"brave", "calm", "eager", "gentle", "happy", "jolly", "kind", "lively",
	"proud", "swift", "sharp", "bold", "bright", "clever", "curious", "daring",
	"fearless", "gallant", "golden", "humble", "luminous", "mellow", "mighty",
	"noble", "peaceful", "quick", "quirky", "radiant", "serene", "silent",
	"spirited", "stellar", "sunny", "tidy", "valiant", "vivid", "warm",
	"whimsical", "wise", "zesty",
}

var nouns = []string{
	"falcon", "otter", "tiger", "dolphin", "panda", "koala", "wolf", "rabbit",
	"badger", "beaver", "bison", "chameleon", "cormorant", "crane", "deer",
	"finch", "firefly", "gecko", "heron", "ibis", "jackal", "kestrel",
	"kingfisher", "lemur", "lynx", "magpie", "manatee", "marten", "narwhal",
	"ocelot", "osprey", "pelican", "puffin", "quokka", "raven", "seal",
	"sparrow", "swift", "tapir", "wren",
}

// generatedPattern matches the generated-name convention, including the
// longer suffixes some earlier identity batches carried.
var generatedPattern = regexp.MustCompile(`^[a-z]+-[a-z]+-[0-9a-f]{6,8}$`)

// Generate returns a random pseudonymous name like "brave-falcon-1a2b3c".
func Generate() string {
	adj := adjectives[rand.Intn(len(adjectives))]
	noun := nouns[rand.Intn(len(nouns))]
	suffix := rand.Intn(1 << 24)
	return fmt.Sprintf("%s-%s-%06x", adj, noun, suffix)
}

// IsGenerated reports whether a display name follows the generated-name
// convention. Any user-chosen name that happens to match is misclassified,
// which is why classification by trust tier is preferred where available.
func IsGenerated(name string) bool {
	return generatedPattern.MatchString(name)
}
