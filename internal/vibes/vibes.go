// internal/vibes/vibes.go
//
// Static vibe and theme registry. Everything here is immutable
// configuration: candidate genres, retrieval bounds and the keyword lists
// the alignment scorer matches against. None of it is user data.
package vibes

import "fmt"

type Vibe string

const (
	VibeCozy       Vibe = "cozy"
	VibeSilly      Vibe = "silly"
	VibeAdventure  Vibe = "adventure"
	VibeArtsy      Vibe = "artsy"
	VibeMusical    Vibe = "musical"
	VibeClassic    Vibe = "classic"
	VibeMillennial Vibe = "millennial"
)

type Theme string

const (
	ThemeNone      Theme = "none"
	ThemeAnimals   Theme = "animals"
	ThemeSports    Theme = "sports"
	ThemeSummer    Theme = "summer"
	ThemeHalloween Theme = "halloween"
	ThemeChristmas Theme = "christmas"
	ThemeWinter    Theme = "winter"
)

// Config drives candidate retrieval and the composite scorer for one vibe.
// YearStart/YearEnd of 0 mean unbounded.
type Config struct {
	Genres                  []string
	YearStart               int
	YearEnd                 int
	MinRating               float64
	PreferredCertifications []string
	Keywords                []string
}

// ThemeConfig widens retrieval and drives the legacy theme boost.
type ThemeConfig struct {
	Keywords         []string
	AdditionalGenres []string
}

var vibeConfigs = map[Vibe]Config{
	VibeCozy: {
		Genres:                  []string{"family", "fantasy", "animation"},
		MinRating:               7.0,
		PreferredCertifications: []string{"G", "PG"},
		Keywords:                []string{"magic", "cozy", "heartwarming", "friendship", "family"},
	},
	VibeSilly: {
		Genres:                  []string{"comedy", "family", "animation"},
		MinRating:               6.5,
		PreferredCertifications: []string{"G", "PG"},
		Keywords:                []string{"funny", "silly", "comedy", "laugh", "humor"},
	},
	VibeAdventure: {
		Genres:                  []string{"adventure", "action", "sci-fi", "fantasy"},
		MinRating:               7.0,
		PreferredCertifications: []string{"PG", "PG-13"},
		Keywords:                []string{"adventure", "quest", "journey", "action", "hero"},
	},
	VibeArtsy: {
		Genres:                  []string{"animation", "drama", "foreign"},
		MinRating:               7.5,
		PreferredCertifications: []string{"G", "PG", "PG-13"},
		Keywords:                []string{"artistic", "animation", "creative", "unique", "beautiful"},
	},
	VibeMusical: {
		Genres:                  []string{"music"},
		MinRating:               6.0,
		PreferredCertifications: []string{"G", "PG", "PG-13"},
		Keywords:                []string{"musical", "singing", "dance", "broadway", "song", "performance"},
	},
	VibeClassic: {
		Genres:                  []string{"family", "comedy", "drama", "adventure"},
		YearEnd:                 1980,
		MinRating:               7.5,
		PreferredCertifications: []string{"G", "PG"},
		Keywords:                []string{"classic", "timeless", "vintage", "nostalgic"},
	},
	VibeMillennial: {
		Genres:                  []string{"family", "comedy", "adventure", "animation"},
		YearStart:               1980,
		YearEnd:                 2010,
		MinRating:               6.5,
		PreferredCertifications: []string{"G", "PG", "PG-13"},
		Keywords:                []string{"90s", "80s", "childhood", "retro", "nostalgia"},
	},
}

var themeConfigs = map[Theme]ThemeConfig{
	ThemeAnimals: {
		Keywords:         []string{"animal", "dog", "cat", "wildlife", "zoo", "nature"},
		AdditionalGenres: []string{"documentary", "family"},
	},
	ThemeSports: {
		Keywords:         []string{"sports", "baseball", "football", "basketball", "soccer", "olympics"},
		AdditionalGenres: []string{"sport"},
	},
	ThemeSummer: {
		Keywords:         []string{"summer", "beach", "vacation", "camp", "adventure"},
		AdditionalGenres: []string{"adventure", "comedy"},
	},
	ThemeHalloween: {
		Keywords:         []string{"halloween", "friendly ghost", "witch", "magic", "supernatural"},
		AdditionalGenres: []string{"fantasy", "family"},
	},
	ThemeChristmas: {
		Keywords:         []string{"christmas", "holiday", "santa", "winter", "festive"},
		AdditionalGenres: []string{"family"},
	},
	ThemeWinter: {
		Keywords:         []string{"winter", "snow", "ice", "skiing", "arctic"},
		AdditionalGenres: []string{"adventure", "family"},
	},
}

// alignmentKeywords are the emotional/mood lists the alignment scorer
// matches against movie text. Distinct from Config.Keywords, which shape
// the retrieval query and the legacy text boost.
var alignmentKeywords = map[Vibe][]string{
	VibeCozy:      {"warm", "cozy", "enchanting", "heartwarming", "comforting"},
	VibeSilly:     {"playful", "lighthearted", "innocent", "funny", "cheerful", "whimsical"},
	VibeAdventure: {"exciting", "thrilling", "bold", "epic", "energetic", "heroic"},
	VibeArtsy:     {"beautiful", "contemplative", "creative", "unique", "thoughtful", "inspiring"},
	VibeMusical:   {"upbeat", "joyful", "energetic", "celebratory", "rhythmic", "lively"},
	VibeClassic:   {"timeless", "nostalgic", "enduring"},
	VibeMillennial: {
		"nostalgic", "familiar", "comforting", "fun", "reminiscent", "cherished",
		"childhood", "growing up", "family", "heartwarming",
		"adventure", "friendship", "coming of age", "wholesome", "classic",
	},
}

var themeAlignmentKeywords = map[Theme][]string{
	ThemeAnimals: {
		"animal", "animals", "dog", "dogs", "cat", "cats", "panda", "pandas",
		"wildlife", "pet", "pets", "creature", "creatures", "beast", "beasts",
		"lion", "lions", "tiger", "tigers", "bear", "bears", "elephant", "elephants",
		"bird", "birds", "fish", "horse", "horses", "cow", "cows", "pig", "pigs",
		"rabbit", "rabbits", "mouse", "mice", "monkey", "monkeys", "wolf", "wolves",
		"zoo", "farm", "jungle", "safari", "dinosaur", "dragon", "shark", "dolphin",
		"fox", "deer", "penguin", "turtle", "frog", "snake", "spider", "butterfly",
		"kitten", "puppy", "pony", "hamster", "guinea pig", "parrot", "owl",
		"forest", "nature", "wild", "talking animal", "anthropomorphic",
	},
	ThemeSports: {
		"sport", "sports", "baseball", "football", "basketball", "soccer", "olympics",
		"athletic", "athlete", "athletes", "competition", "championship", "team",
		"tennis", "golf", "hockey", "swimming", "running", "racing", "boxing",
		"wrestling", "gymnastics", "skiing", "surfing", "cycling", "marathon",
		"coach", "training", "game", "match", "tournament", "league", "stadium",
		"court", "field", "track", "underdog", "victory", "rival", "workout",
		"fitness", "martial arts", "cheerleading", "dance competition",
	},
	ThemeSummer: {
		"summer", "beach", "beaches", "ocean", "vacation", "camp",
		"camping", "swimming", "surfing", "sun", "sunny", "tropical", "island",
		"pool", "sailing", "fishing", "picnic", "barbecue",
		"hot", "warm", "bikini", "sunscreen", "sandcastle", "lifeguard", "resort",
		"road trip", "festival", "sunshine",
		"camp counselor", "summer camp", "reunion", "getaway",
	},
	ThemeHalloween: {
		"halloween", "spooky", "ghost", "ghosts", "witch", "witches",
		"supernatural", "costume", "costumes", "trick or treat", "trick-or-treat",
		"pumpkin", "pumpkins", "scary", "monster", "monsters",
		"vampire", "vampires", "zombie", "zombies", "haunted", "creepy",
		"cemetery", "graveyard", "october", "candy", "eerie",
		"jack-o-lantern", "frankenstein", "dracula", "mummy",
	},
	ThemeChristmas: {
		"christmas", "santa", "santa claus", "reindeer",
		"sleigh", "mistletoe", "wreath", "carol", "carols", "christmas tree",
		"ornament", "ornaments", "xmas", "noel", "december 25",
		"chimney", "workshop", "north pole", "gingerbread", "christmas eve",
		"christmas day", "jolly", "ho ho ho", "jingle", "nutcracker",
		"christmas morning", "christmas spirit", "christmas miracle",
	},
	ThemeWinter: {
		"winter", "snow", "snowy", "ice", "icy", "cold", "skiing", "arctic",
		"frozen", "frost", "blizzard", "snowman", "snowmen", "sledding",
		"skating", "snowball", "snowflake", "snowflakes", "cabin", "fireplace",
		"mittens", "scarf", "coat", "boots", "cocoa", "hibernate",
		"chill", "freezing", "icicle", "snowstorm", "hot chocolate", "warm",
		"cozy", "lodge", "mountain", "ski resort", "polar", "tundra",
	},
	ThemeNone: {},
}

// AnimationIndicators gate the artsy vibe: a movie whose text contains none
// of these must never score as an artsy match.
var AnimationIndicators = []string{
	"animation", "animated", "cartoon", "anime", "stop motion", "claymation",
	"computer-animated", "hand-drawn",
}

// All lists every vibe in presentation order.
func All() []Vibe {
	return []Vibe{VibeCozy, VibeSilly, VibeAdventure, VibeArtsy, VibeMusical, VibeClassic, VibeMillennial}
}

// AllThemes lists every selectable theme, ThemeNone excluded.
func AllThemes() []Theme {
	return []Theme{ThemeAnimals, ThemeSports, ThemeSummer, ThemeHalloween, ThemeChristmas, ThemeWinter}
}

func Parse(s string) (Vibe, error) {
	v := Vibe(s)
	if _, ok := vibeConfigs[v]; !ok {
		return "", fmt.Errorf("unknown vibe %q", s)
	}
	return v, nil
}

func ParseTheme(s string) (Theme, error) {
	if s == "" || s == string(ThemeNone) {
		return ThemeNone, nil
	}
	t := Theme(s)
	if _, ok := themeConfigs[t]; !ok {
		return "", fmt.Errorf("unknown theme %q", s)
	}
	return t, nil
}

// ConfigFor returns the retrieval/scoring configuration for a vibe.
func ConfigFor(v Vibe) (Config, bool) {
	cfg, ok := vibeConfigs[v]
	return cfg, ok
}

// ThemeConfigFor returns the retrieval/scoring configuration for a theme.
// ThemeNone has no configuration.
func ThemeConfigFor(t Theme) (ThemeConfig, bool) {
	cfg, ok := themeConfigs[t]
	return cfg, ok
}

// AlignmentKeywords returns the mood keywords the alignment scorer matches
// for a vibe.
func AlignmentKeywords(v Vibe) []string {
	return alignmentKeywords[v]
}

// ThemeKeywords returns the content keywords the alignment scorer matches
// for a theme. Empty for ThemeNone.
func ThemeKeywords(t Theme) []string {
	return themeAlignmentKeywords[t]
}
