package modifier

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var standardCatalog []byte

// DefaultSearchThreshold is the minimum Jaro-Winkler similarity a catalog
// entry needs to be returned by Search.
const DefaultSearchThreshold = 0.75

// Catalog is a searchable list of standard modifiers.
type Catalog struct {
	Modifiers []Modifier
	Threshold float64
}

// ParseCatalog decodes a YAML list of modifiers.
func ParseCatalog(data []byte) (*Catalog, error) {
	var mods []Modifier
	if err := yaml.Unmarshal(data, &mods); err != nil {
		return nil, fmt.Errorf("parsing modifier catalog: %w", err)
	}
	var errs []string
	for i, m := range mods {
		if strings.TrimSpace(m.Name) == "" {
			errs = append(errs, fmt.Sprintf("[%d]: name must not be empty", i))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("modifier catalog validation failed: %s", strings.Join(errs, "; "))
	}
	return &Catalog{Modifiers: mods, Threshold: DefaultSearchThreshold}, nil
}

// LoadCatalog reads a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading modifier catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// StandardCatalog returns the built-in catalog.
func StandardCatalog() *Catalog {
	c, err := ParseCatalog(standardCatalog)
	if err != nil {
		panic("modifier: embedded catalog invalid: " + err.Error())
	}
	return c
}

// Match is a catalog entry and its similarity to a query.
type Match struct {
	Modifier Modifier
	Score    float64
}

// Search ranks catalog entries by fuzzy similarity of query to their names
// and tags, best first. At most limit matches are returned; limit <= 0
// returns all that pass the threshold.
func (c *Catalog) Search(query string, limit int) []Match {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []Match
	for _, m := range c.Modifiers {
		score := similarity(q, strings.ToLower(m.Name))
		for _, tag := range m.Tags {
			if s := similarity(q, strings.ToLower(tag)); s > score {
				score = s
			}
		}
		if score >= c.Threshold {
			out = append(out, Match{Modifier: m, Score: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// similarity is the best Jaro-Winkler score of the full strings or of any
// pair of their words.
func similarity(query, candidate string) float64 {
	score := matchr.JaroWinkler(query, candidate, false)
	qTokens, cTokens := strings.Fields(query), strings.Fields(candidate)
	for _, qt := range qTokens {
		for _, ct := range cTokens {
			if s := matchr.JaroWinkler(qt, ct, false); s > score {
				score = s
			}
		}
	}
	return score
}

// Tagged returns the entries carrying tag, compared case-insensitively.
func (c *Catalog) Tagged(tag string) []Modifier {
	var out []Modifier
	for _, m := range c.Modifiers {
		for _, t := range m.Tags {
			if strings.EqualFold(t, tag) {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// Find returns the entry named name, compared case-insensitively.
func (c *Catalog) Find(name string) (Modifier, bool) {
	for _, m := range c.Modifiers {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return Modifier{}, false
}
