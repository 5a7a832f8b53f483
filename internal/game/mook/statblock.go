package mook

import (
	"regexp"
	"strings"

	"github.com/raianasancho/gcsga/internal/game/fxp"
)

var (
	headingPattern   = regexp.MustCompile(`(?i)^\s*(advantages\s*/\s*disadvantages|advantages|disadvantages|perks|quirks|traits|skills|spells|equipment|gear|attacks|weapons|melee(?:\s+attacks)?|ranged(?:\s+attacks)?)\s*:\s*(.*)$`)
	attributePattern = regexp.MustCompile(`(?i)\b(basic\s+speed|basic\s+move|st|dx|iq|ht|hp|fp|will|per|speed|move|dodge|parry|block|dr|sm)\s*:?\s*([-+]?\d+(?:\.\d+)?)`)
	separatorPattern = regexp.MustCompile(`[\s;,.]+`)
)

var headingSections = map[string]Section{
	"advantages": Traits, "disadvantages": Traits, "perks": Traits, "quirks": Traits, "traits": Traits,
	"skills": Skills, "spells": Spells, "equipment": Equipment, "gear": Equipment,
	"attacks": Melee, "weapons": Melee, "melee": Melee, "ranged": Ranged,
}

var attributeIDs = map[string]string{
	"speed": "basic_speed", "basic speed": "basic_speed",
	"move": "basic_move", "basic move": "basic_move",
}

func headingSection(heading string) Section {
	h := strings.ToLower(strings.Join(strings.Fields(heading), " "))
	if first, _, ok := strings.Cut(h, "/"); ok {
		h = strings.TrimSpace(first)
	}
	if first, _, ok := strings.Cut(h, " "); ok {
		h = first
	}
	return headingSections[h]
}

// ParseStatBlock splits a complete free-text stat block into sections and
// parses each. A leading line that is neither a heading nor attributes is
// taken as the name. Attribute lines ("ST 12; DX 11; IQ 10; HT 12") may
// appear anywhere. Lines before the first heading that fit nowhere else go
// to the catchall.
func (p *Parser) ParseStatBlock(text string) *Record {
	r := &Record{}
	buffers := make(map[Section][]string)
	var current Section
	first := true
	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			current = headingSection(m[1])
			if rest := strings.TrimSpace(m[2]); rest != "" {
				buffers[current] = append(buffers[current], rest)
			}
			first = false
			continue
		}
		if attrs, ok := parseAttributeLine(line); ok {
			r.Attributes = mergeAttributes(r.Attributes, attrs)
			first = false
			continue
		}
		switch {
		case current != "":
			buffers[current] = append(buffers[current], line)
		case first:
			r.Name = line
		default:
			r.Catchall = append(r.Catchall, line)
		}
		first = false
	}
	for _, sec := range Sections {
		if lines, ok := buffers[sec]; ok {
			p.ParseSection(r, sec, strings.Join(lines, "\n"))
		}
	}
	return r
}

// parseAttributeLine reports whether line consists only of attribute
// scores, returning them in order.
func parseAttributeLine(line string) ([]AttributeValue, bool) {
	matches := attributePattern.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return nil, false
	}
	leftover := separatorPattern.ReplaceAllString(attributePattern.ReplaceAllString(line, ""), "")
	if leftover != "" {
		return nil, false
	}
	out := make([]AttributeValue, 0, len(matches))
	for _, m := range matches {
		v, err := fxp.FromString(m[2])
		if err != nil {
			return nil, false
		}
		key := strings.ToLower(strings.Join(strings.Fields(m[1]), " "))
		id, ok := attributeIDs[key]
		if !ok {
			id = key
		}
		out = append(out, AttributeValue{ID: id, Value: v})
	}
	return out, true
}

func mergeAttributes(into, add []AttributeValue) []AttributeValue {
outer:
	for _, a := range add {
		for i := range into {
			if into[i].ID == a.ID {
				into[i].Value = a.Value
				continue outer
			}
		}
		into = append(into, a)
	}
	return into
}
