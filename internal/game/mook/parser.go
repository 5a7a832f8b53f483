package mook

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/raianasancho/gcsga/internal/game/fxp"
)

var (
	pointsPattern      = regexp.MustCompile(`\[\s*([-+]?\d+)\s*\]`)
	parenPattern       = regexp.MustCompile(`\(([^()]*)\)`)
	trailingLevel      = regexp.MustCompile(`^(.*?\S)\s+(\d+)$`)
	crPattern          = regexp.MustCompile(`(?i)^(?:cr\s*:?\s*)?(6|9|12|15)$`)
	skillLevelPattern  = regexp.MustCompile(`^(.*?)\s*[-–]\s*(\d+)$`)
	relativePattern    = regexp.MustCompile(`(?i)\b(st|dx|iq|ht|will|per)\s*([+-]\d+)?\s*$`)
	difficultyPattern  = regexp.MustCompile(`(?i)^(?:(st|dx|iq|ht|will|per)\s*/\s*)?(e|a|h|vh|w)$`)
	techLevelPattern   = regexp.MustCompile(`(?i)/TL\s*(\d+\^?)$`)
	quantityPrefix     = regexp.MustCompile(`^(\d+)\s*[×x]\s*(.+)$`)
	quantitySuffix     = regexp.MustCompile(`^(.+?)\s*[×x]\s*(\d+)$`)
	valuePattern       = regexp.MustCompile(`^\$\s*([\d,]+(?:\.\d+)?)$`)
	weightPattern      = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(lbs?|oz|kg|g|tn|t)\.?$`)
	attackPattern      = regexp.MustCompile(`^(.+?)\s*\((\d+)\)\s*:?\s*(.*)$`)
	attackFieldPattern = regexp.MustCompile(`(?i)^(reach|parry|block|acc|range|rof|shots|bulk|rcl|st)\.?\s*:?\s*(.+)$`)
)

// Parser turns stat-block text into entries. Lines it cannot parse are
// kept in the record's catchall, never reported as errors.
type Parser struct {
	logger *zap.Logger
	newID  func() string
}

// NewParser creates a Parser.
//
// Precondition: logger must not be nil.
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		panic("mook: NewParser requires a non-nil logger")
	}
	return &Parser{logger: logger, newID: uuid.NewString}
}

// SplitLines splits section text at semicolons that are not inside
// parentheses or brackets, and at every line break. A bracket left open at
// a line break or at the end of the text does not swallow the rest: the
// span since the last split is split at every semicolon instead. Empty
// lines are dropped.
func SplitLines(text string) []string {
	var (
		lines []string
		depth int
		start int
	)
	add := func(s string) {
		if line := strings.TrimSpace(s); line != "" {
			lines = append(lines, line)
		}
	}
	flush := func(end int) {
		if depth > 0 {
			for _, part := range strings.Split(text[start:end], ";") {
				add(part)
			}
		} else {
			add(text[start:end])
		}
		depth = 0
		start = end + 1
	}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ';':
			if depth == 0 {
				flush(i)
			}
		case '\n', '\r':
			flush(i)
		}
	}
	flush(len(text))
	return lines
}

// splitCommas splits at commas outside parentheses.
func splitCommas(s string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if i > 0 && i+1 < len(s) && isDigit(s[i-1]) && isDigit(s[i+1]) {
				continue // thousands separator
			}
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}

// ParseSections parses text already split by section into a Record.
// Unknown sections go to the catchall.
func (p *Parser) ParseSections(sections map[Section]string) *Record {
	r := &Record{}
	for _, sec := range Sections {
		if text, ok := sections[sec]; ok {
			p.ParseSection(r, sec, text)
		}
	}
	return r
}

// ParseSection parses one section's text and appends the entries to r.
// Melee and ranged text are both classified per attack, so a ranged attack
// listed under melee still lands in Ranged.
func (p *Parser) ParseSection(r *Record, sec Section, text string) {
	var rest []string
	switch sec {
	case Traits:
		var ts []Trait
		ts, rest = p.ParseTraits(text)
		r.Traits = append(r.Traits, ts...)
	case Skills:
		var ss []Skill
		ss, rest = p.ParseSkills(text)
		r.Skills = append(r.Skills, ss...)
	case Spells:
		var ss []Skill
		ss, rest = p.ParseSkills(text)
		r.Spells = append(r.Spells, ss...)
	case Equipment:
		var items []Item
		items, rest = p.ParseEquipment(text)
		r.Equipment = append(r.Equipment, items...)
	case Melee, Ranged:
		melee, ranged, unparsed := p.ParseAttacks(text)
		r.Melee = append(r.Melee, melee...)
		r.Ranged = append(r.Ranged, ranged...)
		rest = unparsed
	default:
		rest = SplitLines(text)
	}
	r.Catchall = append(r.Catchall, rest...)
}

func (p *Parser) skip(sec Section, line string) {
	p.logger.Debug("stat block line not understood", zap.String("section", string(sec)), zap.String("line", line))
}

// ParseTraits parses lines such as "Combat Reflexes [15]",
// "Acute Vision 2 [4]" or "Bad Temper (12) [-10]".
//
// Postcondition: every non-empty line is in exactly one of the results.
func (p *Parser) ParseTraits(text string) ([]Trait, []string) {
	var (
		out  []Trait
		rest []string
	)
	for _, line := range SplitLines(text) {
		t, ok := p.parseTrait(line)
		if !ok {
			p.skip(Traits, line)
			rest = append(rest, line)
			continue
		}
		out = append(out, t)
	}
	return out, rest
}

func (p *Parser) parseTrait(line string) (Trait, bool) {
	t := Trait{ID: p.newID()}
	body := strings.TrimSuffix(strings.TrimSpace(line), ".")
	if m := pointsPattern.FindStringSubmatchIndex(body); m != nil {
		t.Points, _ = strconv.Atoi(body[m[2]:m[3]])
		t.HasPoints = true
		body = body[:m[0]] + body[m[1]:]
	}
	for _, m := range parenPattern.FindAllStringSubmatch(body, -1) {
		for _, note := range strings.Split(m[1], ";") {
			note = strings.TrimSpace(note)
			if note == "" {
				continue
			}
			if cr := crPattern.FindStringSubmatch(note); cr != nil && t.CR == 0 {
				t.CR, _ = strconv.Atoi(cr[1])
				continue
			}
			t.Notes = append(t.Notes, note)
		}
	}
	name := strings.TrimSpace(parenPattern.ReplaceAllString(body, ""))
	if m := trailingLevel.FindStringSubmatch(name); m != nil {
		name = m[1]
		t.Levels, _ = strconv.Atoi(m[2])
	}
	if !hasLetter(name) {
		return Trait{}, false
	}
	t.Name = name
	return t, true
}

// ParseSkills parses lines such as "Broadsword-14",
// "Guns/TL8 (Pistol)-13" or "Stealth (DX/A) DX+1 [4]-13". Spells use the
// same grammar.
func (p *Parser) ParseSkills(text string) ([]Skill, []string) {
	var (
		out  []Skill
		rest []string
	)
	for _, line := range SplitLines(text) {
		s, ok := p.parseSkill(line)
		if !ok {
			p.skip(Skills, line)
			rest = append(rest, line)
			continue
		}
		out = append(out, s)
	}
	return out, rest
}

func (p *Parser) parseSkill(line string) (Skill, bool) {
	m := skillLevelPattern.FindStringSubmatch(strings.TrimSuffix(strings.TrimSpace(line), "."))
	if m == nil {
		return Skill{}, false
	}
	s := Skill{ID: p.newID()}
	s.Level, _ = strconv.Atoi(m[2])
	body := m[1]
	if pm := pointsPattern.FindStringSubmatchIndex(body); pm != nil {
		s.Points, _ = strconv.Atoi(body[pm[2]:pm[3]])
		s.HasPoints = true
		body = body[:pm[0]] + body[pm[1]:]
	}
	body = strings.TrimSpace(body)
	for _, pm := range parenPattern.FindAllStringSubmatch(body, -1) {
		inner := strings.TrimSpace(pm[1])
		if dm := difficultyPattern.FindStringSubmatch(inner); dm != nil && s.Difficulty == "" {
			s.Attribute = strings.ToLower(dm[1])
			s.Difficulty = strings.ToLower(dm[2])
			continue
		}
		if s.Specialization == "" {
			s.Specialization = inner
			continue
		}
		s.Notes = append(s.Notes, inner)
	}
	body = strings.TrimSpace(parenPattern.ReplaceAllString(body, " "))
	if rm := relativePattern.FindStringSubmatchIndex(body); rm != nil && rm[0] > 0 {
		s.Relative = strings.ToUpper(body[rm[2]:rm[3]])
		if rm[4] >= 0 {
			s.Relative += body[rm[4]:rm[5]]
		}
		if s.Attribute == "" {
			s.Attribute = strings.ToLower(body[rm[2]:rm[3]])
		}
		body = strings.TrimSpace(body[:rm[0]])
	}
	if tm := techLevelPattern.FindStringSubmatchIndex(body); tm != nil {
		s.TechLevel = body[tm[2]:tm[3]]
		body = body[:tm[0]]
	}
	s.Name = strings.Join(strings.Fields(body), " ")
	if !hasLetter(s.Name) {
		return Skill{}, false
	}
	return s, true
}

// ParseEquipment parses lines such as "Broadsword, $500, 3 lb." or
// "2× Torch, $3, 1 lb".
func (p *Parser) ParseEquipment(text string) ([]Item, []string) {
	var (
		out  []Item
		rest []string
	)
	for _, line := range SplitLines(text) {
		it, ok := p.parseItem(line)
		if !ok {
			p.skip(Equipment, line)
			rest = append(rest, line)
			continue
		}
		out = append(out, it)
	}
	return out, rest
}

func (p *Parser) parseItem(line string) (Item, bool) {
	parts := splitCommas(strings.TrimSuffix(strings.TrimSpace(line), "."))
	it := Item{ID: p.newID(), Quantity: 1}
	name := parts[0]
	if m := quantityPrefix.FindStringSubmatch(name); m != nil {
		it.Quantity, _ = strconv.Atoi(m[1])
		name = m[2]
	} else if m := quantitySuffix.FindStringSubmatch(name); m != nil {
		it.Quantity, _ = strconv.Atoi(m[2])
		name = m[1]
	}
	it.Name = strings.TrimSpace(name)
	if !hasLetter(it.Name) {
		return Item{}, false
	}
	for _, part := range parts[1:] {
		part = strings.TrimSuffix(part, ".")
		switch {
		case part == "":
		case valuePattern.MatchString(part):
			v := valuePattern.FindStringSubmatch(part)[1]
			it.Value, _ = fxp.FromString(strings.ReplaceAll(v, ",", ""))
		case weightPattern.MatchString(part):
			m := weightPattern.FindStringSubmatch(part)
			unit := strings.ToLower(m[2])
			if unit == "lbs" {
				unit = "lb"
			}
			it.Weight = m[1] + " " + unit
		default:
			it.Notes = append(it.Notes, part)
		}
	}
	return it, true
}

// ParseAttacks parses lines such as "Broadsword (14): 2d+1 cut, Reach 1"
// and sorts them into melee and ranged: an attack with accuracy, range,
// rate of fire, shots or recoil is ranged.
func (p *Parser) ParseAttacks(text string) (melee, ranged []Attack, rest []string) {
	for _, line := range SplitLines(text) {
		a, ok := p.parseAttack(line)
		if !ok {
			p.skip(Melee, line)
			rest = append(rest, line)
			continue
		}
		if a.IsRanged() {
			ranged = append(ranged, a)
		} else {
			melee = append(melee, a)
		}
	}
	return melee, ranged, rest
}

func (p *Parser) parseAttack(line string) (Attack, bool) {
	m := attackPattern.FindStringSubmatch(strings.TrimSuffix(strings.TrimSpace(line), "."))
	if m == nil || !hasLetter(m[1]) {
		return Attack{}, false
	}
	a := Attack{ID: p.newID(), Name: strings.TrimSpace(m[1])}
	a.Level, _ = strconv.Atoi(m[2])
	parts := splitCommas(m[3])
	a.Damage = parts[0]
	if !strings.ContainsAny(a.Damage, "0123456789") {
		return Attack{}, false
	}
	for _, part := range parts[1:] {
		fm := attackFieldPattern.FindStringSubmatch(part)
		if fm == nil {
			if part != "" {
				a.Notes = append(a.Notes, part)
			}
			continue
		}
		value := strings.TrimSpace(fm[2])
		switch strings.ToLower(fm[1]) {
		case "reach":
			a.Reach = value
		case "parry":
			a.Parry = value
		case "block":
			a.Block = value
		case "acc":
			a.Accuracy = value
		case "range":
			a.Range = value
		case "rof":
			a.RateOfFire = value
		case "shots":
			a.Shots = value
		case "bulk":
			a.Bulk = value
		case "rcl":
			a.Recoil = value
		case "st":
			a.Strength = value
		}
	}
	return a, true
}

// IsRanged reports whether the attack carries ranged statistics.
func (a Attack) IsRanged() bool {
	return a.Accuracy != "" || a.Range != "" || a.RateOfFire != "" || a.Shots != "" || a.Recoil != ""
}

func hasLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 0x7f {
			return true
		}
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
