package importer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Node is one item in an exported library or character file: a typed
// record that may hold children, modifiers and weapons of its own. Fields
// the converter does not read are kept in the raw node and decoded into
// the domain type.
type Node struct {
	Type           string  `yaml:"type"`
	ID             string  `yaml:"id"`
	Name           string  `yaml:"name"`
	Description    string  `yaml:"description"`
	Text           string  `yaml:"text"`
	Usage          string  `yaml:"usage"`
	Difficulty     string  `yaml:"difficulty"`
	Disabled       bool    `yaml:"disabled"`
	BasePoints     int     `yaml:"base_points"`
	PointsPerLevel int     `yaml:"points_per_level"`
	Children       []*Node `yaml:"children"`
	Modifiers      []*Node `yaml:"modifiers"`
	Weapons        []*Node `yaml:"weapons"`

	raw *yaml.Node
}

// UnmarshalYAML decodes the known fields and keeps the raw node.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	type plain Node
	if err := value.Decode((*plain)(n)); err != nil {
		return err
	}
	n.raw = value
	return nil
}

// decodeInto decodes the raw node into out, skipping the listed keys.
func (n *Node) decodeInto(out any, skip ...string) error {
	if n.raw == nil {
		return nil
	}
	return withoutKeys(n.raw, skip...).Decode(out)
}

// withoutKeys returns a shallow copy of mapping node m minus keys.
func withoutKeys(m *yaml.Node, keys ...string) *yaml.Node {
	if m.Kind != yaml.MappingNode {
		return m
	}
	cp := *m
	cp.Content = nil
	for i := 0; i+1 < len(m.Content); i += 2 {
		if contains(keys, m.Content[i].Value) {
			continue
		}
		cp.Content = append(cp.Content, m.Content[i], m.Content[i+1])
	}
	return &cp
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// document is a library file: either a bare list of nodes or an object
// whose rows hold them.
type document struct {
	Rows []*Node `yaml:"rows"`
}

// ParseDocument decodes a library or character export. JSON exports parse
// as YAML.
//
// Postcondition: Returns the top-level nodes or a decode error.
func ParseDocument(data []byte) ([]*Node, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		// JSON strings cannot hold raw tabs, so tab indentation is safe to
		// flatten for the YAML decoder.
		trimmed = bytes.ReplaceAll(trimmed, []byte("\t"), []byte(" "))
	}
	if trimmed[0] == '[' || bytes.HasPrefix(trimmed, []byte("- ")) {
		var nodes []*Node
		if err := yaml.Unmarshal(trimmed, &nodes); err != nil {
			return nil, fmt.Errorf("parsing item list: %w", err)
		}
		return nodes, nil
	}
	var doc document
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("parsing library: %w", err)
	}
	return doc.Rows, nil
}

// Source loads item nodes from a format-specific location.
//
// Postcondition: returns the nodes found, or a non-nil error.
type Source interface {
	Load(path string) ([]*Node, error)
}

// libraryExtensions are the file types FileSource reads from directories.
var libraryExtensions = []string{".yaml", ".yml", ".json", ".gcs", ".adq", ".skl", ".spl", ".eqp", ".eqm"}

// FileSource reads a single library file, or every library file in a
// directory in name order.
type FileSource struct{}

// NewFileSource constructs a FileSource.
func NewFileSource() *FileSource { return &FileSource{} }

// Load implements Source.
//
// Precondition: path must name a readable file or directory.
func (s *FileSource) Load(path string) ([]*Node, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	if !info.IsDir() {
		return loadFile(path)
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading dir %q: %w", path, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && contains(libraryExtensions, strings.ToLower(filepath.Ext(e.Name()))) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	var all []*Node
	for _, name := range names {
		nodes, err := loadFile(filepath.Join(path, name))
		if err != nil {
			return nil, err
		}
		all = append(all, nodes...)
	}
	return all, nil
}

func loadFile(path string) ([]*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	nodes, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nodes, nil
}
