// Package schema checks the structure of codec documents: element
// namespaces, required attributes and children, and child order. It stands in
// for full XSD validation when testing and inspecting documents.
package schema

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/beevik/etree"
	"gopkg.in/yaml.v3"

	"meascodec/pkg/meas/xmltree"
)

//go:embed rules.yaml
var defaultRules []byte

// Rule constrains one element
type Rule struct {
	Attributes []string `yaml:"attributes"`
	Required   []string `yaml:"required"`
	Order      []string `yaml:"order"`
	Closed     bool     `yaml:"closed"`
}

type ruleFile struct {
	Elements map[string]Rule `yaml:"elements"`
}

// Settings is a set of rules keyed by prefixed element name
type Settings struct {
	rules map[string]Rule
}

var (
	defaultOnce     sync.Once
	defaultSettings *Settings
)

// DefaultSettings returns the built-in rules. They are parsed once and
// shared; callers must not modify them.
func DefaultSettings() *Settings {
	defaultOnce.Do(func() {
		s, err := LoadSettings(defaultRules)
		if err != nil {
			panic(fmt.Sprintf("schema: invalid built-in rules: %v", err))
		}
		defaultSettings = s
	})
	return defaultSettings
}

// LoadSettings parses rules from YAML
func LoadSettings(data []byte) (*Settings, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid schema rules yaml: %w", err)
	}
	for name, rule := range f.Elements {
		names := append([]string{name}, rule.Required...)
		names = append(names, rule.Order...)
		for _, n := range names {
			if err := checkName(n); err != nil {
				return nil, fmt.Errorf("rule %s: %w", name, err)
			}
		}
		for _, req := range rule.Required {
			if len(rule.Order) > 0 && rule.Closed && !slices.Contains(rule.Order, req) {
				return nil, fmt.Errorf("rule %s: required child %s is not allowed by its order", name, req)
			}
		}
	}
	if f.Elements == nil {
		f.Elements = map[string]Rule{}
	}
	return &Settings{rules: f.Elements}, nil
}

func checkName(name string) error {
	prefix, _, ok := strings.Cut(name, ":")
	if !ok {
		return fmt.Errorf("element name %q has no prefix", name)
	}
	if xmltree.NamespaceURI(prefix) == "" {
		return fmt.Errorf("element name %q uses unknown prefix %q", name, prefix)
	}
	return nil
}

// Merge returns settings holding the rules of s overridden by those of other
func (s *Settings) Merge(other *Settings) *Settings {
	merged := make(map[string]Rule, len(s.rules)+len(other.rules))
	for k, v := range s.rules {
		merged[k] = v
	}
	for k, v := range other.rules {
		merged[k] = v
	}
	return &Settings{rules: merged}
}

// Len returns the number of element rules
func (s *Settings) Len() int {
	return len(s.rules)
}

// Problem is one structural violation
type Problem struct {
	Path    string
	Message string
}

func (p Problem) String() string {
	return p.Path + ": " + p.Message
}

// ValidationError lists every problem found in a document
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.String())
	}
	return fmt.Sprintf("document has %d structural problem(s): %s", len(e.Problems), strings.Join(parts, "; "))
}

// Validate parses data and checks it against the rules
func (s *Settings) Validate(data []byte) error {
	root, err := xmltree.ReadRoot(data, "schema.Validate")
	if err != nil {
		return err
	}
	if problems := s.Check(root); len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Check walks the tree under root and returns every problem found
func (s *Settings) Check(root *etree.Element) []Problem {
	var problems []Problem
	s.walk(root, "", &problems)
	return problems
}

func (s *Settings) walk(el *etree.Element, parentPath string, problems *[]Problem) {
	name := xmltree.Describe(el)
	path := parentPath + "/" + name

	if !xmltree.KnownNamespace(xmltree.NamespaceOf(el)) {
		*problems = append(*problems, Problem{path, "element is not in a known namespace"})
	}

	if rule, ok := s.rules[name]; ok {
		s.checkRule(el, rule, path, problems)
	}

	for _, child := range el.ChildElements() {
		s.walk(child, path, problems)
	}
}

func (s *Settings) checkRule(el *etree.Element, rule Rule, path string, problems *[]Problem) {
	for _, attr := range rule.Attributes {
		uri, local := "", attr
		if prefix, rest, ok := strings.Cut(attr, ":"); ok {
			uri, local = xmltree.NamespaceURI(prefix), rest
		}
		if _, ok := xmltree.Attr(el, uri, local); !ok {
			*problems = append(*problems, Problem{path, fmt.Sprintf("missing attribute %s", attr)})
		}
	}

	children := el.ChildElements()
	seen := make(map[string]bool, len(children))
	last := -1
	for _, child := range children {
		childName := xmltree.Describe(child)
		seen[childName] = true

		idx := slices.Index(rule.Order, childName)
		switch {
		case idx < 0 && rule.Closed:
			*problems = append(*problems, Problem{path, fmt.Sprintf("unexpected child %s", childName)})
		case idx >= 0 && idx < last:
			*problems = append(*problems, Problem{path, fmt.Sprintf("child %s is out of order", childName)})
		case idx >= 0:
			last = idx
		}
	}

	for _, req := range rule.Required {
		if !seen[req] {
			*problems = append(*problems, Problem{path, fmt.Sprintf("missing child %s", req)})
		}
	}
}
