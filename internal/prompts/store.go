// Package prompts renders affective guidance into text prompts for a
// downstream language model.
package prompts

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/LianelaSky/Project-Alyssa/pkg/affect"
)

//go:embed static/templates.yaml
var templatesYAML []byte

// ErrUnknownTemplate is returned by Render for names not in the catalog.
var ErrUnknownTemplate = errors.New("unknown prompt template")

// Data is everything a template can reference.
type Data struct {
	CharacterName string
	Description   string
	UserName      string
	Message       string
	Location      string
	Action        string
	Sleeping      bool
	Memories      []string
	Guidance      affect.Guidance
}

// Store holds the parsed template catalog.
type Store struct {
	templates map[string]*template.Template
}

type yamlFile struct {
	Templates map[string]string `yaml:"templates"`
}

var funcs = template.FuncMap{
	"join":        strings.Join,
	"lower":       strings.ToLower,
	"fatigue":     FatigueDescription,
	"fatigueNote": actionFatigueNote,
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

// Load parses the embedded catalog.
func Load() (*Store, error) {
	return Parse(templatesYAML)
}

// Parse builds a store from a YAML catalog of the form
// "templates: {name: body}".
func Parse(data []byte) (*Store, error) {
	var file yamlFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse prompt catalog: %w", err)
	}

	s := &Store{templates: make(map[string]*template.Template, len(file.Templates))}
	for name, body := range file.Templates {
		tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(body)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		s.templates[name] = tmpl
	}
	return s, nil
}

// Names lists the catalog entries.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.templates))
	for n := range s.templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Render executes the named template.
func (s *Store) Render(name string, data Data) (string, error) {
	tmpl, ok := s.templates[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return sb.String(), nil
}

// Fatigue thresholds on the 0-100 scale.
const (
	restedBelow    = 10.0
	slightlyBelow  = 40.0
	tiredBelow     = 75.0
	exhaustedBelow = 90.0
)

// FatigueDescription phrases a fatigue level as the predicate of "you ...".
func FatigueDescription(level float64, sleeping bool) string {
	switch {
	case sleeping:
		return "are currently sleeping soundly."
	case level <= restedBelow:
		return "are feeling well-rested and alert."
	case level < slightlyBelow:
		return "are feeling slightly tired."
	case level < tiredBelow:
		return "are feeling tired and a bit drained."
	case level < exhaustedBelow:
		return "are feeling exhausted and weary."
	default:
		return "are feeling extremely exhausted and barely able to keep your eyes open."
	}
}

func actionFatigueNote(level float64, sleeping bool) string {
	switch {
	case sleeping:
		return " (currently sleeping)"
	case level > tiredBelow:
		return " (feeling exhausted)"
	case level > slightlyBelow:
		return " (feeling tired)"
	default:
		return ""
	}
}
