// Package roles resolves raw speaker labels to coarse speaker roles.
package roles

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Role is the coarse category of a speaker label.
type Role string

const (
	Child       Role = "child"
	FemaleAdult Role = "female_adult"
	MaleAdult   Role = "male_adult"
	Speech      Role = "speech"
	Other       Role = "other"
)

// All lists every role in reporting order.
var All = []Role{Child, FemaleAdult, MaleAdult, Speech, Other}

// ErrUnknownRole is returned for override values that name no role.
var ErrUnknownRole = errors.New("unknown speaker role")

// Display returns the role as a title-cased phrase, e.g. "Female Adult".
func (r Role) Display() string {
	return cases.Title(language.Und).String(strings.ReplaceAll(string(r), "_", " "))
}

// ParseRole accepts a role name or one of the short corpus codes.
func ParseRole(value string) (Role, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	for _, r := range All {
		if string(r) == normalized {
			return r, nil
		}
	}
	if r, ok := defaultTable[strings.ToUpper(normalized)]; ok {
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, value)
}

// defaultTable covers the label conventions of the child-centered corpora
// this tool is usually pointed at. Keys are upper case.
var defaultTable = map[string]Role{
	"CHI":    Child,
	"KCHI":   Child,
	"OCH":    Child,
	"CXN":    Child,
	"C1":     Child,
	"C2":     Child,
	"FEM":    FemaleAdult,
	"FA":     FemaleAdult,
	"MOT":    FemaleAdult,
	"FA1":    FemaleAdult,
	"FA2":    FemaleAdult,
	"MAL":    MaleAdult,
	"MA":     MaleAdult,
	"FAT":    MaleAdult,
	"MA1":    MaleAdult,
	"MA2":    MaleAdult,
	"SPEECH": Speech,
	"UNK":    Speech,
	"UC":     Speech,
	"UC1":    Speech,
	"UC2":    Speech,
}

// Map resolves labels case-insensitively. The zero value uses only the
// built-in table; labels it does not know resolve to Other.
type Map struct {
	overrides map[string]Role
}

// Default returns a Map backed by the built-in table only.
func Default() *Map {
	return &Map{}
}

// New returns a Map with overrides layered over the built-in table.
func New(overrides map[string]Role) *Map {
	m := &Map{overrides: make(map[string]Role, len(overrides))}
	for label, role := range overrides {
		m.overrides[strings.ToUpper(strings.TrimSpace(label))] = role
	}
	return m
}

// Load reads a YAML document of `label: role` pairs and layers it over the
// built-in table. An empty path returns Default().
func Load(path string) (*Map, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read role map: %w", err)
	}
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse role map %s: %w", path, err)
	}
	overrides := make(map[string]Role, len(raw))
	for _, label := range slices.Sorted(maps.Keys(raw)) {
		role, err := ParseRole(raw[label])
		if err != nil {
			return nil, fmt.Errorf("role map %s: label %q: %w", path, label, err)
		}
		overrides[label] = role
	}
	return New(overrides), nil
}

// Lookup returns the role for label.
func (m *Map) Lookup(label string) Role {
	key := strings.ToUpper(strings.TrimSpace(label))
	if m != nil {
		if role, ok := m.overrides[key]; ok {
			return role
		}
	}
	if role, ok := defaultTable[key]; ok {
		return role
	}
	return Other
}

// Count returns the number of distinct labels per role.
func (m *Map) Count(labels []string) map[Role]int {
	counts := make(map[Role]int, len(All))
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		counts[m.Lookup(label)]++
	}
	return counts
}
