// Package roles provides the catalog of target job roles and the skills each
// role requires.
package roles

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/skillmatch/internal/analyzer"
	"github.com/jonathan/skillmatch/internal/schemas"
)

//go:embed roles.json
var defaultCatalogJSON []byte

var (
	// ErrRoleNotFound is returned when a role name is not in the catalog
	ErrRoleNotFound = errors.New("role not found")
	// ErrCategoryNotFound is returned when a category name is not in the catalog
	ErrCategoryNotFound = errors.New("category not found")
)

// Role is one target job role.
type Role struct {
	Name           string   `json:"name"`
	Category       string   `json:"category,omitempty"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills"`
}

// Category groups related roles.
type Category struct {
	Name  string `json:"name"`
	Roles []Role `json:"roles"`
}

// Catalog is an immutable, validated set of role categories.
type Catalog struct {
	categories []Category
	byRole     map[string]Role
	byCategory map[string]int
	skills     []string
}

type catalogFile struct {
	Categories []Category `json:"categories"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalogJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded roles.json is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from a JSON file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read role catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates raw JSON against the role catalog schema and indexes it.
// Role and category names must be unique, ignoring case.
func Parse(data []byte) (*Catalog, error) {
	if err := schemas.ValidateBytes(schemas.Roles, data); err != nil {
		return nil, err
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse role catalog: %w", err)
	}

	c := &Catalog{
		categories: make([]Category, 0, len(file.Categories)),
		byRole:     make(map[string]Role),
		byCategory: make(map[string]int),
	}
	seenSkill := make(map[string]bool)

	for _, cat := range file.Categories {
		catKey := key(cat.Name)
		if _, dup := c.byCategory[catKey]; dup {
			return nil, fmt.Errorf("duplicate category %q", cat.Name)
		}
		c.byCategory[catKey] = len(c.categories)

		for i := range cat.Roles {
			cat.Roles[i].Category = cat.Name
			role := cat.Roles[i]
			roleKey := key(role.Name)
			if _, dup := c.byRole[roleKey]; dup {
				return nil, fmt.Errorf("duplicate role %q", role.Name)
			}
			c.byRole[roleKey] = role

			for _, skill := range role.RequiredSkills {
				if !seenSkill[key(skill)] {
					seenSkill[key(skill)] = true
					c.skills = append(c.skills, skill)
				}
			}
		}
		c.categories = append(c.categories, cat)
	}

	return c, nil
}

// Categories returns every category in catalog order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = Category{Name: cat.Name, Roles: append([]Role(nil), cat.Roles...)}
	}
	return out
}

// Category returns one category by name, ignoring case.
func (c *Catalog) Category(name string) (Category, error) {
	idx, ok := c.byCategory[key(name)]
	if !ok {
		return Category{}, fmt.Errorf("%w: %q", ErrCategoryNotFound, name)
	}
	cat := c.categories[idx]
	return Category{Name: cat.Name, Roles: append([]Role(nil), cat.Roles...)}, nil
}

// Lookup returns one role by name, ignoring case.
func (c *Catalog) Lookup(name string) (Role, error) {
	role, ok := c.byRole[key(name)]
	if !ok {
		return Role{}, fmt.Errorf("%w: %q", ErrRoleNotFound, name)
	}
	role.RequiredSkills = append([]string(nil), role.RequiredSkills...)
	return role, nil
}

// Skills returns every distinct skill in the catalog, in first-seen order.
func (c *Catalog) Skills() []string {
	return append([]string(nil), c.skills...)
}

// SkillsInText returns the catalog skills mentioned in text, such as a job
// description, using whole-word matching.
func (c *Catalog) SkillsInText(text string) []string {
	if len(c.skills) == 0 {
		return []string{}
	}
	// Catalog skills are never blank, so MatchSkills cannot fail here.
	result, err := analyzer.MatchSkills(text, c.skills)
	if err != nil {
		return []string{}
	}
	return result.FoundSkills
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
