// Package dashboard holds the console shell: navigation, the signed-in user
// and the per-session workspaces.
package dashboard

import (
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed navigation.yaml
var navigationYAML []byte

const wildcard = "*"

type NavItem struct {
	Resource   string `yaml:"resource"`
	Path       string `yaml:"path"`
	Label      string `yaml:"label"`
	Icon       string `yaml:"icon"`
	Capability string `yaml:"capability"`
}

// Href is the console path of the item.
func (i NavItem) Href() string {
	if i.Path != "" {
		return i.Path
	}
	return "/resources/" + i.Resource
}

type NavSection struct {
	Title string    `yaml:"title"`
	Items []NavItem `yaml:"items"`
}

type Navigation struct {
	Sections []NavSection       `yaml:"sections"`
	Roles    map[string][]string `yaml:"roles"`
}

// LoadNavigation parses the embedded navigation.yaml.
func LoadNavigation() (*Navigation, error) {
	return ParseNavigation(navigationYAML)
}

func ParseNavigation(data []byte) (*Navigation, error) {
	var nav Navigation
	if err := yaml.Unmarshal(data, &nav); err != nil {
		return nil, fmt.Errorf("failed to parse navigation: %w", err)
	}
	for _, s := range nav.Sections {
		for _, item := range s.Items {
			if item.Resource == "" && item.Path == "" {
				return nil, fmt.Errorf("navigation item %q has neither resource nor path", item.Label)
			}
		}
	}
	return &nav, nil
}

// HasCapability reports whether user may use a feature. An empty capability
// is public to any signed-in user.
func (n *Navigation) HasCapability(user *User, capability string) bool {
	if user == nil {
		return false
	}
	if capability == "" {
		return true
	}
	if slices.Contains(user.Capabilities, capability) {
		return true
	}
	granted := n.Roles[user.Role]
	return slices.Contains(granted, wildcard) || slices.Contains(granted, capability)
}

// For returns the sections visible to user, dropping empty ones.
func (n *Navigation) For(user *User) []NavSection {
	var out []NavSection
	for _, s := range n.Sections {
		visible := NavSection{Title: s.Title}
		for _, item := range s.Items {
			if n.HasCapability(user, item.Capability) {
				visible.Items = append(visible.Items, item)
			}
		}
		if len(visible.Items) > 0 {
			out = append(out, visible)
		}
	}
	return out
}

// Item finds the entry of a resource page.
func (n *Navigation) Item(resource string) (NavItem, bool) {
	for _, s := range n.Sections {
		for _, item := range s.Items {
			if item.Resource == resource {
				return item, true
			}
		}
	}
	return NavItem{}, false
}

// ItemByPath finds a non-resource entry.
func (n *Navigation) ItemByPath(path string) (NavItem, bool) {
	for _, s := range n.Sections {
		for _, item := range s.Items {
			if item.Path == path {
				return item, true
			}
		}
	}
	return NavItem{}, false
}
