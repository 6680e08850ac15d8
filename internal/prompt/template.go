package prompt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/contentbot/internal/config"
)

// DefaultName is the template used for social drafts.
const DefaultName = "social"

// Template represents a prompt template with metadata and content.
type Template struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Version     int    `yaml:"version,omitempty"`

	// Content is the body after the frontmatter.
	Content string `yaml:"-"`

	// Source is "project", "global" or "built-in".
	Source string `yaml:"-"`
}

// Render replaces every {{key}} placeholder with its value. Unknown
// placeholders are left in place.
func (t *Template) Render(vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "{{"+k+"}}", vars[k])
	}
	return strings.NewReplacer(pairs...).Replace(t.Content)
}

// TemplateInfo provides template metadata for listing.
type TemplateInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Overrides   string `json:"overrides,omitempty"`
}

// Loader resolves templates from a project directory, a global directory
// and the built-in set, in that order. Empty directories are skipped.
type Loader struct {
	ProjectDir string
	GlobalDir  string
}

// DefaultLoader returns a Loader using .contentbot/templates and the
// templates directory under config.Dir().
func DefaultLoader() Loader {
	global := ""
	if dir := config.Dir(); dir != "" {
		global = filepath.Join(dir, "templates")
	}
	return Loader{
		ProjectDir: filepath.Join(".contentbot", "templates"),
		GlobalDir:  global,
	}
}

// LoadTemplate finds a template by name using DefaultLoader.
func LoadTemplate(name string) (*Template, error) {
	return DefaultLoader().Load(name)
}

// ListTemplates lists templates using DefaultLoader.
func ListTemplates() ([]TemplateInfo, error) {
	return DefaultLoader().List()
}

// Load finds and loads a template by name.
func (l Loader) Load(name string) (*Template, error) {
	if tmpl, err := loadFromPath(l.ProjectDir, name); err == nil {
		tmpl.Source = "project"
		return tmpl, nil
	}

	if tmpl, err := loadFromPath(l.GlobalDir, name); err == nil {
		tmpl.Source = "global"
		return tmpl, nil
	}

	if tmpl, err := loadBuiltin(name); err == nil {
		tmpl.Source = "built-in"
		return tmpl, nil
	}

	return nil, fmt.Errorf("template %q not found", name)
}

// List returns all available templates. A project or global template that
// shadows a built-in is listed once with Overrides set to "built-in".
func (l Loader) List() ([]TemplateInfo, error) {
	seen := make(map[string]string)
	var templates []TemplateInfo

	sources := []struct {
		name string
		dir  string
	}{
		{"project", l.ProjectDir},
		{"global", l.GlobalDir},
	}

	for _, src := range sources {
		infos, err := listFromPath(src.dir, src.name)
		if err != nil {
			continue
		}
		for _, info := range infos {
			if _, exists := seen[info.Name]; !exists {
				seen[info.Name] = src.name
				templates = append(templates, info)
			}
		}
	}

	for _, info := range listBuiltins() {
		if _, exists := seen[info.Name]; !exists {
			templates = append(templates, info)
			continue
		}
		for i := range templates {
			if templates[i].Name == info.Name {
				templates[i].Overrides = "built-in"
			}
		}
	}

	return templates, nil
}

func loadFromPath(dir, name string) (*Template, error) {
	if dir == "" {
		return nil, errors.New("no directory")
	}

	path := filepath.Join(dir, name+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}

	tmpl, err := parseTemplate(string(data))
	if err != nil {
		return nil, err
	}
	if tmpl.Name == "" {
		tmpl.Name = name
	}
	return tmpl, nil
}

func listFromPath(dir, source string) ([]TemplateInfo, error) {
	if dir == "" {
		return nil, errors.New("no directory")
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var templates []TemplateInfo
	for _, entry := range dirEntries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".md")
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}

		tmpl, err := parseTemplate(string(data))
		if err != nil {
			continue
		}

		templates = append(templates, TemplateInfo{
			Name:        name,
			Description: tmpl.Description,
			Source:      source,
		})
	}

	return templates, nil
}

// parseTemplate parses a template from raw content with YAML frontmatter.
func parseTemplate(raw string) (*Template, error) {
	frontmatter, content := splitFrontmatter(raw)

	var tmpl Template
	if frontmatter != "" {
		if err := yaml.Unmarshal([]byte(frontmatter), &tmpl); err != nil {
			return nil, fmt.Errorf("invalid frontmatter: %w", err)
		}
	}

	tmpl.Content = strings.TrimSpace(content)
	return &tmpl, nil
}

// splitFrontmatter separates YAML frontmatter delimited by --- lines.
func splitFrontmatter(raw string) (frontmatter, content string) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "---") {
		return "", raw
	}

	rest := raw[3:]
	before, after, ok := strings.Cut(rest, "\n---")
	if !ok {
		return "", raw
	}

	return strings.TrimSpace(before), strings.TrimSpace(after)
}
