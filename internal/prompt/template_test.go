package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		wantFrontmatter string
		wantContent     string
	}{
		{
			name:        "no frontmatter",
			input:       "Just some content",
			wantContent: "Just some content",
		},
		{
			name: "with frontmatter",
			input: `---
name: social
description: Posts
---
Template content here`,
			wantFrontmatter: "name: social\ndescription: Posts",
			wantContent:     "Template content here",
		},
		{
			name:        "opening delimiter only",
			input:       "---\nname: test\nNo closing delimiter",
			wantContent: "---\nname: test\nNo closing delimiter",
		},
		{
			name:        "empty frontmatter",
			input:       "---\n---\nContent after empty frontmatter",
			wantContent: "Content after empty frontmatter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotFrontmatter, gotContent := splitFrontmatter(tt.input)
			if gotFrontmatter != tt.wantFrontmatter {
				t.Errorf("frontmatter = %q, want %q", gotFrontmatter, tt.wantFrontmatter)
			}
			if gotContent != tt.wantContent {
				t.Errorf("content = %q, want %q", gotContent, tt.wantContent)
			}
		})
	}
}

func TestParseTemplate_InvalidYAML(t *testing.T) {
	_, err := parseTemplate("---\nname: [invalid yaml\n---\nContent")
	if err == nil {
		t.Fatal("parseTemplate() expected error for invalid frontmatter")
	}
}

func TestBuiltinSocialTemplate(t *testing.T) {
	tmpl, err := loadBuiltin(DefaultName)
	if err != nil {
		t.Fatalf("loadBuiltin(%s) error = %v", DefaultName, err)
	}
	if tmpl.Name != DefaultName {
		t.Errorf("Name = %q, want %q", tmpl.Name, DefaultName)
	}
	if !strings.HasPrefix(tmpl.Content, "Based on these ACTUAL commit messages, create social media posts:\n\n{{commits}}\n\nREQUIREMENTS:") {
		t.Errorf("unexpected template head: %q", tmpl.Content[:80])
	}
	if !strings.HasSuffix(tmpl.Content, "older commits are just background context.") {
		t.Error("template does not end with the closing instruction")
	}
	for _, want := range []string{
		"TWITTER: (180-260 chars)",
		"LINKEDIN: (400-700 chars)",
		"- Do NOT invent features not mentioned in commits",
	} {
		if !strings.Contains(tmpl.Content, want) {
			t.Errorf("template missing %q", want)
		}
	}

	if _, err := loadBuiltin("nonexistent-template"); err == nil {
		t.Error("loadBuiltin(nonexistent) expected error")
	}
}

func TestRender(t *testing.T) {
	tmpl := &Template{Content: "A {{commits}} B {{repo}} C {{unknown}}"}
	got := tmpl.Render(map[string]string{
		"commits": "fix {{repo}} parsing",
		"repo":    "acme/app",
	})
	want := "A fix {{repo}} parsing B acme/app C {{unknown}}"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".md"), []byte(content), 0o600); err != nil {
		t.Fatalf("write template: %v", err)
	}
}

func TestLoaderResolution(t *testing.T) {
	root := t.TempDir()
	loader := Loader{
		ProjectDir: filepath.Join(root, "project"),
		GlobalDir:  filepath.Join(root, "global"),
	}

	tmpl, err := loader.Load(DefaultName)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tmpl.Source != "built-in" {
		t.Errorf("Source = %q, want built-in", tmpl.Source)
	}

	writeTemplate(t, loader.GlobalDir, DefaultName, "---\ndescription: Global\n---\nglobal {{commits}}")
	tmpl, err = loader.Load(DefaultName)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tmpl.Source != "global" || tmpl.Content != "global {{commits}}" {
		t.Errorf("got source %q content %q", tmpl.Source, tmpl.Content)
	}
	if tmpl.Name != DefaultName {
		t.Errorf("Name = %q, want name derived from file", tmpl.Name)
	}

	writeTemplate(t, loader.ProjectDir, DefaultName, "project {{commits}}")
	tmpl, err = loader.Load(DefaultName)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tmpl.Source != "project" {
		t.Errorf("Source = %q, want project", tmpl.Source)
	}

	if _, err := loader.Load("missing"); err == nil {
		t.Error("Load(missing) expected error")
	}
}

func TestLoaderList(t *testing.T) {
	root := t.TempDir()
	loader := Loader{ProjectDir: filepath.Join(root, "project")}

	list, err := loader.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0].Name != DefaultName || list[0].Source != "built-in" {
		t.Fatalf("List() = %+v, want only the built-in", list)
	}

	writeTemplate(t, loader.ProjectDir, DefaultName, "---\ndescription: Ours\n---\nx")
	writeTemplate(t, loader.ProjectDir, "release", "---\ndescription: Release notes\n---\ny")

	list, err = loader.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List() returned %d templates, want 2: %+v", len(list), list)
	}
	for _, info := range list {
		if info.Source != "project" {
			t.Errorf("%s Source = %q, want project", info.Name, info.Source)
		}
		if info.Name == DefaultName && info.Overrides != "built-in" {
			t.Errorf("%s Overrides = %q, want built-in", info.Name, info.Overrides)
		}
		if info.Name == "release" && info.Overrides != "" {
			t.Errorf("release Overrides = %q, want empty", info.Overrides)
		}
	}
}

func TestDefault(t *testing.T) {
	tmpl := Default()
	if tmpl.Name != DefaultName || tmpl.Source != "built-in" {
		t.Errorf("Default() = %q from %q", tmpl.Name, tmpl.Source)
	}
	if !strings.Contains(tmpl.Content, "{{commits}}") {
		t.Error("default template has no commits placeholder")
	}
}
