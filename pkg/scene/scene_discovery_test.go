package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MitrB/my-cgfs/pkg/material"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"three-spheres", "Three Spheres"},
		{"mirror_hall", "Mirror Hall"},
		{"my-custom-scene", "My Custom Scene"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func writeSceneFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}
	return path
}

func TestParseSceneMetadata(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected SceneInfo
	}{
		{
			name: "complete_metadata.json",
			content: `{
  "meta": {"name": "Mirror Hall", "description": "Two mirrors facing each other", "group": "Reflections"},
  "reflectionCount": 8
}`,
			expected: SceneInfo{
				ID:          "file:complete_metadata",
				Name:        "Mirror Hall",
				Description: "Two mirrors facing each other",
				Group:       "Reflections",
				Type:        "file",
			},
		},
		{
			name:    "partial_metadata.json",
			content: `{"meta": {"description": "Only a description"}}`,
			expected: SceneInfo{
				ID:          "file:partial_metadata",
				Name:        "Partial Metadata",
				Description: "Only a description",
				Group:       "Scene Files",
				Type:        "file",
			},
		},
		{
			name:    "no-metadata.json",
			content: `{"resolution": [16, 16]}`,
			expected: SceneInfo{
				ID:    "file:no-metadata",
				Name:  "No Metadata",
				Group: "Scene Files",
				Type:  "file",
			},
		},
	}

	dir := t.TempDir()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeSceneFile(t, dir, tc.name, tc.content)

			result, err := ParseSceneMetadata(path)
			if err != nil {
				t.Fatalf("ParseSceneMetadata() error: %v", err)
			}
			tc.expected.FilePath = path
			if result != tc.expected {
				t.Errorf("ParseSceneMetadata() = %+v, want %+v", result, tc.expected)
			}
		})
	}
}

func TestParseSceneMetadata_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := writeSceneFile(t, dir, "broken.json", `{"meta": `)

	if _, err := ParseSceneMetadata(path); err == nil {
		t.Error("Expected error for malformed scene file")
	}
	if _, err := ParseSceneMetadata(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing scene file")
	}
}

func TestListSceneFiles_MissingDirectory(t *testing.T) {
	scenes, err := ListSceneFiles(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("ListSceneFiles() error: %v", err)
	}
	if scenes == nil || len(scenes) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", scenes)
	}
}

func TestListAllScenes(t *testing.T) {
	dir := t.TempDir()
	writeSceneFile(t, dir, "b.json", `{"meta": {"name": "Bravo", "group": "Extra"}}`)
	writeSceneFile(t, dir, "a.json", `{"meta": {"name": "Alpha"}}`)
	writeSceneFile(t, dir, "notes.txt", "ignored")

	response, err := ListAllScenes(dir)
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}

	var groupNames []string
	for _, group := range response.Groups {
		groupNames = append(groupNames, group.Name)
	}
	want := []string{builtinGroup, "Extra", "Scene Files"}
	if strings.Join(groupNames, ",") != strings.Join(want, ",") {
		t.Fatalf("Groups = %v, want %v", groupNames, want)
	}

	builtins := response.Groups[0].Scenes
	if len(builtins) != len(BuiltinNames()) {
		t.Errorf("Built-in scenes count = %d, want %d", len(builtins), len(BuiltinNames()))
	}
	for _, info := range builtins {
		if info.Type != "builtin" || info.Description == "" {
			t.Errorf("Unexpected built-in scene entry %+v", info)
		}
	}

	for _, group := range response.Groups[1:] {
		for _, info := range group.Scenes {
			if info.Type != "file" || !strings.HasPrefix(info.ID, "file:") || info.FilePath == "" {
				t.Errorf("Unexpected file scene entry %+v", info)
			}
		}
	}
}

func TestResolveSettings(t *testing.T) {
	dir := t.TempDir()
	writeSceneFile(t, dir, "small.json", `{"resolution": [8, 4], "randomSpheres": false}`)

	s, err := ResolveSettings("file:small", dir)
	if err != nil {
		t.Fatalf("ResolveSettings(file) error: %v", err)
	}
	if s.Resolution != [2]int{8, 4} || s.RandomSpheres {
		t.Errorf("Unexpected settings from file: %+v", s)
	}

	s, err = ResolveSettings("spheres", dir)
	if err != nil {
		t.Fatalf("ResolveSettings(builtin) error: %v", err)
	}
	if len(s.Spheres) != 3 {
		t.Errorf("Expected 3 predefined spheres, got %d", len(s.Spheres))
	}

	for _, id := range []string{"nonexistent", "file:../secret", "file:", "file:missing"} {
		if _, err := ResolveSettings(id, dir); err == nil {
			t.Errorf("ResolveSettings(%q) expected error", id)
		}
	}
}

func TestShippedSceneFiles(t *testing.T) {
	files, err := ListSceneFiles(filepath.Join("..", "..", "scenes"))
	if err != nil {
		t.Fatalf("ListSceneFiles() error: %v", err)
	}
	if len(files) == 0 {
		t.Skip("no scene files shipped")
	}

	for _, info := range files {
		t.Run(info.ID, func(t *testing.T) {
			settings, err := LoadSettings(info.FilePath)
			if err != nil {
				t.Fatalf("LoadSettings(%s) error: %v", info.FilePath, err)
			}
			if _, err := Build(settings, material.DefaultTable(), nil); err != nil {
				t.Errorf("Build(%s) error: %v", info.ID, err)
			}
		})
	}
}
