package scaffold

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgxm/internal/constraint"
	"github.com/vvka-141/pgxm/internal/pipeline"
)

// TestTemplateManifestsCompile validates every embedded seed manifest by
// running it through the full analysis pipeline. A template that a fresh
// `pgxm compile` would reject must never ship.
func TestTemplateManifestsCompile(t *testing.T) {
	templates, err := ListTemplates()
	require.NoError(t, err)
	require.NotEmpty(t, templates)

	for _, templateName := range templates {
		t.Run(templateName, func(t *testing.T) {
			data, err := templatesFS.ReadFile("templates/" + templateName + "/manifest.yaml")
			require.NoError(t, err, "every template needs a seed manifest")

			// Template variables are comment-only in manifests, so the raw
			// file must already parse.
			result, err := pipeline.Analyze(data, constraint.DefaultConfig())
			require.NoError(t, err, "seed manifest must pass analysis as shipped")
			assert.NotEmpty(t, result.Order, "seed manifest must yield a creation order")
			assert.Empty(t, result.Report.Errors)
		})
	}
}

// TestTemplateConfigsParse validates every embedded pgxm.yaml.
func TestTemplateConfigsParse(t *testing.T) {
	templates, err := ListTemplates()
	require.NoError(t, err)

	for _, templateName := range templates {
		t.Run(templateName, func(t *testing.T) {
			data, err := templatesFS.ReadFile("templates/" + templateName + "/pgxm.yaml")
			require.NoError(t, err, "every template needs a project config")

			content := string(data)
			assert.Contains(t, content, "manifest:")
			assert.Contains(t, content, "output:")
		})
	}
}

// TestTemplatesCarryNoJunkFiles guards against OS cruft sneaking into the
// embedded tree.
func TestTemplatesCarryNoJunkFiles(t *testing.T) {
	templates, err := ListTemplates()
	require.NoError(t, err)

	for _, templateName := range templates {
		entries, err := templatesFS.ReadDir("templates/" + templateName)
		require.NoError(t, err)
		for _, entry := range entries {
			name := entry.Name()
			assert.NotEqual(t, ".DS_Store", name)
			assert.NotEqual(t, "Thumbs.db", name)
			assert.False(t, strings.HasSuffix(name, "~"), "backup file %s in template %s", name, templateName)
		}
	}
}
