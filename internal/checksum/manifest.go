package checksum

import (
	"gopkg.in/yaml.v3"
)

// Manifest returns the normalized checksum of manifest content with the
// top-level generatedAt field removed first. The field is a free-form
// timestamp excluded from every equality comparison, so two manifests that
// differ only there must fingerprint identically. Content that does not
// parse as a YAML mapping is fingerprinted as-is; the loader rejects it
// with a real diagnostic later.
func Manifest(content []byte) string {
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return Normalized(content)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return Normalized(content)
	}

	root := doc.Content[0]
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "generatedAt" {
			root.Content = append(root.Content[:i], root.Content[i+2:]...)
			break
		}
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return Normalized(content)
	}
	return Normalized(out)
}
