package ballots

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"traitvote/internal/textutil"
)

// ParseProposals decodes a mapping of source -> list of category names. Every
// entry must be a string scalar; numbers, booleans, nulls and nested values
// are rejected rather than coerced.
func ParseProposals(data []byte) (map[string][]string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: document is empty", ErrMalformedProposal)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode proposals: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must map sources to lists", ErrMalformedProposal)
	}

	root := doc.Content[0]
	proposals := make(map[string][]string, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, listNode := root.Content[i], root.Content[i+1]
		source := textutil.SanitizeToken(keyNode.Value)
		if _, dup := proposals[source]; dup {
			return nil, fmt.Errorf("%w: source %q listed twice", ErrMalformedProposal, source)
		}
		if listNode.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("%w: %s (line %d) must be a list", ErrMalformedProposal, source, listNode.Line)
		}
		categories := make([]string, 0, len(listNode.Content))
		for _, entry := range listNode.Content {
			if entry.Kind != yaml.ScalarNode || entry.ShortTag() != "!!str" {
				return nil, fmt.Errorf("%w: %s (line %d) entry %q is %s, want string",
					ErrMalformedProposal, source, entry.Line, entry.Value, entry.ShortTag())
			}
			categories = append(categories, entry.Value)
		}
		proposals[source] = categories
	}
	return proposals, nil
}

// LoadProposals reads and parses a proposal document from disk.
func LoadProposals(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read proposals %s: %w", filepath.Base(path), err)
	}
	proposals, err := ParseProposals(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return proposals, nil
}
