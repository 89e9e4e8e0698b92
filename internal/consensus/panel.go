package consensus

import (
	"fmt"
	"strings"
)

// DefaultSources is the five-engine panel of the reference deployment.
var DefaultSources = []string{"claude", "gpt5", "gemini", "deepseek", "grok"}

// Panel is the ordered set of sources whose votes count. Order fixes column
// layout and tie-breaks; every member carries exactly one unweighted vote.
type Panel struct {
	sources []string
	index   map[string]int
}

// NewPanel validates the sources and returns a panel preserving their order.
func NewPanel(sources []string) (Panel, error) {
	if len(sources) == 0 {
		return Panel{}, fmt.Errorf("%w: no sources", ErrInvalidPanel)
	}
	p := Panel{
		sources: make([]string, 0, len(sources)),
		index:   make(map[string]int, len(sources)),
	}
	for _, source := range sources {
		if strings.TrimSpace(source) == "" {
			return Panel{}, fmt.Errorf("%w: blank source identifier", ErrInvalidPanel)
		}
		if _, dup := p.index[source]; dup {
			return Panel{}, fmt.Errorf("%w: duplicate source %q", ErrInvalidPanel, source)
		}
		p.index[source] = len(p.sources)
		p.sources = append(p.sources, source)
	}
	return p, nil
}

// Sources returns a copy of the panel members in order.
func (p Panel) Sources() []string {
	out := make([]string, len(p.sources))
	copy(out, p.sources)
	return out
}

// Size returns the number of panel members.
func (p Panel) Size() int {
	return len(p.sources)
}

// Contains reports whether source sits on the panel.
func (p Panel) Contains(source string) bool {
	_, ok := p.index[source]
	return ok
}
