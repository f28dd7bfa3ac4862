package palette

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

//go:embed palette.hcl
var defaultSource []byte

// DefaultFilename is the name used for diagnostics of the embedded palette.
const DefaultFilename = "palette.hcl"

// File is the decoded HCL palette.
type File struct {
	Categories []Category `hcl:"category,block"`
}

// Category groups snippets under a heading.
type Category struct {
	Name     string    `hcl:"name,label"`
	Snippets []Snippet `hcl:"snippet,block"`
}

// Snippet is one insertable block of code.
type Snippet struct {
	Key   string `hcl:"key,label"`
	Label string `hcl:"label"`
	Body  string `hcl:"body"`
}

// Text returns the body without the trailing newline heredocs add.
func (s Snippet) Text() string {
	return strings.TrimRight(s.Body, "\n")
}

// Palette is a validated, ordered set of snippets.
type Palette struct {
	Categories []Category
	byKey      map[string]Snippet
}

// Default decodes the embedded palette.
func Default() (*Palette, error) {
	return Parse(defaultSource, DefaultFilename)
}

// Load decodes the palette file at path. An empty path yields the default.
func Load(path string) (*Palette, error) {
	if path == "" {
		return Default()
	}
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse palette file %s: %s", path, diags.Error())
	}
	return decode(file.Body, path)
}

// Parse decodes palette source held in memory.
func Parse(src []byte, filename string) (*Palette, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse palette %s: %s", filename, diags.Error())
	}
	return decode(file.Body, filename)
}

func decode(body hcl.Body, filename string) (*Palette, error) {
	var f File
	if diags := gohcl.DecodeBody(body, nil, &f); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode palette %s: %s", filename, diags.Error())
	}

	p := &Palette{Categories: f.Categories, byKey: make(map[string]Snippet)}
	for _, c := range f.Categories {
		for _, s := range c.Snippets {
			if _, dup := p.byKey[s.Key]; dup {
				return nil, fmt.Errorf("palette %s: snippet %q defined more than once", filename, s.Key)
			}
			if strings.TrimSpace(s.Body) == "" {
				return nil, fmt.Errorf("palette %s: snippet %q has an empty body", filename, s.Key)
			}
			p.byKey[s.Key] = s
		}
	}
	return p, nil
}

// Lookup finds a snippet by key or, failing that, by label. Shared labels
// resolve to the first snippet in file order.
func (p *Palette) Lookup(key string) (Snippet, bool) {
	if s, ok := p.byKey[key]; ok {
		return s, true
	}
	for _, s := range p.Snippets() {
		if s.Label == key {
			return s, true
		}
	}
	return Snippet{}, false
}

// Snippets returns every snippet in file order.
func (p *Palette) Snippets() []Snippet {
	var out []Snippet
	for _, c := range p.Categories {
		out = append(out, c.Snippets...)
	}
	return out
}
