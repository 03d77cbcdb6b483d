package catalog

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"go.yaml.in/yaml/v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

//go:embed all:templates
var embeddedTemplates embed.FS

const templatesDir = "templates"

// Catalog is the decoded template catalog.
type Catalog struct {
	Version   int       `yaml:"version"`
	Toolchain Toolchain `yaml:"toolchain"`
	Client    Client    `yaml:"client"`
	Server    Server    `yaml:"server"`

	// overlay holds templates from the catalog file's directory, if any.
	overlay fs.FS
	source  string
}

// Toolchain lists what must be installed for scaffolding to work.
type Toolchain struct {
	Node     string   `yaml:"node"` // semver constraint, e.g. ">= 18.0.0"
	Binaries []string `yaml:"binaries"`
}

// File maps a destination path (relative to the scaffold root) to a template.
type File struct {
	Path     string `yaml:"path"`
	Template string `yaml:"template"`
}

// Readme describes the optional directory guide written into the client.
type Readme struct {
	Path         string            `yaml:"path"`
	Template     string            `yaml:"template"`
	Descriptions map[string]string `yaml:"descriptions"`
}

// Client is the front-end half of the catalog.
type Client struct {
	Template            string   `yaml:"template"`
	StylingDependencies []string `yaml:"styling_dependencies"`
	Dependencies        []string `yaml:"dependencies"`
	Folders             []string `yaml:"folders"`
	Files               []File   `yaml:"files"`
	Entry               *File    `yaml:"entry"`
	Readme              *Readme  `yaml:"readme"`
}

// Server is the back-end half of the catalog.
type Server struct {
	Dependencies    []string `yaml:"dependencies"`
	DevDependencies []string `yaml:"dev_dependencies"`
	ConfigFiles     []File   `yaml:"config_files"`
	Scripts         Pairs    `yaml:"scripts"`
	Folders         []string `yaml:"folders"`
	Sources         []File   `yaml:"sources"`
	Env             Pairs    `yaml:"env"`
	Gitignore       []string `yaml:"gitignore"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	c, err := Parse(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	c.source = "embedded"
	return c, nil
}

// LoadFile reads a catalog from disk. Templates found under a templates/
// directory beside the file take precedence over the embedded ones.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	c.source = path

	dir := filepath.Join(filepath.Dir(path), templatesDir)
	if info, statErr := os.Stat(dir); statErr == nil && info.IsDir() {
		c.overlay = os.DirFS(dir)
	}

	if err := c.CheckTemplates(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse validates raw catalog YAML against the schema and decodes it.
func Parse(data []byte) (*Catalog, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, &InvalidError{Issues: result.Issues}
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return &c, nil
}

// Source returns where the catalog was loaded from ("embedded" or a path).
func (c *Catalog) Source() string {
	if c.source == "" {
		return "embedded"
	}
	return c.source
}

// ReadTemplate returns the raw bytes of a named template.
func (c *Catalog) ReadTemplate(name string) ([]byte, error) {
	name = path.Clean(name)
	if c.overlay != nil {
		if data, err := fs.ReadFile(c.overlay, name); err == nil {
			return data, nil
		}
	}
	data, err := fs.ReadFile(embeddedTemplates, path.Join(templatesDir, name))
	if err != nil {
		return nil, fmt.Errorf("template %q not found: %w", name, err)
	}
	return data, nil
}

// Render returns the content for a template. Names ending in .tmpl are
// executed with data; everything else is returned verbatim.
func (c *Catalog) Render(name string, data any) ([]byte, error) {
	raw, err := c.ReadTemplate(name)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(name, ".tmpl") {
		return raw, nil
	}

	tmpl, err := template.New(path.Base(name)).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Templates lists every template name the catalog refers to.
func (c *Catalog) Templates() []string {
	var names []string
	for _, f := range c.Client.Files {
		names = append(names, f.Template)
	}
	if c.Client.Entry != nil {
		names = append(names, c.Client.Entry.Template)
	}
	if c.Client.Readme != nil {
		names = append(names, c.Client.Readme.Template)
	}
	for _, f := range c.Server.ConfigFiles {
		names = append(names, f.Template)
	}
	for _, f := range c.Server.Sources {
		names = append(names, f.Template)
	}
	return names
}

// CheckTemplates verifies that every referenced template can be read.
func (c *Catalog) CheckTemplates() error {
	var missing []string
	for _, name := range c.Templates() {
		if _, err := c.ReadTemplate(name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing templates: %s", strings.Join(missing, ", "))
	}
	return nil
}
