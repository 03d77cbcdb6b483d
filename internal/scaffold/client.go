package scaffold

import (
	"context"
	"path/filepath"

	"github.com/stackgen-labs/stackgen/internal/branding"
	"github.com/stackgen-labs/stackgen/internal/catalog"
)

// ReadmeData is the data passed to the client README template.
type ReadmeData struct {
	Name      string
	Generator string
	Folders   []ReadmeFolder
}

// ReadmeFolder describes one generated folder.
type ReadmeFolder struct {
	Path        string
	Description string
}

// Client scaffolds a React + Vite + Tailwind front end in opts.Dir.
func Client(ctx context.Context, opts Options) (*Result, error) {
	s, err := newSession(ctx, TargetClient, opts)
	if err != nil {
		return nil, err
	}
	cat := s.opts.Catalog.Client
	s.log.Infof("Creating React client in %s", s.opts.Dir)

	tmpl := s.opts.ClientTemplate
	if tmpl == "" {
		tmpl = cat.Template
	}
	name, args := s.pm.Create("vite", "--template", tmpl)
	if err := s.run(name, args...); err != nil {
		return s.result, err
	}

	if err := s.install(true, cat.StylingDependencies); err != nil {
		return s.result, err
	}
	name, args = s.pm.Exec("tailwindcss", "init", "-p")
	if err := s.run(name, args...); err != nil {
		return s.result, err
	}
	for _, f := range cat.Files {
		if err := s.writeTemplate(f, nil); err != nil {
			return s.result, err
		}
	}

	if err := s.install(false, cat.Dependencies); err != nil {
		return s.result, err
	}
	if err := s.mkdirs(cat.Folders); err != nil {
		return s.result, err
	}

	if s.opts.RewriteEntry && cat.Entry != nil {
		if err := s.writeTemplate(*cat.Entry, nil); err != nil {
			return s.result, err
		}
	}
	if s.opts.WriteReadme && cat.Readme != nil {
		if err := s.writeTemplate(catalog.File{Path: cat.Readme.Path, Template: cat.Readme.Template}, s.readmeData()); err != nil {
			return s.result, err
		}
	}

	s.log.Info("React client setup complete!")
	return s.result, nil
}

func (s *session) readmeData() ReadmeData {
	name := s.opts.ProjectName
	if name == "" {
		name = filepath.Base(filepath.Dir(s.opts.Dir))
	}
	data := ReadmeData{Name: name, Generator: branding.DisplayName()}
	for _, f := range s.opts.Catalog.Client.Folders {
		data.Folders = append(data.Folders, ReadmeFolder{
			Path:        f,
			Description: s.opts.Catalog.Client.Readme.Descriptions[f],
		})
	}
	return data
}
