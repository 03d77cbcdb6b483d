package scaffold

import (
	"context"
	"path/filepath"

	"github.com/stackgen-labs/stackgen/internal/catalog"
)

// Server scaffolds an Express + TypeScript back end in opts.Dir.
func Server(ctx context.Context, opts Options) (*Result, error) {
	s, err := newSession(ctx, TargetServer, opts)
	if err != nil {
		return nil, err
	}
	cat := s.opts.Catalog.Server
	s.log.Infof("Creating Node.js + TypeScript server in %s", s.opts.Dir)

	name, args := s.pm.Init()
	if err := s.run(name, args...); err != nil {
		return s.result, err
	}
	if err := s.install(false, cat.Dependencies); err != nil {
		return s.result, err
	}
	if err := s.install(true, cat.DevDependencies); err != nil {
		return s.result, err
	}

	for _, f := range cat.ConfigFiles {
		if err := s.writeTemplate(f, nil); err != nil {
			return s.result, err
		}
	}

	s.log.Debug("Rewriting package.json scripts")
	scripts := make(catalog.Pairs, len(cat.Scripts))
	for i, kv := range cat.Scripts {
		scripts[i] = catalog.Pair{Key: kv.Key, Value: s.pm.Script(kv.Value)}
	}
	if err := RewriteScripts(filepath.Join(s.opts.Dir, "package.json"), scripts); err != nil {
		return s.result, err
	}
	s.result.Files = append(s.result.Files, "package.json")

	if err := s.mkdirs(cat.Folders); err != nil {
		return s.result, err
	}
	for _, f := range cat.Sources {
		if err := s.writeTemplate(f, nil); err != nil {
			return s.result, err
		}
	}

	env, err := RenderEnv(cat.Env, s.opts.Env)
	if err != nil {
		return s.result, err
	}
	// .env carries credentials such as MONGO_URL.
	if err := s.writeMode(".env", env, 0600); err != nil {
		return s.result, err
	}

	if len(cat.Gitignore) > 0 {
		if err := EnsureGitignore(s.opts.Dir, cat.Gitignore); err != nil {
			return s.result, err
		}
		s.result.Files = append(s.result.Files, ".gitignore")
	}

	s.log.Info("Node.js server setup complete!")
	return s.result, nil
}
