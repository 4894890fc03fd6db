package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// WithDir loads every .yml, .yaml and .json file in fsys. Top-level keys of
// a file are languages, so one file may hold several:
//
//	# locales/en.yml
//	en:
//	  posts:
//	    index:
//	      title: All posts
func WithDir(fsys fs.FS) Option {
	return func(b *Bundle) error {
		return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}

			var unmarshal func([]byte, any) error
			switch strings.ToLower(path.Ext(p)) {
			case ".yml", ".yaml":
				unmarshal = yaml.Unmarshal
			case ".json":
				unmarshal = json.Unmarshal
			default:
				return nil
			}

			data, err := fs.ReadFile(fsys, p)
			if err != nil {
				return fmt.Errorf("i18n: read %s: %w", p, err)
			}
			var doc map[string]any
			if err := unmarshal(data, &doc); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidFile, p, err)
			}

			for lang, tree := range doc {
				messages, ok := tree.(map[string]any)
				if !ok {
					return fmt.Errorf("%w: %s: %q is not a mapping", ErrInvalidFile, p, lang)
				}
				if err := WithMessages(lang, messages)(b); err != nil {
					return err
				}
			}
			return nil
		})
	}
}
