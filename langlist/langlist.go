package langlist

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Language is one judge-supported programming language. The catalog is
// compiled into the binary so the API and the worker always agree on it.
type Language struct {
	ID       string `toml:"id"`
	FullName string `toml:"full_name"`
	MonacoID string `toml:"monaco_id"`
	Enabled  bool   `toml:"enabled"`
}

//go:embed languages.toml
var languagesToml []byte

var (
	parseOnce sync.Once
	parsed    []Language
	parseErr  error
)

func load() ([]Language, error) {
	parseOnce.Do(func() {
		var doc struct {
			Languages []Language `toml:"languages"`
		}
		if err := toml.Unmarshal(languagesToml, &doc); err != nil {
			parseErr = fmt.Errorf("failed to parse language catalog: %w", err)
			return
		}
		parsed = doc.Languages
	})
	return parsed, parseErr
}

// ListEnabled returns the languages submissions may currently use.
func ListEnabled() ([]Language, error) {
	all, err := load()
	if err != nil {
		return nil, err
	}
	enabled := make([]Language, 0, len(all))
	for _, l := range all {
		if l.Enabled {
			enabled = append(enabled, l)
		}
	}
	return enabled, nil
}

// ByID looks a language up by its id, enabled or not.
func ByID(id string) (Language, error) {
	all, err := load()
	if err != nil {
		return Language{}, err
	}
	for _, l := range all {
		if l.ID == id {
			return l, nil
		}
	}
	return Language{}, fmt.Errorf("unknown language id: %s", id)
}
