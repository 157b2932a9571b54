package app

import (
	"io/fs"

	"github.com/fairyhunter13/career-leader/data"
	"github.com/fairyhunter13/career-leader/internal/catalog"
	"github.com/fairyhunter13/career-leader/internal/config"
)

// NewCatalogStore builds the catalog store from configuration. A catalog
// whose location is not configured is read from the bundled data; a
// configured location is a file path or an http(s) URL.
func NewCatalogStore(cfg config.Config) *catalog.Store {
	if !cfg.UsesBundledCatalog() {
		return catalog.NewFileStore(cfg.QuestionsFile, cfg.CareersFile)
	}
	if cfg.QuestionsFile == "" && cfg.CareersFile == "" {
		return catalog.NewFSStore(data.FS, data.QuestionsFile, data.CareersFile)
	}
	q, c := cfg.QuestionsFile, cfg.CareersFile
	if q == "" {
		q = data.QuestionsFile
	}
	if c == "" {
		c = data.CareersFile
	}
	local := map[string]bool{cfg.QuestionsFile: true, cfg.CareersFile: true}
	delete(local, "")
	readConfigured := catalog.ReadLocation(catalog.NewHTTPReader(0))
	return catalog.NewStore(func(name string) ([]byte, error) {
		if local[name] {
			return readConfigured(name)
		}
		return fs.ReadFile(data.FS, name)
	}, q, c)
}
