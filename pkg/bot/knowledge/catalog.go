// Package knowledge provides the document catalog and the stores that back it.
// The catalog maps topic keywords to document files; the classifier selects a
// keyword and the engine reads the matching document for grounding.
package knowledge

import (
	config "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/config"
	model "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/domain/model"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/logger"
)

// Catalog holds the configured knowledge documents indexed by keyword.
type Catalog struct {
	docs      []model.Document
	byKeyword map[string]model.Document
}

// NewCatalog builds the catalog from configuration. It logs the recognized
// keywords at startup and warns when the catalog is empty.
func NewCatalog(cfg *config.Config) *Catalog {
	docs := make([]model.Document, 0, len(cfg.Bot.Knowledge.Documents))
	byKeyword := make(map[string]model.Document, len(cfg.Bot.Knowledge.Documents))
	for _, d := range cfg.Bot.Knowledge.Documents {
		doc := model.Document{
			Keyword:     d.Keyword,
			Filename:    d.Filename,
			Description: d.Description,
		}
		docs = append(docs, doc)
		byKeyword[doc.Keyword] = doc
	}

	c := &Catalog{docs: docs, byKeyword: byKeyword}

	logger.Infof("Knowledge catalog recognized keywords: %v", c.Keywords())
	if len(docs) == 0 {
		logger.Warnf("Knowledge catalog is empty. Every question will take the fallback path.")
	}
	return c
}

// Documents returns the catalog entries in configuration order.
func (c *Catalog) Documents() []model.Document {
	return c.docs
}

// Keywords returns the topic keywords in configuration order.
func (c *Catalog) Keywords() []string {
	keywords := make([]string, 0, len(c.docs))
	for _, d := range c.docs {
		keywords = append(keywords, d.Keyword)
	}
	return keywords
}

// Lookup returns the catalog entry for a keyword.
func (c *Catalog) Lookup(keyword string) (model.Document, bool) {
	doc, ok := c.byKeyword[keyword]
	return doc, ok
}

// Empty reports whether the catalog has no entries.
func (c *Catalog) Empty() bool {
	return len(c.docs) == 0
}
