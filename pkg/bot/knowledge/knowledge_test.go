package knowledge

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/config"
)

func testConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Bot.Knowledge.Documents = []config.DocumentConfig{
		{Keyword: "ゼミ", Filename: "zemi_unei.txt", Description: "ゼミのルールの資料．"},
		{Keyword: "Python教材", Filename: "kyouzai_python.txt", Description: "Python学習教材の資料．"},
	}
	return cfg
}

func TestCatalog_Lookup(t *testing.T) {
	catalog := NewCatalog(testConfig())

	doc, ok := catalog.Lookup("ゼミ")
	require.True(t, ok)
	assert.Equal(t, "zemi_unei.txt", doc.Filename)

	_, ok = catalog.Lookup("一般知識")
	assert.False(t, ok)
}

func TestCatalog_KeywordsKeepConfigurationOrder(t *testing.T) {
	catalog := NewCatalog(testConfig())
	assert.Equal(t, []string{"ゼミ", "Python教材"}, catalog.Keywords())
}

func TestCatalog_Empty(t *testing.T) {
	catalog := NewCatalog(config.NewConfig())
	assert.True(t, catalog.Empty())
	assert.Empty(t, catalog.Documents())
}

func TestEmbeddedStore_Read(t *testing.T) {
	fsys := fstest.MapFS{
		"zemi_unei.txt": &fstest.MapFile{Data: []byte("ゼミは毎週水曜に行う．")},
	}
	store := NewEmbeddedStore(fsys)

	text, err := store.Read(context.Background(), "zemi_unei.txt")
	require.NoError(t, err)
	assert.Equal(t, "ゼミは毎週水曜に行う．", text)
}

func TestEmbeddedStore_ReadMissingFile(t *testing.T) {
	store := NewEmbeddedStore(fstest.MapFS{})

	_, err := store.Read(context.Background(), "missing.txt")
	assert.Error(t, err)
}
