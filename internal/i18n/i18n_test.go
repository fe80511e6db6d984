package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundledCatalogues(t *testing.T) {
	require.NoError(t, Initialize())

	assert.Equal(t, "Product not found", T("en", KeyProductNotFound))
	assert.Equal(t, "找不到商品", T("zh_TW", KeyProductNotFound))
	assert.Equal(t, "3 products imported successfully", T("en", KeyProductImported, 3))
	assert.ElementsMatch(t, []string{"en", "zh_TW"}, GetSupportedLanguages())
}

func TestFallback(t *testing.T) {
	catalogue := New()
	require.NoError(t, catalogue.LoadTranslations(fstest.MapFS{
		"l/en.json":    {Data: []byte(`{"greeting":"Hello %s","only_en":"English"}`)},
		"l/zh_TW.json": {Data: []byte(`{"greeting":"你好 %s"}`)},
		"l/README.md":  {Data: []byte("ignored")},
	}, "l"))

	assert.Equal(t, "你好 Ann", catalogue.T("zh_TW", "greeting", "Ann"))
	assert.Equal(t, "English", catalogue.T("zh_TW", "only_en"), "falls back to default language")
	assert.Equal(t, "English", catalogue.T("fr", "only_en"))
	assert.Equal(t, "missing.key", catalogue.T("en", "missing.key"))
}

func TestLoadTranslationsRejectsBadJSON(t *testing.T) {
	catalogue := New()
	err := catalogue.LoadTranslations(fstest.MapFS{"l/en.json": {Data: []byte(`{`)}}, "l")
	assert.Error(t, err)
}
