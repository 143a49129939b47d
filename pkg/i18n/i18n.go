package i18n

import (
	"embed"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed translations/active.*.toml
var localeFS embed.FS
var bundle *i18n.Bundle

func init() {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	files, err := fs.Glob(localeFS, "translations/active.*.toml")
	if err != nil {
		panic(err)
	}
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			panic(err)
		}
	}
}

// Template carries the values substituted into a message.
type Template = map[string]interface{}

// Msg localizes the message with the given id for an Accept-Language style lang.
// Unknown languages fall back to English; an unknown id yields "".
func Msg(lang, id string, data Template) string {
	s, _ := i18n.NewLocalizer(bundle, lang).Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	return s
}
