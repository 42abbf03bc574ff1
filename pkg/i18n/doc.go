// Package i18n resolves localized message templates for the onboarding
// email and negotiates the request language over HTTP.
//
// # Architecture
//
// A Translator holds one nested key/value table per language. Tables are
// loaded once at construction through a TranslationAdapter and a Parser:
//
//   - MapAdapter: tables built in code, mostly for tests
//   - FileAdapter: a single file holding every language under top-level keys
//   - FSAdapter: one file per language (en.yaml, fr.json) in a directory or
//     any fs.FS, including embed.FS; NewDirectoryAdapter wraps os.DirFS
//   - YAMLParser and JSONParser: NewParserForFile picks one by extension
//
// After construction the tables are read-only and a Translator is safe for
// concurrent use.
//
// # Lookup
//
// Keys use dot notation into the nested tables ("gdap.header"). Lookup never
// fails: Translate tries the requested language, then the default language
// (WithDefaultLanguage, "en" unless set), and finally returns the key itself.
// Language codes are matched case-insensitively ("FR" finds "fr"); the HTTP
// extractors reduce regional tags such as "fr-CA" to their base language.
//
// Placeholders use the {name} form and are replaced from a Replacements map
// with fmt.Sprint. A placeholder without a replacement stays verbatim; a nil
// replacement renders empty.
//
// The "supportType" key is tier-aware: with a "tier" replacement it resolves
// supportType.<tier> first and supportType.other second, each through the
// same language chain.
//
// # Usage
//
//	tr, err := i18n.NewTranslator(ctx,
//		i18n.NewFSAdapter(i18n.NewYAMLParser(), files, "."),
//		i18n.WithDefaultLanguage("en"),
//		i18n.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//
//	tr.Translate("fr", "greeting", i18n.Replacements{"name": "Bob"}) // "Bonjour Bob,"
//	tr.T("de", "supportType", "tier", "gold", "tierName", "Gold")
//	tr.Translate("fr", "noSuchKey", nil) // "noSuchKey"
//
// HasTranslation reports whether a language defines a key without fallback,
// SupportedLanguages lists the loaded languages and ExportJSON dumps one table
// for clients.
//
// # HTTP
//
// Middleware stores the negotiated language in the request context, where
// GetLocale and Translator.Tc read it. DefaultLangExtractor checks the "lang"
// cookie, then the "lang" query parameter, then Accept-Language matched with
// golang.org/x/text/language. Values outside WithSupportedLanguages are
// ignored, and a request with no usable value gets DefaultLanguage.
//
//	r.Use(i18n.Middleware(i18n.DefaultLangExtractor(
//		i18n.WithSupportedLanguages(tr.SupportedLanguages()...),
//	)))
//
// LoggerExtractor adds the negotiated language to every slog record logged
// with the request context.
//
// # Error Handling
//
// Only construction returns errors: a nil adapter (ErrNilAdapter), unreadable
// sources (ErrFailedToReadFile, ErrFailedToReadDirectory), malformed content
// (ErrFailedToParseYAML, ErrFailedToParseJSON, ErrInvalidStructure) or an
// empty directory (ErrNoTranslationsFound). Missing keys are logged as
// warnings when WithMissingTranslationsLogging is on.
package i18n
