package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Tier records the support tier key.
func Tier(key string) slog.Attr {
	return slog.String("tier", key)
}

// Language records the rendering language.
func Language(lang string) slog.Attr {
	return slog.String("language", lang)
}

// CustomerID records the CRM customer identifier. Nil ids yield an empty Attr.
func CustomerID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("customer_id", id)
}

// Sections records the kinds of sections a render produced.
func Sections(kinds []string) slog.Attr {
	return slog.Any("sections", kinds)
}

func Key(key string) slog.Attr {
	return slog.String("key", key)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}
