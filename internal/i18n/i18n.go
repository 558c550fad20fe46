// Package i18n holds the user-facing message tables of the checkout.
package i18n

import (
	"context"
	"fmt"
	"strings"
)

// Locale identifies a message table.
type Locale string

const (
	PT Locale = "pt"
	EN Locale = "en"
)

// DefaultLocale is used when no supported locale was requested.
const DefaultLocale = PT

// Translator resolves message keys for one locale.
type Translator interface {
	Locale() Locale
	T(key string) string
	Tf(key string, args ...any) string
}

// ParseLocale returns the supported locale named by v. It accepts bare
// language tags and regional variants ("en-US", "pt_BR").
func ParseLocale(v string) (Locale, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if i := strings.IndexAny(v, "-_"); i >= 0 {
		v = v[:i]
	}
	switch Locale(v) {
	case PT:
		return PT, true
	case EN:
		return EN, true
	}
	return "", false
}

// FromAcceptLanguage picks the first supported locale of an Accept-Language
// header value. Quality weights are ignored; order wins.
func FromAcceptLanguage(header string) (Locale, bool) {
	for _, part := range strings.Split(header, ",") {
		tag := part
		if i := strings.IndexByte(part, ';'); i >= 0 {
			tag = part[:i]
		}
		if l, ok := ParseLocale(tag); ok {
			return l, true
		}
	}
	return "", false
}

type translator struct {
	locale   Locale
	messages map[string]string
}

// New returns the translator for locale, falling back to DefaultLocale for
// unsupported values.
func New(locale Locale) Translator {
	messages, ok := tables[locale]
	if !ok {
		locale = DefaultLocale
		messages = tables[DefaultLocale]
	}
	return &translator{locale: locale, messages: messages}
}

// For is shorthand for New with a raw locale string.
func For(locale string) Translator {
	l, _ := ParseLocale(locale)
	return New(l)
}

func (t *translator) Locale() Locale {
	return t.locale
}

// T returns the message for key. Unknown keys come back verbatim so that a
// missing entry is visible rather than blank.
func (t *translator) T(key string) string {
	if msg, ok := t.messages[key]; ok {
		return msg
	}
	if msg, ok := tables[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

func (t *translator) Tf(key string, args ...any) string {
	return fmt.Sprintf(t.T(key), args...)
}

type contextKey struct{}

// WithLocale returns a context carrying the locale requested by the caller.
func WithLocale(ctx context.Context, locale Locale) context.Context {
	return context.WithValue(ctx, contextKey{}, locale)
}

// FromContext returns the locale stored by WithLocale.
func FromContext(ctx context.Context) (Locale, bool) {
	l, ok := ctx.Value(contextKey{}).(Locale)
	return l, ok
}

type sessionKey struct{}

// WithSessionLocale returns a context carrying the locale a session settled
// on. It only counts when the caller requested none.
func WithSessionLocale(ctx context.Context, locale Locale) context.Context {
	return context.WithValue(ctx, sessionKey{}, locale)
}

// Resolve returns the requested locale, then the session's, then DefaultLocale.
func Resolve(ctx context.Context) Locale {
	if l, ok := FromContext(ctx); ok {
		return l
	}
	if l, ok := ctx.Value(sessionKey{}).(Locale); ok {
		return l
	}
	return DefaultLocale
}
