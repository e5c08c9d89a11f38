package service

import (
	"strings"
	"time"
	"unicode"

	"github.com/jaevor/go-nanoid"
)

const upperAlphanumeric = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func mustGenerator(length int) func() string {
	gen, err := nanoid.CustomASCII(upperAlphanumeric, length)
	if err != nil {
		panic(err)
	}
	return gen
}

// NewSKUGenerator returns a generator of PREFIX-XXXXXX codes, PREFIX being the first
// four alphanumerics of the upper-cased name or PROD
func NewSKUGenerator() func(name string) string {
	suffix := mustGenerator(6)
	return func(name string) string {
		return SKUPrefix(name) + "-" + suffix()
	}
}

func SKUPrefix(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			if b.Len() == 4 {
				break
			}
		}
	}
	if b.Len() == 0 {
		return "PROD"
	}
	return b.String()
}

// NewOrderNumberGenerator returns a generator of ORD<YYMMDD><6 chars> numbers
func NewOrderNumberGenerator() func(now time.Time) string {
	suffix := mustGenerator(6)
	return func(now time.Time) string {
		return "ORD" + now.Format("060102") + suffix()
	}
}
