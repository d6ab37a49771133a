// Package collation compara cadenas ignorando mayúsculas y acentos, equivalente a una
// collation "en" de fuerza primaria en MongoDB o a una ICU no determinista en PostgreSQL.
// Lo usan los adaptadores que no tienen collation nativa.
package collation

import (
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Los Collator no son seguros para uso concurrente.
var collators = sync.Pool{
	New: func() any {
		return collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics)
	},
}

// Equal informa si a y b son iguales sin distinguir mayúsculas ni acentos.
func Equal(a, b string) bool {
	c := collators.Get().(*collate.Collator)
	defer collators.Put(c)
	return c.CompareString(a, b) == 0
}

// Key devuelve la forma plegada de s: sin diacríticos y con case folding.
// Dos cadenas con la misma Key son Equal; sirve para indexar en memoria.
func Key(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}
