package review

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeColumnName folds a header cell into its lookup form: NFKC, trimmed, lowercase.
func NormalizeColumnName(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = norm.NFKC.String(name)
	name = strings.TrimSpace(name)
	return cases.Lower(language.Und).String(name)
}

func cleanCell(v string) string {
	v = strings.TrimPrefix(v, "\ufeff")
	return strings.TrimSpace(v)
}
