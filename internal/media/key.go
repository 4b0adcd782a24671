package media

import (
	"fmt"
	"strings"
	"time"
)

var cyrillic = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch", 'ъ': "",
	'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
	' ': "-", '_': "-",
}

// Transliterate lower-cases name, romanizes Cyrillic letters and drops every
// character outside [a-z0-9.-].
func Transliterate(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if s, ok := cyrillic[r]; ok {
			b.WriteString(s)
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ObjectKey names an uploaded file: "<unix millis>-<transliterated name>".
func ObjectKey(now time.Time, filename string) string {
	clean := Transliterate(filename)
	if clean == "" {
		clean = "image"
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), clean)
}
