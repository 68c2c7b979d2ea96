package language

import "strings"

type codeEntry struct {
	code2 string   // ISO 639-1
	code3 string   // ISO 639-2 primary
	alt3  string   // ISO 639-2 alternate
	words []string // full word forms
}

var codeTable = []codeEntry{
	{"en", "eng", "", []string{"english"}},
	{"es", "spa", "", []string{"spanish", "español", "espanol"}},
	{"fr", "fra", "fre", []string{"french", "français", "francais"}},
	{"de", "deu", "ger", []string{"german", "deutsch"}},
	{"it", "ita", "", []string{"italian", "italiano"}},
	{"pt", "por", "", []string{"portuguese", "português"}},
	{"ja", "jpn", "", []string{"japanese"}},
	{"ko", "kor", "", []string{"korean"}},
	{"zh", "zho", "chi", []string{"chinese", "mandarin"}},
	{"ru", "rus", "", []string{"russian"}},
	{"ar", "ara", "", []string{"arabic"}},
	{"hi", "hin", "", []string{"hindi"}},
	{"nl", "nld", "dut", []string{"dutch"}},
	{"pl", "pol", "", []string{"polish"}},
	{"sv", "swe", "", []string{"swedish"}},
}

var (
	byCode3 map[string]string
	byWord  map[string]string
	known2  map[string]struct{}
)

func init() {
	byCode3 = make(map[string]string, len(codeTable)*2)
	byWord = make(map[string]string, len(codeTable))
	known2 = make(map[string]struct{}, len(codeTable))
	for _, e := range codeTable {
		known2[e.code2] = struct{}{}
		byCode3[e.code3] = e.code2
		if e.alt3 != "" {
			byCode3[e.alt3] = e.code2
		}
		for _, w := range e.words {
			byWord[w] = e.code2
		}
	}
}

// ToISO2 converts a 2-letter code, 3-letter code or language word to ISO
// 639-1. Unknown 2-letter codes pass through; other unknown input yields "".
func ToISO2(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	if _, ok := known2[value]; ok {
		return value
	}
	if code, ok := byCode3[value]; ok {
		return code
	}
	if code, ok := byWord[value]; ok {
		return code
	}
	if len(value) == 2 {
		return value
	}
	return ""
}
