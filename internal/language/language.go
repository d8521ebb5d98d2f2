package language

import (
	"strings"

	"golang.org/x/text/cases"
)

type entry struct {
	code2   string   // ISO 639-1
	code3   []string // ISO 639-2 forms, bibliographic variants included
	display string
	labels  []string // English words and index labels
}

var languages = []entry{
	{"en", []string{"eng"}, "English", []string{"english", "英语", "英文"}},
	{"zh", []string{"zho", "chi", "chs", "cht"}, "Chinese", []string{"chinese", "中文", "简体", "繁体", "简体中文", "繁體", "繁体中文", "国语", "粤语"}},
	{"ja", []string{"jpn"}, "Japanese", []string{"japanese", "日语", "日文"}},
	{"ko", []string{"kor"}, "Korean", []string{"korean", "韩语", "韩文"}},
	{"fr", []string{"fra", "fre"}, "French", []string{"french", "法语"}},
	{"de", []string{"deu", "ger"}, "German", []string{"german", "德语"}},
	{"es", []string{"spa"}, "Spanish", []string{"spanish", "西班牙语"}},
	{"it", []string{"ita"}, "Italian", []string{"italian", "意大利语"}},
	{"pt", []string{"por"}, "Portuguese", []string{"portuguese", "葡萄牙语"}},
	{"ru", []string{"rus"}, "Russian", []string{"russian", "俄语"}},
	{"ar", []string{"ara"}, "Arabic", []string{"arabic", "阿拉伯语"}},
	{"th", []string{"tha"}, "Thai", []string{"thai", "泰语"}},
	{"vi", []string{"vie"}, "Vietnamese", []string{"vietnamese", "越南语"}},
	{"nl", []string{"nld", "dut"}, "Dutch", []string{"dutch"}},
	{"pl", []string{"pol"}, "Polish", []string{"polish"}},
	{"sv", []string{"swe"}, "Swedish", []string{"swedish"}},
}

var index map[string]*entry

// foldKey returns the caseless lookup key for label. Casers are not safe for
// concurrent use, so each call builds its own.
func foldKey(label string) string {
	return cases.Fold().String(strings.TrimSpace(label))
}

func init() {
	index = make(map[string]*entry, len(languages)*6)
	for i := range languages {
		e := &languages[i]
		index[e.code2] = e
		for _, code := range e.code3 {
			index[code] = e
		}
		for _, label := range e.labels {
			index[foldKey(label)] = e
		}
	}
}

func lookup(label string) *entry {
	key := foldKey(label)
	if key == "" {
		return nil
	}
	if e, ok := index[key]; ok {
		return e
	}
	// Regional tags such as "en-US" or "zh_Hans".
	if i := strings.IndexAny(key, "-_"); i > 0 {
		return index[key[:i]]
	}
	return nil
}

// Code returns the ISO 639-1 code for a recognised label, or "" when unknown.
func Code(label string) string {
	if e := lookup(label); e != nil {
		return e.code2
	}
	return ""
}

// Codes splits a combined label such as "简体&英语" and returns the distinct
// codes it names, in order. Unknown parts are dropped.
func Codes(label string) []string {
	var codes []string
	for _, part := range Split(label) {
		code := Code(part)
		if code == "" {
			continue
		}
		dup := false
		for _, seen := range codes {
			if seen == code {
				dup = true
				break
			}
		}
		if !dup {
			codes = append(codes, code)
		}
	}
	return codes
}

// Split breaks a combined label on "&", "," and "/" and trims each part.
func Split(label string) []string {
	fields := strings.FieldsFunc(label, func(r rune) bool {
		return r == '&' || r == ',' || r == '/' || r == '，'
	})
	parts := fields[:0]
	for _, field := range fields {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// DisplayName returns a human-readable language name for any recognised
// label. Returns "Unknown" for empty input, or the label itself otherwise.
func DisplayName(label string) string {
	label = strings.TrimSpace(label)
	if label == "" || strings.EqualFold(label, "und") {
		return "Unknown"
	}
	if e := lookup(label); e != nil {
		return e.display
	}
	return label
}
