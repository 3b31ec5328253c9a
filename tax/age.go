package tax

import (
	"fmt"
	"strings"
)

type AgeCategory int

const (
	AgeUnder65 AgeCategory = iota
	Age65To74
	Age75Plus
)

var ageCategoryNames = map[AgeCategory]string{
	AgeUnder65: "under-65",
	Age65To74:  "65-to-74",
	Age75Plus:  "75-plus",
}

func (a AgeCategory) String() string {
	if name, ok := ageCategoryNames[a]; ok {
		return name
	}
	return fmt.Sprintf("AgeCategory(%d)", int(a))
}

func (a AgeCategory) Valid() bool {
	_, ok := ageCategoryNames[a]
	return ok
}

// Senior reports whether the category falls under the 65-and-older medical credit rules.
func (a AgeCategory) Senior() bool {
	return a == Age65To74 || a == Age75Plus
}

// ParseAgeCategory accepts the canonical names and the display labels
// ("Under 65", "65 to 74", "75 Plus"), case-insensitively.
func ParseAgeCategory(s string) (AgeCategory, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, " ", "-")

	for a, name := range ageCategoryNames {
		if key == name {
			return a, nil
		}
	}

	return 0, fmt.Errorf("unknown age category %q", s)
}
