package token

import "fmt"

// LanguageVersion selects the grammar generation being parsed.
type LanguageVersion int

const (
	V24 LanguageVersion = 0x24
	V25 LanguageVersion = 0x25
	V26 LanguageVersion = 0x26
	V27 LanguageVersion = 0x27
	V30 LanguageVersion = 0x30
	V31 LanguageVersion = 0x31
	V32 LanguageVersion = 0x32
	V33 LanguageVersion = 0x33
	V34 LanguageVersion = 0x34
	V35 LanguageVersion = 0x35
	V36 LanguageVersion = 0x36

	Latest = V36
)

// Versions lists every supported version, oldest first.
var Versions = []LanguageVersion{V24, V25, V26, V27, V30, V31, V32, V33, V34, V35, V36}

func (v LanguageVersion) Major() int { return int(v) >> 4 }
func (v LanguageVersion) Minor() int { return int(v) & 0xF }

// Is2x reports whether v belongs to the 2.x family.
func (v LanguageVersion) Is2x() bool { return v.Major() == 2 }

// Is3x reports whether v belongs to the 3.x family.
func (v LanguageVersion) Is3x() bool { return v.Major() == 3 }

// AtLeast reports whether v is other or newer.
func (v LanguageVersion) AtLeast(other LanguageVersion) bool { return v >= other }

// IsValid reports whether v is one of the supported versions.
func (v LanguageVersion) IsValid() bool {
	for _, known := range Versions {
		if v == known {
			return true
		}
	}
	return false
}

func (v LanguageVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major(), v.Minor())
}

// ParseVersion accepts "3.5" style strings.
func ParseVersion(s string) (LanguageVersion, error) {
	for _, v := range Versions {
		if v.String() == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unsupported language version %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (v LanguageVersion) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *LanguageVersion) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
