package output

import (
	"fmt"
	"strings"
)

// Style selects how entry names are decorated in text output.
type Style int

const (
	// StyleIconPrefix prefixes file and directory names with icons.
	StyleIconPrefix Style = iota
	// StyleSlashSuffix appends "/" to directory names and uses no icons.
	StyleSlashSuffix
)

const (
	styleIconName  = "icon"
	styleSlashName = "slash"

	invalidStyleMessage = "invalid style '%s' (expected %s or %s)"
)

// ParseStyle converts a style name into a Style.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case styleIconName:
		return StyleIconPrefix, nil
	case styleSlashName:
		return StyleSlashSuffix, nil
	default:
		return StyleIconPrefix, fmt.Errorf(invalidStyleMessage, name, styleIconName, styleSlashName)
	}
}

// String returns the style name accepted by ParseStyle.
func (style Style) String() string {
	if style == StyleSlashSuffix {
		return styleSlashName
	}
	return styleIconName
}
