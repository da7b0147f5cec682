package cli

import (
	"github.com/spf13/pflag"

	"github.com/temirov/gitree/internal/output"
)

const styleFlagTypeName = "style"

// styleFlagValue parses --style into an output.Style.
type styleFlagValue struct {
	target *output.Style
}

func (value *styleFlagValue) Set(input string) error {
	parsed, parseError := output.ParseStyle(input)
	if parseError != nil {
		return parseError
	}
	*value.target = parsed
	return nil
}

func (value *styleFlagValue) String() string {
	if value == nil || value.target == nil {
		return output.StyleIconPrefix.String()
	}
	return value.target.String()
}

func (value *styleFlagValue) Type() string {
	return styleFlagTypeName
}

func registerStyleFlag(flagSet *pflag.FlagSet, target *output.Style) {
	if flagSet == nil || target == nil {
		return
	}
	*target = output.StyleIconPrefix
	flagSet.Var(&styleFlagValue{target: target}, styleFlagName, styleFlagDescription)
}
