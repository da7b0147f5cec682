package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

const (
	booleanFlagTypeName               = "bool"
	booleanFlagTrueLiteral            = "true"
	booleanFlagAcceptedValuesListing  = "true, false, yes, no, on, off, 1, 0"
	booleanFlagInvalidValueErrorLabel = "invalid boolean value"
)

var booleanFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// booleanFlagValue is a boolean flag that also accepts yes/no and on/off literals.
type booleanFlagValue struct {
	target  *bool
	flagKey string
}

func (value *booleanFlagValue) Set(input string) error {
	if value == nil || value.target == nil {
		return fmt.Errorf("%s %q", booleanFlagInvalidValueErrorLabel, input)
	}
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = booleanFlagTrueLiteral
	}
	parsed, ok := booleanFlagLiterals[normalized]
	if !ok {
		return fmt.Errorf("%s %q for --%s; accepted values: %s", booleanFlagInvalidValueErrorLabel, input, value.flagKey, booleanFlagAcceptedValuesListing)
	}
	*value.target = parsed
	return nil
}

func (value *booleanFlagValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *booleanFlagValue) Type() string {
	return booleanFlagTypeName
}

// registerBooleanFlag registers a literal-aware boolean flag. An empty
// shorthand registers the long form only.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = false
	flagSet.VarP(&booleanFlagValue{target: target, flagKey: name}, name, shorthand, usage)
	if lookup := flagSet.Lookup(name); lookup != nil {
		lookup.DefValue = strconv.FormatBool(false)
		lookup.NoOptDefVal = booleanFlagTrueLiteral
	}
}

// normalizeBooleanFlagArguments rewrites "--flag literal" into "--flag=literal"
// for literal-aware boolean flags so the literal is not taken as a path.
func normalizeBooleanFlagArguments(flagSet *pflag.FlagSet, arguments []string) []string {
	if flagSet == nil || len(arguments) == 0 {
		return arguments
	}
	booleanFlags := map[string]struct{}{}
	flagSet.VisitAll(func(flag *pflag.Flag) {
		if flag != nil && flag.Value != nil && flag.Value.Type() == booleanFlagTypeName {
			booleanFlags[flag.Name] = struct{}{}
		}
	})
	if len(booleanFlags) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	index := 0
	for index < len(arguments) {
		currentArgument := arguments[index]
		if currentArgument == "--" {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if flagName, flagPrefix, ok := booleanFlagReference(flagSet, currentArgument); ok && index+1 < len(arguments) {
			if _, exists := booleanFlags[flagName]; exists {
				nextArgument := arguments[index+1]
				literal := strings.ToLower(strings.TrimSpace(nextArgument))
				if _, valid := booleanFlagLiterals[literal]; valid {
					normalized = append(normalized, fmt.Sprintf("%s=%s", flagPrefix, nextArgument))
					index += 2
					continue
				}
			}
		}
		normalized = append(normalized, currentArgument)
		index++
	}
	return normalized
}

// booleanFlagReference resolves "--name" or a single "-x" shorthand to the
// flag's long name, returning the argument as written for rewriting.
func booleanFlagReference(flagSet *pflag.FlagSet, argument string) (string, string, bool) {
	if strings.Contains(argument, "=") {
		return "", "", false
	}
	if strings.HasPrefix(argument, "--") {
		return strings.TrimPrefix(argument, "--"), argument, true
	}
	if len(argument) == 2 && argument[0] == '-' && argument[1] != '-' {
		if flag := flagSet.ShorthandLookup(argument[1:]); flag != nil {
			return flag.Name, argument, true
		}
	}
	return "", "", false
}
