// Package flagx lets independent components read their own command-line
// flags from os.Args without tripping over flags that belong to others.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs returns the subset of args made of allowed flags and their values.
//
// Both "-c conf.json" and "--config=conf.json" forms are recognised. A token
// starting with "-" is never consumed as a value. The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	matched, _ := splitArgs(args, allowedFlags)
	return matched
}

// StripArgs is the complement of FilterArgs: it drops the given flags and
// their values and keeps everything else in order.
func StripArgs(args []string, flags []string) []string {
	_, rest := splitArgs(args, flags)
	return rest
}

func splitArgs(args []string, flags []string) (matched, rest []string) {
	allowed := make(map[string]struct{}, len(flags))
	for _, f := range flags {
		allowed[f] = struct{}{}
	}

	matched = make([]string, 0, len(args))
	rest = make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, keep := allowed[name]; keep {
				matched = append(matched, arg)
			} else {
				rest = append(rest, arg)
			}
			continue
		}

		if _, keep := allowed[arg]; !keep {
			rest = append(rest, arg)
			continue
		}
		matched = append(matched, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			matched = append(matched, args[i+1])
			i++
		}
	}

	return matched, rest
}

// StringFlag returns the value of the last occurrence of any of names
// (given without dashes) in args, or "" when none is present.
func StringFlag(args []string, names ...string) string {
	dashed := make([]string, 0, len(names)*2)
	for _, n := range names {
		dashed = append(dashed, "-"+n, "--"+n)
	}

	var value string
	fs := flag.NewFlagSet("flagx", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, n := range names {
		fs.StringVar(&value, n, "", "")
	}
	_ = fs.Parse(FilterArgs(args, dashed))

	return value
}

// ConfigFileFlag returns the JSON config path passed with -c or -config.
func ConfigFileFlag() string {
	return StringFlag(os.Args[1:], "c", "config")
}

// EnvFileFlag returns the dotenv path passed with -env-file.
func EnvFileFlag() string {
	return StringFlag(os.Args[1:], "env-file")
}
