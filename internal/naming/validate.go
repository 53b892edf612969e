package naming

import (
	"regexp"
	"strings"
)

// MaxLength is the longest name the registry accepts for new packages.
const MaxLength = 214

var scopedPackagePattern = regexp.MustCompile(`^(?:@([^/]+?)/)?([^/]+?)$`)

var specialChars = regexp.MustCompile(`[~'!()*]`)

var blacklist = []string{"node_modules", "favicon.ico"}

// builtins are Node.js core module names; they are valid for old packages only.
var builtins = []string{
	"assert", "async_hooks", "buffer", "child_process", "cluster", "console",
	"constants", "crypto", "dgram", "dns", "domain", "events", "fs", "http",
	"http2", "https", "inspector", "module", "net", "os", "path", "perf_hooks",
	"process", "punycode", "querystring", "readline", "repl", "stream",
	"string_decoder", "sys", "timers", "tls", "trace_events", "tty", "url",
	"util", "v8", "vm", "worker_threads", "zlib",
}

// Result is the outcome of validating a package name.
type Result struct {
	ValidForNewPackages bool
	ValidForOldPackages bool
	Errors              []string
	Warnings            []string
}

// Validate applies the npm naming convention to name. Errors make a name
// unusable; warnings only block names for new packages.
func Validate(name string) Result {
	var errs, warnings []string

	if len(name) == 0 {
		errs = append(errs, "name length must be greater than zero")
	}
	if strings.HasPrefix(name, ".") {
		errs = append(errs, "name cannot start with a period")
	}
	if strings.HasPrefix(name, "_") {
		errs = append(errs, "name cannot start with an underscore")
	}
	if strings.TrimSpace(name) != name {
		errs = append(errs, "name cannot contain leading or trailing spaces")
	}

	lower := strings.ToLower(name)
	for _, bl := range blacklist {
		if lower == bl {
			errs = append(errs, bl+" is a blacklisted name")
		}
	}
	for _, b := range builtins {
		if lower == b {
			warnings = append(warnings, b+" is a core module name")
		}
	}

	if len(name) > MaxLength {
		warnings = append(warnings, "name can no longer contain more than 214 characters")
	}
	if lower != name {
		warnings = append(warnings, "name can no longer contain capital letters")
	}
	segments := strings.Split(name, "/")
	if specialChars.MatchString(segments[len(segments)-1]) {
		warnings = append(warnings, `name can no longer contain special characters ("~'!()*")`)
	}

	if !urlSafe(name) && !scopedURLSafe(name) {
		errs = append(errs, "name can only contain URL-friendly characters")
	}

	return Result{
		ValidForNewPackages: len(errs) == 0 && len(warnings) == 0,
		ValidForOldPackages: len(errs) == 0,
		Errors:              errs,
		Warnings:            warnings,
	}
}

// scopedURLSafe accepts "@scope/name" when both parts are URL-safe on their own.
func scopedURLSafe(name string) bool {
	m := scopedPackagePattern.FindStringSubmatch(name)
	if m == nil || m[1] == "" {
		return false
	}
	return urlSafe(m[1]) && urlSafe(m[2])
}

// urlSafe reports whether s survives URI component encoding unchanged.
func urlSafe(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case strings.IndexByte("-_.!~*'()", c) >= 0:
		default:
			return false
		}
	}
	return true
}
