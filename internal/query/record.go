package query

import (
	"strconv"
	"strings"
)

// Record is one key-value entry of a ServerQuery response. Field access
// never fails: missing or malformed values fall back to explicit defaults,
// since the server omits fields freely depending on version and options.
type Record map[string]string

// Str returns the value for key, or "" when absent.
func (r Record) Str(key string) string {
	return r[key]
}

// StrOr returns the value for key, or def when absent or empty.
func (r Record) StrOr(key, def string) string {
	if v, ok := r[key]; ok && v != "" {
		return v
	}

	return def
}

// Int returns the integer value for key, or 0 when absent or malformed.
func (r Record) Int(key string) int {
	return r.IntOr(key, 0)
}

// IntOr returns the integer value for key, or def when absent or malformed.
func (r Record) IntOr(key string, def int) int {
	v, ok := r[key]
	if !ok {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

// Int64 returns the 64-bit integer value for key, or 0 when absent.
func (r Record) Int64(key string) int64 {
	v, ok := r[key]
	if !ok {
		return 0
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}

	return n
}

// Bool returns true when the value for key is the flag "1".
func (r Record) Bool(key string) bool {
	return r[key] == "1"
}

// ParseRecords splits raw response lines into records. A list response is a
// single line of pipe-separated entries, each entry a space-separated set of
// key=value pairs with ServerQuery escaping applied to the values.
func ParseRecords(lines []string) []Record {
	var records []Record

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		for _, part := range strings.Split(line, "|") {
			rec := Record{}

			for _, field := range strings.Split(part, " ") {
				if field == "" {
					continue
				}

				key, value, found := strings.Cut(field, "=")
				if found {
					rec[key] = Unescape(value)
				} else {
					rec[key] = ""
				}
			}

			if len(rec) > 0 {
				records = append(records, rec)
			}
		}
	}

	return records
}

var unescaper = strings.NewReplacer(
	`\\`, "\\",
	`\/`, "/",
	`\s`, " ",
	`\p`, "|",
	`\a`, "\a",
	`\b`, "\b",
	`\f`, "\f",
	`\n`, "\n",
	`\r`, "\r",
	`\t`, "\t",
	`\v`, "\v",
)

var escaper = strings.NewReplacer(
	"\\", `\\`,
	"/", `\/`,
	" ", `\s`,
	"|", `\p`,
	"\a", `\a`,
	"\b", `\b`,
	"\f", `\f`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"\v", `\v`,
)

// Unescape reverses ServerQuery value escaping.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	return unescaper.Replace(s)
}

// Escape applies ServerQuery value escaping, used when rendering raw
// command lines.
func Escape(s string) string {
	return escaper.Replace(s)
}

// RenderCommand builds the raw wire form of a command, for the Raw
// fallback path.
func RenderCommand(cmd Command) string {
	var b strings.Builder

	b.WriteString(cmd.Name)

	for _, a := range cmd.Args {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteByte('=')
		b.WriteString(Escape(a.Value))
	}

	for _, o := range cmd.Options {
		b.WriteByte(' ')
		b.WriteString(o)
	}

	return b.String()
}
