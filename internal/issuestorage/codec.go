package issuestorage

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Extension is the file extension of every issue file.
const Extension = ".md"

// SlugSeparator joins slug words in the canonical filename form.
// Older files used "-", which DecodeFilename still accepts.
const SlugSeparator = "_"

// DecodeError describes a filename that is not a valid issue filename.
type DecodeError struct {
	Name   string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid issue filename %q: %s", e.Name, e.Reason)
}

func (e *DecodeError) Unwrap() error { return ErrInvalidInput }

// EncodeFilename builds the filename for an issue:
//
//	003-x7k2m-high-fix_login_bug.md   (ordered)
//	x7k2m-high-fix_login_bug.md       (unordered, order == 0)
func EncodeFilename(order int, id string, severity Severity, slug string) string {
	if order > 0 {
		return fmt.Sprintf("%03d-%s-%s-%s%s", order, id, severity, slug, Extension)
	}
	return fmt.Sprintf("%s-%s-%s%s", id, severity, slug, Extension)
}

// DecodeFilename parses a filename produced by EncodeFilename. The returned
// issue has ID, Severity, Slug and Order set; Status and Path are left for
// the caller.
//
// A leading all-digit segment is the order. Slug segments may be joined by
// either "_" or "-"; the decoded slug always uses "_".
func DecodeFilename(name string) (*Issue, error) {
	stem, ok := strings.CutSuffix(name, Extension)
	if !ok {
		return nil, &DecodeError{Name: name, Reason: "missing " + Extension + " extension"}
	}

	parts := strings.Split(stem, "-")
	order := 0
	if isDigits(parts[0]) {
		n, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, &DecodeError{Name: name, Reason: "order prefix out of range"}
		}
		order = n
		parts = parts[1:]
	}

	if len(parts) < 3 {
		return nil, &DecodeError{Name: name, Reason: "expected [NNN-]{id}-{severity}-{slug}.md"}
	}

	id := parts[0]
	if id == "" || id[0] < 'a' || id[0] > 'z' || !isLowerAlnum(id) {
		return nil, &DecodeError{Name: name, Reason: fmt.Sprintf("invalid id %q", id)}
	}

	severity, err := ParseSeverity(parts[1])
	if err != nil {
		return nil, &DecodeError{Name: name, Reason: fmt.Sprintf("unknown severity %q", parts[1])}
	}

	words := parts[2:]
	for _, w := range words {
		if w == "" || !isSlugWord(w) {
			return nil, &DecodeError{Name: name, Reason: fmt.Sprintf("invalid slug segment %q", w)}
		}
	}

	return &Issue{
		ID:       id,
		Severity: severity,
		Slug:     strings.Join(words, SlugSeparator),
		Order:    order,
	}, nil
}

// IsLegacyFilename reports whether name decodes but uses the old
// hyphen-joined slug form, i.e. renaming it would change the filename.
func IsLegacyFilename(name string) bool {
	issue, err := DecodeFilename(name)
	if err != nil {
		return false
	}
	return issue.Filename() != name
}

// Slugify normalizes a title into a slug: lowercase ASCII letters and
// digits, every other run of characters collapsed into a single "_",
// no leading or trailing separator. Returns "" if nothing remains.
func Slugify(title string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteString(SlugSeparator)
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// TitleFromSlug turns a slug back into a display title by capitalizing
// each word. Both "_" and "-" separate words.
func TitleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '_' || r == '-'
	})
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isLowerAlnum(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}

func isSlugWord(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_') {
			return false
		}
	}
	return true
}
