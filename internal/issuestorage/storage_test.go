package issuestorage

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input   string
		want    Severity
		wantErr bool
	}{
		{"crit", SeverityCrit, false},
		{"high", SeverityHigh, false},
		{"med", SeverityMed, false},
		{"low", SeverityLow, false},
		{"CRIT", 0, true}, // case-sensitive
		{"medium", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSeverity(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("ParseSeverity(%q) error = %v, want ErrInvalidInput", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSeverity(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSeverity(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSeverityJSON(t *testing.T) {
	data, err := json.Marshal(&Issue{ID: "abc", Severity: SeverityHigh, Slug: "x", Status: "ready"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"id":"abc","severity":"high","slug":"x","status":"ready","path":""}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var s Severity
	if err := json.Unmarshal([]byte(`"low"`), &s); err != nil || s != SeverityLow {
		t.Errorf("Unmarshal low = %v, %v", s, err)
	}
	if err := json.Unmarshal([]byte(`3`), &s); err == nil {
		t.Error("Unmarshal of a number should fail")
	}
}

func TestEncodeFilename(t *testing.T) {
	tests := []struct {
		order int
		id    string
		sev   Severity
		slug  string
		want  string
	}{
		{0, "x7k2m", SeverityHigh, "fix_login_bug", "x7k2m-high-fix_login_bug.md"},
		{3, "x7k2m", SeverityHigh, "fix_login_bug", "003-x7k2m-high-fix_login_bug.md"},
		{42, "abc", SeverityLow, "a", "042-abc-low-a.md"},
		{1234, "abc", SeverityCrit, "big", "1234-abc-crit-big.md"},
	}
	for _, tt := range tests {
		got := EncodeFilename(tt.order, tt.id, tt.sev, tt.slug)
		if got != tt.want {
			t.Errorf("EncodeFilename(%d, %q, %v, %q) = %q, want %q", tt.order, tt.id, tt.sev, tt.slug, got, tt.want)
		}
	}
}

func TestFilenameRoundTrip(t *testing.T) {
	ids := []string{"a", "x7k2m", "abc123def0"}
	slugs := []string{"x", "fix_login_bug", "v2_release_notes", "123_numbers_first"}
	orders := []int{0, 1, 9, 10, 99, 100, 999, 1000, 123456}

	for _, id := range ids {
		for _, sev := range Severities {
			for _, slug := range slugs {
				for _, order := range orders {
					name := EncodeFilename(order, id, sev, slug)
					got, err := DecodeFilename(name)
					if err != nil {
						t.Fatalf("DecodeFilename(%q) failed: %v", name, err)
					}
					want := &Issue{ID: id, Severity: sev, Slug: slug, Order: order}
					if diff := cmp.Diff(want, got); diff != "" {
						t.Errorf("round trip %q (-want +got):\n%s", name, diff)
					}
				}
			}
		}
	}
}

func TestDecodeFilename(t *testing.T) {
	tests := []struct {
		name string
		want *Issue
	}{
		{"x7k2m-high-fix_login_bug.md", &Issue{ID: "x7k2m", Severity: SeverityHigh, Slug: "fix_login_bug"}},
		{"003-x7k2m-high-fix_login_bug.md", &Issue{ID: "x7k2m", Severity: SeverityHigh, Slug: "fix_login_bug", Order: 3}},
		// legacy hyphen-joined slug
		{"x7k2m-low-fix-login-bug.md", &Issue{ID: "x7k2m", Severity: SeverityLow, Slug: "fix_login_bug"}},
		{"07-abc-med-mixed_style-slug.md", &Issue{ID: "abc", Severity: SeverityMed, Slug: "mixed_style_slug", Order: 7}},
	}
	for _, tt := range tests {
		got, err := DecodeFilename(tt.name)
		if err != nil {
			t.Fatalf("DecodeFilename(%q) failed: %v", tt.name, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("DecodeFilename(%q) (-want +got):\n%s", tt.name, diff)
		}
	}
}

func TestDecodeFilenameErrors(t *testing.T) {
	tests := []string{
		"x7k2m-high-fix_login_bug.txt",
		"x7k2m-high.md",
		"003-x7k2m-high.md",
		"x7k2m-urgent-slug.md",
		"X7K2M-high-slug.md",
		"7abc-high-slug.md",
		"x7k2m-high-Bad_Slug.md",
		"x7k2m-high--slug.md",
		"x7k2m-high-slug-.md",
		"-x7k2m-high-slug.md",
		".md",
	}
	for _, name := range tests {
		_, err := DecodeFilename(name)
		if err == nil {
			t.Errorf("DecodeFilename(%q) should fail", name)
			continue
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("DecodeFilename(%q) error should wrap ErrInvalidInput: %v", name, err)
		}
		var decErr *DecodeError
		if !errors.As(err, &decErr) {
			t.Errorf("DecodeFilename(%q) error should be *DecodeError, got %T", name, err)
		}
	}
}

func TestIsLegacyFilename(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"x7k2m-high-fix_login_bug.md", false},
		{"x7k2m-high-fix-login-bug.md", true},
		{"x7k2m-high-single.md", false},
		{"garbage.md", false},
	}
	for _, tt := range tests {
		if got := IsLegacyFilename(tt.name); got != tt.want {
			t.Errorf("IsLegacyFilename(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Fix Login Bug", "fix_login_bug"},
		{"  padded  ", "padded"},
		{"Symbols!! & more -- here", "symbols_more_here"},
		{"already_snake", "already_snake"},
		{"Unicode café", "unicode_caf"},
		{"v2.0 release", "v2_0_release"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTitleFromSlug(t *testing.T) {
	tests := []struct {
		slug string
		want string
	}{
		{"fix_login_bug", "Fix Login Bug"},
		{"fix-login-bug", "Fix Login Bug"},
		{"v2_release", "V2 Release"},
		{"123_go", "123 Go"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := TitleFromSlug(tt.slug); got != tt.want {
			t.Errorf("TitleFromSlug(%q) = %q, want %q", tt.slug, got, tt.want)
		}
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		input string
		want  Position
	}{
		{"top", Top()},
		{"TOP", Top()},
		{"bottom", Bottom()},
		{"above:abc", Above("abc")},
		{"below:x7k", Below("x7k")},
		{"1", At(1)},
		{"42", At(42)},
	}
	for _, tt := range tests {
		got, err := ParsePosition(tt.input)
		if err != nil {
			t.Fatalf("ParsePosition(%q) failed: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParsePosition(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestParsePositionErrors(t *testing.T) {
	for _, input := range []string{"", "middle", "0", "-3", "above:", "beside:abc", "1.5"} {
		_, err := ParsePosition(input)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParsePosition(%q) error = %v, want ErrInvalidInput", input, err)
		}
	}
}

func TestSortIssues(t *testing.T) {
	issues := []*Issue{
		{ID: "e", Severity: SeverityLow, Slug: "a"},
		{ID: "d", Severity: SeverityCrit, Slug: "z"},
		{ID: "c", Severity: SeverityMed, Slug: "b", Order: 2},
		{ID: "b", Severity: SeverityMed, Slug: "a", Order: 2},
		{ID: "a", Severity: SeverityMed, Slug: "m", Order: 1},
		{ID: "f", Severity: SeverityLow, Slug: "a"},
	}
	SortIssues(issues)

	var got []string
	for _, issue := range issues {
		got = append(got, issue.ID)
	}
	want := []string{"a", "b", "c", "d", "e", "f"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SortIssues mismatch (-want +got):\n%s", diff)
	}
}

func TestAmbiguousError(t *testing.T) {
	err := error(&AmbiguousError{Prefix: "ab", Matches: []string{"abc", "abd"}})
	if !errors.Is(err, ErrAmbiguous) {
		t.Error("AmbiguousError should wrap ErrAmbiguous")
	}
	if got, want := err.Error(), "ambiguous ID 'ab'. Matches: abc, abd"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
