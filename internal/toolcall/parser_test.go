package toolcall

import (
	"strings"
	"testing"
)

const fetchResponse = `Let me check.<function_calls><invoke name="fetch-url"><parameter name="url">example.com</parameter></invoke></function_calls>`

func TestHasToolCalls(t *testing.T) {
	testCases := []struct {
		desc  string
		input string
		want  bool
	}{
		{
			desc:  "plain text",
			input: "Here is your answer.",
			want:  false,
		},
		{
			desc:  "complete block",
			input: fetchResponse,
			want:  true,
		},
		{
			desc:  "lone opening marker",
			input: "Thinking...<function_calls>",
			want:  true,
		},
		{
			desc:  "lone closing marker",
			input: "stray </function_calls> here",
			want:  false,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			got := HasToolCalls(tC.input)
			if got != tC.want {
				t.Errorf("HasToolCalls(%q) = %v, want %v", tC.input, got, tC.want)
			}
		})
	}
}

func TestHasIncompleteToolCalls(t *testing.T) {
	testCases := []struct {
		desc  string
		input string
		want  bool
	}{
		{
			desc:  "fully closed block",
			input: fetchResponse,
			want:  false,
		},
		{
			desc:  "open block no close",
			input: `Let me check.<function_calls><invoke name="fetch-url">`,
			want:  true,
		},
		{
			desc:  "open invoke no close",
			input: `<function_calls><invoke name="x"><parameter name="a">b</parameter></function_calls>`,
			want:  true,
		},
		{
			desc:  "no tool markup at all",
			input: "nothing to see",
			want:  false,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			got := HasIncompleteToolCalls(tC.input)
			if got != tC.want {
				t.Errorf("HasIncompleteToolCalls() = %v, want %v", got, tC.want)
			}
		})
	}
}

func TestParseSingleCall(t *testing.T) {
	calls := Parse(fetchResponse)
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %v", len(calls))
	}
	if calls[0].Name != "fetch-url" {
		t.Errorf("expected name fetch-url, got %v", calls[0].Name)
	}
	if got := calls[0].Parameters["url"]; got != "example.com" {
		t.Errorf("expected url example.com, got %v", got)
	}
	if !strings.HasPrefix(calls[0].RawXML, "<function_calls>") {
		t.Errorf("expected RawXML to hold the matched block, got: %v", calls[0].RawXML)
	}
}

func TestParseMultipleBlocksAndInvokes(t *testing.T) {
	input := `<function_calls>
<invoke name="fetch-url"><parameter name="url">a.com</parameter></invoke>
<invoke name="web-search"><parameter name="query">
multi
line
</parameter></invoke>
</function_calls>
some prose
<function_calls><invoke name="view"><parameter name="file_path">/etc/hosts</parameter></invoke></function_calls>`
	calls := Parse(input)
	if len(calls) != 3 {
		t.Fatalf("expected 3 calls, got %v", len(calls))
	}
	wantOrder := []string{"fetch-url", "web-search", "view"}
	for i, want := range wantOrder {
		if calls[i].Name != want {
			t.Errorf("call %v: expected %v, got %v", i, want, calls[i].Name)
		}
	}
	if got := calls[1].Parameters["query"]; got != "multi\nline" {
		t.Errorf("expected multiline param to be trimmed only at the edges, got %q", got)
	}
}

func TestParseUnmatchedNestingYieldsNothing(t *testing.T) {
	input := `</invoke> <function_calls>no invokes here</function_calls>`
	if calls := Parse(input); len(calls) != 0 {
		t.Errorf("expected no calls, got %v", calls)
	}
}

func TestClean(t *testing.T) {
	testCases := []struct {
		desc  string
		input string
		want  string
	}{
		{
			desc:  "complete block removed",
			input: fetchResponse,
			want:  "Let me check.",
		},
		{
			desc:  "function results echo removed",
			input: "before <function_results>\n<result name=\"x\">\nout\n</result>\n</function_results> after",
			want:  "before  after",
		},
		{
			desc:  "partial block removed to end",
			input: "I will now<function_calls><invoke name=\"fetch-url\">",
			want:  "I will now",
		},
		{
			desc:  "partial invoke removed to end",
			input: "hold on <invoke name=\"x\"><parameter",
			want:  "hold on",
		},
		{
			desc:  "stray close markers removed",
			input: "weird </invoke> text </function_calls> here",
			want:  "weird  text  here",
		},
		{
			desc:  "excess newlines squashed",
			input: "a\n\n\n\n\nb",
			want:  "a\n\nb",
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			got := Clean(tC.input)
			if got != tC.want {
				t.Errorf("Clean() = %q, want %q", got, tC.want)
			}
			for _, marker := range []string{"<function_calls>", "</function_calls>", "<invoke", "</invoke>", "<parameter", "</parameter>", "<function_results>", "</function_results>"} {
				if strings.Contains(got, marker) {
					t.Errorf("cleaned output still contains marker %v: %q", marker, got)
				}
			}
			if again := Clean(got); again != got {
				t.Errorf("Clean is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestTextBefore(t *testing.T) {
	if got := TextBefore(fetchResponse); got != "Let me check." {
		t.Errorf("TextBefore() = %q, want %q", got, "Let me check.")
	}
	if got := TextBefore("no markup at all "); got != "no markup at all" {
		t.Errorf("TextBefore() = %q, want trimmed input", got)
	}
}
