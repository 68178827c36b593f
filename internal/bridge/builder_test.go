package bridge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildJobRequest_Defaults(t *testing.T) {
	t.Parallel()

	req := BuildJobRequest([]string{"https://example.com/a"}, "", "")

	require.Equal(t, DefaultJobType, req.Type)
	require.Equal(t, 1, req.Pages)
	require.Equal(t, []string{"https://example.com/a"}, req.URLs)
}

func TestBuildJobRequest_Pages(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"3":       3,
		" 7 ":     7,
		"12 page": 12,
		"abc":     1,
		"":        1,
		"0":       1,
		"-2":      1,
		"+4":      4,
		"1000000": 1000000,
	}
	for raw, want := range cases {
		req := BuildJobRequest([]string{"https://example.com"}, "category", raw)
		require.Equal(t, want, req.Pages, "pages %q", raw)
		require.Equal(t, "category", req.Type)
	}

	overflow := BuildJobRequest([]string{"https://example.com"}, "", "99999999999999999999999")
	require.Equal(t, 1, overflow.Pages)
}

func TestBuildJobRequest_ForwardsTypeVerbatim(t *testing.T) {
	t.Parallel()

	require.Equal(t, " category ", BuildJobRequest(nil, " category ", "").Type)
	require.Equal(t, " ", BuildJobRequest(nil, " ", "").Type)
	require.Equal(t, DefaultJobType, BuildJobRequest(nil, "", "").Type)
}

func TestBuildJobRequest_CopiesURLs(t *testing.T) {
	t.Parallel()

	urls := []string{"https://example.com/a", "https://example.com/a"}
	req := BuildJobRequest(urls, "product", "1")
	urls[0] = "mutated"

	require.Equal(t, []string{"https://example.com/a", "https://example.com/a"}, req.URLs)
}
