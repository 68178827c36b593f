package bridge

import "strings"

// BuildJobRequest assembles the submission document from decoded URLs and the
// raw form fields. An empty type becomes DefaultJobType and any other value
// is forwarded unchanged. Pages is parsed from its leading integer and falls
// back to DefaultPageCount when missing, unparseable, or below one. No upper
// bound is applied.
func BuildJobRequest(urls []string, jobType, pages string) JobRequest {
	if jobType == "" {
		jobType = DefaultJobType
	}
	count, ok := parseLeadingInt(pages)
	if !ok || count < 1 {
		count = DefaultPageCount
	}
	return JobRequest{
		Type:  jobType,
		URLs:  append([]string(nil), urls...),
		Pages: count,
	}
}

// parseLeadingInt reads an optionally signed run of digits at the start of s,
// ignoring surrounding whitespace, so "3", " 3 " and "3 pages" all yield 3.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	const limit = int(^uint(0) >> 1)
	n, digits := 0, 0
	for ; digits < len(s) && s[digits] >= '0' && s[digits] <= '9'; digits++ {
		d := int(s[digits] - '0')
		if n > (limit-d)/10 {
			return 0, false
		}
		n = n*10 + d
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
