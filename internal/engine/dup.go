package engine

import "io"

// DetectDuplicateKeys walks an entire token stream and reports duplicate
// object keys. It is driver-agnostic: any TokenSource works, so the same
// detector serves JSON and YAML inputs.
//
// With DupIgnore nothing is reported. maxIssues < 0 means unlimited,
// 0 disables collection, > 0 caps it and appends a trailing "truncated"
// marker once the cap is reached. With DupError the walk stops at the
// first duplicate.
func DetectDuplicateKeys(src TokenSource, onDup DuplicateStrictness, maxIssues int) ([]SimpleIssue, error) {
	if onDup == DupIgnore {
		return nil, nil
	}

	var issues []SimpleIssue
	truncated := false
	sink := func(si SimpleIssue) {
		if maxIssues == 0 || truncated {
			return
		}
		issues = append(issues, si)
		if maxIssues > 0 && len(issues) >= maxIssues {
			issues = append(issues, SimpleIssue{Code: "truncated", Path: "", Message: "max issues reached"})
			truncated = true
		}
	}

	wrapped := WrapWithEnforcement(src, EnforceOptions{OnDuplicate: onDup, IssueSink: sink})
	for {
		_, err := wrapped.NextToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			// The wrapper sinks its own issue before failing.
			if _, ok := err.(IssueError); !ok {
				sink(SimpleIssue{Code: "parse_error", Path: "", Message: err.Error()})
			}
			break
		}
		if truncated {
			break
		}
	}
	return issues, nil
}
