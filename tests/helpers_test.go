package tests_test

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/containerd/nerdctl/mod/tigron/test"
	"github.com/containerd/nerdctl/mod/tigron/tig"
)

// expectContains returns a comparator verifying the output contains a substring.
func expectContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if !strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("expected substring %q not found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}

// expectNotContains returns a comparator verifying the output lacks a substring.
func expectNotContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("unexpected substring %q found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}

// expectScoreLine returns a comparator verifying a finding line for the given
// metric, i.e. "<metric>: <summary> - <score>/5".
func expectScoreLine(metric string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		label := metric + ":"

		for _, line := range strings.Split(stdout, "\n") {
			if strings.Contains(line, label) && strings.Contains(line, "/5") {
				return
			}
		}

		testing.Log(fmt.Sprintf("expected score line for %q not found in output:\n%s", metric, stdout))
		testing.Fail()
	}
}

// expectValidJSON returns a comparator verifying the output parses as JSON.
func expectValidJSON() test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		var parsed any
		if err := json.Unmarshal([]byte(stdout), &parsed); err != nil {
			testing.Log(fmt.Sprintf("output is not valid JSON (%v):\n%s", err, stdout))
			testing.Fail()
		}
	}
}
