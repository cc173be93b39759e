package types

import (
	"fmt"
	"strings"
)

// Workflow selects the framework family a job expects and the package manager it drives
type Workflow string

const (
	WorkflowWordPress Workflow = "wordpress"
	WorkflowDrupal    Workflow = "drupal"
)

var workflowFrameworks = map[Workflow][]string{
	WorkflowWordPress: {"wordpress", "wordpress_network"},
	WorkflowDrupal:    {"drupal", "drupal8"},
}

// ParseWorkflow validates a workflow name
func ParseWorkflow(s string) (Workflow, error) {
	w := Workflow(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := workflowFrameworks[w]; !ok {
		return "", fmt.Errorf("unknown workflow %q", s)
	}
	return w, nil
}

// Frameworks lists the platform framework identifiers the workflow handles
func (w Workflow) Frameworks() []string {
	return workflowFrameworks[w]
}

// Accepts reports whether a site framework belongs to the workflow's family
func (w Workflow) Accepts(framework string) bool {
	for _, f := range workflowFrameworks[w] {
		if f == framework {
			return true
		}
	}
	return false
}

// WorkflowFor infers the workflow from a site framework
func WorkflowFor(framework string) (Workflow, bool) {
	for w := range workflowFrameworks {
		if w.Accepts(framework) {
			return w, true
		}
	}
	return "", false
}
