// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError is a user-facing failure: the operation plugstack was
	// performing, the resource involved, the cause, hints for the user and,
	// optionally, the catalog issue holding long-form guidance.
	//
	//	return issue.NewErrorContext().
	//		WithOperation("prepare plugin directory").
	//		WithResource(dir).
	//		WithIssue(issue.PluginDirUnavailableId).
	//		WithSuggestion("Pass --home to use another directory").
	//		Wrap(err).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase ("resolve resource", "load configuration").
		Operation string
		// Resource is the path, artifact id or resource name involved (optional).
		Resource string
		// Suggestions are one-line hints printed under the message.
		Suggestions []string
		// Cause is the wrapped error.
		Cause error
		// Issue links a catalog entry. Zero means none.
		Issue Id
	}

	// ErrorContext accumulates the fields of an ActionableError.
	ErrorContext struct {
		ae ActionableError
	}
)

// NewErrorContext returns an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// WithOperation sets the operation. It is required by BuildError.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.ae.Operation = op
	return c
}

// WithResource sets the resource involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.ae.Resource = res
	return c
}

// WithSuggestion appends a hint.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.ae.Suggestions = append(c.ae.Suggestions, sug)
	return c
}

// WithIssue links the error to a catalog issue rendered by the CLI.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.ae.Issue = id
	return c
}

// Wrap sets the cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.ae.Cause = err
	return c
}

// BuildError returns the accumulated error, or nil when no operation was set.
// The builder may be reused; later changes do not affect returned errors.
func (c *ErrorContext) BuildError() error {
	if c.ae.Operation == "" {
		return nil
	}
	ae := c.ae
	ae.Suggestions = append([]string(nil), c.ae.Suggestions...)
	return &ae
}

// Error returns "failed to <operation>[: <resource>][: <cause>]". The
// resource is left out when the cause message already names it, as wrapped
// scan and setup errors do.
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	cause := ""
	if e.Cause != nil {
		cause = e.Cause.Error()
	}
	if e.Resource != "" && !strings.Contains(cause, e.Resource) {
		parts = append(parts, e.Resource)
	}
	if cause != "" {
		parts = append(parts, cause)
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the cause for errors.Is and errors.As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// HasSuggestions reports whether the error carries hints.
func (e *ActionableError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// CatalogIssue returns the linked catalog issue, if any.
func (e *ActionableError) CatalogIssue() (*Issue, bool) {
	if e.Issue == 0 {
		return nil, false
	}
	i := Get(e.Issue)
	return i, i != nil
}

// Format renders the message followed by its hints. Verbose output adds the
// unwrapped cause chain; otherwise a linked issue adds a pointer to
// --verbose, which renders the catalog guidance.
func (e *ActionableError) Format(verbose bool) string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	for _, s := range e.Suggestions {
		sb.WriteString("\n  hint: ")
		sb.WriteString(s)
	}

	if !verbose {
		if _, ok := e.CatalogIssue(); ok {
			sb.WriteString("\n  run with --verbose for troubleshooting steps")
		}
		return sb.String()
	}

	if e.Cause != nil {
		sb.WriteString("\n\ncaused by:")
		for depth, err := 1, e.Cause; err != nil; depth, err = depth+1, errors.Unwrap(err) {
			fmt.Fprintf(&sb, "\n  %d. %s", depth, err)
		}
	}
	return sb.String()
}
