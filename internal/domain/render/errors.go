package render

import "fmt"

// MalformedTemplateError reports a template without the header, heading
// or data regions the layout needs. It is a deployment defect.
type MalformedTemplateError struct {
	Template string
	Reason   string
}

func (e *MalformedTemplateError) Error() string {
	return fmt.Sprintf("rendering: template %q: %s", e.Template, e.Reason)
}
