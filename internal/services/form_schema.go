package services

import (
	"fmt"
	"strings"
)

const (
	FieldTypeText        = "text"
	FieldTypeTextarea    = "textarea"
	FieldTypeSelect      = "select"
	FieldTypeMultiselect = "multiselect"
)

const (
	maxTextLength     = 200
	maxTextareaLength = 5000
)

// FieldDescriptor is one entry of the externally supplied form schema.
type FieldDescriptor struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

// FormSchema is the ordered field list consumed for required-field validation
// at submit time. The persistence layer itself does not constrain field names.
type FormSchema struct {
	Fields []FieldDescriptor
}

// DefaultFormSchema mirrors the spotlight form the tool ships with.
func DefaultFormSchema() FormSchema {
	return FormSchema{Fields: []FieldDescriptor{
		{Name: "title", Label: "Spotlight Title", Type: FieldTypeText, Required: true},
		{Name: "description", Label: "Description", Type: FieldTypeTextarea, Required: true},
		{Name: "key_achievements", Label: "Key Achievements", Type: FieldTypeTextarea, Required: true},
		{Name: "impact", Label: "Impact & Results", Type: FieldTypeTextarea, Required: true},
		{Name: "category", Label: "Category", Type: FieldTypeSelect, Required: true, Options: []string{
			"Innovation",
			"Process Improvement",
			"Customer Success",
			"Team Achievement",
			"Technology Advancement",
			"Business Growth",
			"Other",
		}},
		{Name: "tags", Label: "Tags", Type: FieldTypeMultiselect, Required: false},
		{Name: "team_members", Label: "Team Members", Type: FieldTypeText, Required: false},
	}}
}

func (schema FormSchema) Descriptor(name string) (FieldDescriptor, bool) {
	for _, field := range schema.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldDescriptor{}, false
}

// Validate checks the given field values against the schema and returns a
// ValidationError listing every problem, or nil when the form is acceptable.
func (schema FormSchema) Validate(fields map[string]string) error {
	problems := make([]string, 0)

	for _, descriptor := range schema.Fields {
		value := strings.TrimSpace(fields[descriptor.Name])

		if value == "" {
			if descriptor.Required {
				problems = append(problems, fmt.Sprintf("%s is required", descriptor.Label))
			}
			continue
		}

		switch descriptor.Type {
		case FieldTypeText:
			if len(value) > maxTextLength {
				problems = append(problems, fmt.Sprintf("%s must not exceed %d characters", descriptor.Label, maxTextLength))
			}
		case FieldTypeTextarea:
			if len(value) > maxTextareaLength {
				problems = append(problems, fmt.Sprintf("%s must not exceed %d characters", descriptor.Label, maxTextareaLength))
			}
		case FieldTypeSelect:
			if len(descriptor.Options) > 0 && !containsOption(descriptor.Options, value) {
				problems = append(problems, fmt.Sprintf("%s must be one of the available options", descriptor.Label))
			}
		case FieldTypeMultiselect:
			// Multiselect values are stored comma separated; each entry must be
			// a known option when the descriptor constrains them.
			if len(descriptor.Options) > 0 {
				for _, entry := range strings.Split(value, ",") {
					if trimmed := strings.TrimSpace(entry); trimmed != "" && !containsOption(descriptor.Options, trimmed) {
						problems = append(problems, fmt.Sprintf("%s contains an unknown option %q", descriptor.Label, trimmed))
					}
				}
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func containsOption(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}
