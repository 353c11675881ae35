package domain

import (
	"context"
	"strings"
)

// FieldType is the kind of input a registration form field renders.
type FieldType string

const (
	FieldTypeInput    FieldType = "input"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheck    FieldType = "check"
	FieldTypeSelect   FieldType = "select"
	// FieldTypeText renders static text and never receives a value.
	FieldTypeText FieldType = "text"
)

// MultiValue reports whether the field offers a list of options.
func (t FieldType) MultiValue() bool {
	return t == FieldTypeRadio || t == FieldTypeCheck || t == FieldTypeSelect
}

// Field is an additional, event specific registration form field.
// swagger:model Field
type Field struct {
	ID           int64     `json:"id"`
	EventID      int64     `json:"event_id"`
	Title        string    `json:"title"`
	Type         FieldType `json:"type"`
	Required     bool      `json:"required"`
	Settings     string    `json:"settings"`
	DefaultValue string    `json:"default_value"`
	Placeholder  string    `json:"placeholder"`
	Sort         int       `json:"sort"`
}

// FieldOption is one selectable option of a multi-value field.
type FieldOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Options parses Settings: one option per line, "label|value" or just "label".
func (f *Field) Options() []FieldOption {
	var opts []FieldOption
	for _, line := range strings.Split(strings.ReplaceAll(f.Settings, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		label, value, found := strings.Cut(line, "|")
		label = strings.TrimSpace(label)
		if !found {
			value = label
		}
		opts = append(opts, FieldOption{Label: label, Value: strings.TrimSpace(value)})
	}
	return opts
}

// FieldValue is the stored value of a registration field. Multi-value
// submissions are kept as a JSON array in Value.
type FieldValue struct {
	ID             int64  `json:"id"`
	RegistrationID int64  `json:"registration_id"`
	FieldID        int64  `json:"field_id"`
	Value          string `json:"value"`
	ValueType      string `json:"value_type"`
}

// Field value types.
const (
	FieldValueTypeString = "string"
	FieldValueTypeArray  = "array"
)

// FieldRepository defines read access to registration fields.
type FieldRepository interface {
	ListByEventID(ctx context.Context, eventID int64) ([]*Field, error)
}

// PrefilledField is a registration field with the value a form should show.
type PrefilledField struct {
	Field   *Field            `json:"field"`
	Value   string            `json:"value"`
	Options []PrefilledOption `json:"options"`
}

// PrefilledOption is a field option with its selection state.
type PrefilledOption struct {
	FieldOption
	Selected bool `json:"selected"`
}

// RegistrationForm is the registration form of an event.
type RegistrationForm struct {
	EventID int64             `json:"event_id"`
	Fields  []*PrefilledField `json:"fields"`
}

// FormService builds registration forms with prefilled values.
type FormService interface {
	// BuildForm returns the form of an event. submitted maps field id to a
	// previously submitted value (string or list of strings) and may be nil.
	BuildForm(ctx context.Context, eventID int64, submitted map[int64]any) (*RegistrationForm, error)
}
