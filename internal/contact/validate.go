package contact

import (
	"regexp"
	"strings"
)

// Field names a contact form input. The values match the form's input names.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldSubject Field = "subject"
	FieldMessage Field = "message"
)

// FormFields lists the inputs in the order they appear on the form.
var FormFields = []Field{FieldName, FieldEmail, FieldSubject, FieldMessage}

// ParseField maps an input name to a Field.
func ParseField(name string) (Field, bool) {
	for _, f := range FormFields {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// Fields holds what the visitor has typed.
type Fields struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Get returns the value of one field.
func (f Fields) Get(field Field) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldEmail:
		return f.Email
	case FieldSubject:
		return f.Subject
	case FieldMessage:
		return f.Message
	}
	return ""
}

func (f *Fields) set(field Field, value string) bool {
	switch field {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldSubject:
		f.Subject = value
	case FieldMessage:
		f.Message = value
	default:
		return false
	}
	return true
}

// Errors maps a failing field to the message shown under it. A field is present
// only while its content is considered invalid.
type Errors map[Field]string

// Has reports whether field currently carries an error.
func (e Errors) Has(field Field) bool {
	_, ok := e[field]
	return ok
}

const (
	msgNameRequired    = "Name is required"
	msgEmailRequired   = "Email is required"
	msgEmailInvalid    = "Email is invalid"
	msgSubjectRequired = "Subject is required"
	msgMessageRequired = "Message is required"
)

// emailPattern only asks for something@something.something somewhere in the value.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Validate checks every field and returns the failures. An empty result means
// the form may be sent.
func Validate(f Fields) Errors {
	errs := Errors{}

	if strings.TrimSpace(f.Name) == "" {
		errs[FieldName] = msgNameRequired
	}

	switch {
	case strings.TrimSpace(f.Email) == "":
		errs[FieldEmail] = msgEmailRequired
	case !emailPattern.MatchString(f.Email):
		errs[FieldEmail] = msgEmailInvalid
	}

	if strings.TrimSpace(f.Subject) == "" {
		errs[FieldSubject] = msgSubjectRequired
	}
	if strings.TrimSpace(f.Message) == "" {
		errs[FieldMessage] = msgMessageRequired
	}
	return errs
}
