package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	playground "github.com/go-playground/validator/v10"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^[0-9]{10}$`)
)

var (
	once     sync.Once
	validate *playground.Validate
)

// Violation is a single failed rule, keyed by the json name of the field.
type Violation struct {
	Field   string
	Message string
}

func instance() *playground.Validate {
	once.Do(func() {
		validate = playground.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Struct checks `validate` tags on s. A nil slice means s is valid.
func Struct(s interface{}) ([]Violation, error) {
	err := instance().Struct(s)
	if err == nil {
		return nil, nil
	}

	var invalid *playground.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil, fmt.Errorf("validate struct: %w", err)
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}

	violations := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, Violation{
			Field:   fieldPath(fe.Namespace()),
			Message: describe(fe),
		})
	}

	return violations, nil
}

// fieldPath drops the root struct name and embedded struct names, which
// keep their Go spelling, from a validator namespace.
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	kept := make([]string, 0, len(parts))
	for i, part := range parts {
		if i == 0 || part == "" || unicode.IsUpper(rune(part[0])) {
			continue
		}
		kept = append(kept, part)
	}
	if len(kept) == 0 {
		return namespace
	}
	return strings.Join(kept, ".")
}

func describe(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "numeric":
		return "must contain digits only"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "datetime":
		return "must be a date in " + fe.Param() + " format"
	default:
		return "is invalid"
	}
}

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func ValidatePhone(phone string) bool {
	return phoneRegex.MatchString(FormatPhone(phone))
}

func ValidatePassword(password string) bool {
	return len(password) >= 6
}

func ValidateName(name string) bool {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return false
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && r != '-' && r != ' ' && r != '\'' && r != '.' {
			return false
		}
	}

	return true
}

// FormatPhone keeps digits only.
func FormatPhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}

func FormatName(name string) string {
	parts := strings.Fields(name)
	for i, part := range parts {
		subparts := strings.Split(part, "-")
		for j, subpart := range subparts {
			if len(subpart) > 0 {
				subparts[j] = strings.ToUpper(subpart[:1]) + strings.ToLower(subpart[1:])
			}
		}
		parts[i] = strings.Join(subparts, "-")
	}

	return strings.Join(parts, " ")
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
