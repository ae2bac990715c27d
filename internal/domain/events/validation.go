package events

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/gatherhub/server/internal/sanitize"
	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// EventInput is the create payload. Field limits follow the public API
// contract: short plain-text title and location, longer description.
type EventInput struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=1000"`
	StartDate   string `json:"startDate" validate:"required"`
	EndDate     string `json:"endDate" validate:"required"`
	Location    string `json:"location" validate:"required,max=200"`
	Visibility  string `json:"visibility" validate:"omitempty,oneof=public private"`
}

// UpdateInput is the partial update payload; nil fields stay unchanged.
type UpdateInput struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,min=1,max=1000"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Location    *string `json:"location" validate:"omitempty,min=1,max=200"`
	Visibility  *string `json:"visibility" validate:"omitempty,oneof=public private"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateCreateInput checks the payload, enforces endDate > startDate and
// returns sanitized create parameters. The caller assigns ULID and creator.
func ValidateCreateInput(input EventInput) (CreateParams, error) {
	if err := validate.Struct(input); err != nil {
		return CreateParams{}, asValidationError(err)
	}

	start, err := parseTimestamp("startDate", input.StartDate)
	if err != nil {
		return CreateParams{}, err
	}
	end, err := parseTimestamp("endDate", input.EndDate)
	if err != nil {
		return CreateParams{}, err
	}
	if !end.After(start) {
		return CreateParams{}, ValidationError{Field: "endDate", Message: "must be after startDate"}
	}

	visibility := VisibilityPublic
	if input.Visibility != "" {
		visibility = Visibility(input.Visibility)
	}

	return CreateParams{
		Title:       sanitize.Text(input.Title),
		Description: sanitize.HTML(input.Description),
		StartDate:   start,
		EndDate:     end,
		Location:    sanitize.Text(input.Location),
		Visibility:  visibility,
	}, nil
}

// ValidateUpdateInput checks a partial payload against the stored event.
// When only one date is supplied, the ordering invariant is re-checked
// against the stored counterpart.
func ValidateUpdateInput(input UpdateInput, current Event) (UpdateParams, error) {
	if err := validate.Struct(input); err != nil {
		return UpdateParams{}, asValidationError(err)
	}

	params := UpdateParams{}

	start := current.StartDate
	if input.StartDate != nil {
		parsed, err := parseTimestamp("startDate", *input.StartDate)
		if err != nil {
			return UpdateParams{}, err
		}
		start = parsed
		params.StartDate = &parsed
	}

	end := current.EndDate
	if input.EndDate != nil {
		parsed, err := parseTimestamp("endDate", *input.EndDate)
		if err != nil {
			return UpdateParams{}, err
		}
		end = parsed
		params.EndDate = &parsed
	}

	if !end.After(start) {
		return UpdateParams{}, ValidationError{Field: "endDate", Message: "must be after startDate"}
	}

	if input.Title != nil {
		title := sanitize.Text(*input.Title)
		params.Title = &title
	}
	if input.Description != nil {
		description := sanitize.HTML(*input.Description)
		params.Description = &description
	}
	if input.Location != nil {
		location := sanitize.Text(*input.Location)
		params.Location = &location
	}
	if input.Visibility != nil {
		visibility := Visibility(*input.Visibility)
		params.Visibility = &visibility
	}

	return params, nil
}

func parseTimestamp(field, value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, ValidationError{Field: field, Message: "must be an RFC 3339 timestamp"}
	}
	return parsed, nil
}

func asValidationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		first := fieldErrors[0]
		return ValidationError{Field: first.Field(), Message: validationMessage(first)}
	}
	return ValidationError{Message: err.Error()}
}

func validationMessage(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fieldError.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fieldError.Param())
	case "oneof":
		return "must be public or private"
	default:
		return "is invalid"
	}
}
