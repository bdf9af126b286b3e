package scheduling

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Patient entity. FullName, Phone and Email are PHI and are encrypted at
// rest by the persistence layer; agents see only the ExternalRef token.
type Patient struct {
	ID              string    `validate:"required,uuid4"`
	WorkspaceID     string    `validate:"required,uuid4"`
	ExternalRef     string    `validate:"required,min=1,max=64"`
	FullName        string    `validate:"required,min=1,max=255"`
	Phone           string    `validate:"omitempty,max=32"`
	Email           string    `validate:"omitempty,email"`
	PreferredLang   string    `validate:"omitempty,len=2"`
	DateTimeCreated time.Time `validate:"required"`
}

// Validate for validating Patient struct
func (p *Patient) Validate() error {
	validate := validator.New()

	err := validate.Struct(p)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}
