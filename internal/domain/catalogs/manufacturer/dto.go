package manufacturer

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"ibeer/internal/core/apperror"
)

// DTO is the caller-supplied desired state of a manufacturer.
// ID is set only for updates; Active and Version are optional.
type DTO struct {
	ID          *int64 `json:"id,omitempty"`
	Name        string `json:"name" validate:"required,max=255"`
	Nationality string `json:"nationality" validate:"max=255"`
	Active      *bool  `json:"active,omitempty"`

	// Version, when set, must match the stored version on update.
	Version *int `json:"version,omitempty" validate:"omitempty,min=1"`
}

// Response is the caller-facing projection of a Manufacturer.
type Response struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Nationality string    `json:"nationality"`
	Active      bool      `json:"active"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json field names in error details.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Normalize trims surrounding whitespace from text fields.
func (d DTO) Normalize() DTO {
	d.Name = strings.TrimSpace(d.Name)
	d.Nationality = strings.TrimSpace(d.Nationality)
	return d
}

// Validate checks the DTO shape. It does not touch storage.
func (d DTO) Validate(ctx context.Context) error {
	err := validate.StructCtx(ctx, d)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperror.NewValidation(fe.Field()+" is invalid").
			WithDetail("field", fe.Field()).
			WithDetail("rule", fe.Tag())
	}
	return apperror.NewValidation(err.Error())
}
