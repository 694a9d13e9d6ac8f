package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "messenger/pkg/errors"
)

var memberIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("member_id", func(fl validator.FieldLevel) bool {
		return memberIDPattern.MatchString(fl.Field().String())
	})
	return v
}

// validateStruct переводит ошибки валидатора в ErrInvalidArgument
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%s: %w", err.Error(), apperrors.ErrInvalidArgument)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%s: %w", strings.Join(fields, ", "), apperrors.ErrInvalidArgument)
}
