package user

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// usernameUnsafe are characters that would split or terminate a profile path segment
const usernameUnsafe = "/;,?#%\\"

// newValidator returns a validator with the directory's custom rules registered
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("username", validUsername); err != nil {
		panic(err)
	}
	return v
}

// validUsername accepts names that survive a round trip through a profile URL
func validUsername(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if strings.ContainsAny(name, usernameUnsafe) {
		return false
	}
	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return name != "." && name != ".."
}

// validationMessage turns validator errors into a single client-facing message
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
