// Package validation wraps go-playground/validator with the cooperative's
// field rules and English messages keyed by JSON field names.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/GregMSThompson/coop-backend/internal/errs"
)

var (
	contactNumTag   = "contactnum"
	contactNumText  = "{0} must be exactly 11 digits"
	contactNumRegex = regexp.MustCompile(`^\d{11}$`)

	emailTag   = "coopemail"
	emailText  = "{0} must be a valid email address"
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	orientationTag   = "orientationcode"
	orientationText  = "{0} must be 4 to 12 letters or digits"
	orientationRegex = regexp.MustCompile(`^[A-Za-z0-9]{4,12}$`)

	requiredTag  = "required"
	requiredText = "{0} is required"
)

type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func New() *Validator {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New(validator.WithRequiredStructEnabled())
	_ = en_translations.RegisterDefaultTranslations(validate, trans)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v := &Validator{validate: validate, trans: trans}
	v.register(contactNumTag, contactNumText, func(fl validator.FieldLevel) bool {
		return IsContactNumber(fl.Field().String())
	})
	v.register(emailTag, emailText, func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})
	v.register(orientationTag, orientationText, func(fl validator.FieldLevel) bool {
		return orientationRegex.MatchString(fl.Field().String())
	})
	v.translate(requiredTag, requiredText)
	return v
}

func (v *Validator) register(tag, text string, fn validator.Func) {
	_ = v.validate.RegisterValidation(tag, fn)
	v.translate(tag, text)
}

func (v *Validator) translate(tag, text string) {
	_ = v.validate.RegisterTranslation(
		tag, v.trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Struct validates s and returns a *errs.ValidationError listing every
// failing field.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errs.NewValidationError(err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(v.trans))
	}
	return errs.NewValidationError(strings.Join(msgs, "; "))
}

func IsContactNumber(s string) bool {
	return contactNumRegex.MatchString(s)
}

func IsEmail(s string) bool {
	return emailRegex.MatchString(s)
}
