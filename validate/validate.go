package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/google/uuid"
)

var validate *validator.Validate

var translator ut.Translator

// phoneRx accepts PH mobile numbers in local (09XXXXXXXXX) or
// international (+639XXXXXXXXX) form.
var phoneRx = regexp.MustCompile(`^(09\d{9}|\+639\d{9})$`)

// gcashRefRx accepts GCash transaction references of exactly 13 digits.
var gcashRefRx = regexp.MustCompile(`^\d{13}$`)

func init() {

	validate = validator.New()

	translator, _ = ut.New(en.New(), en.New()).GetTranslator("en")
	en_translations.RegisterDefaultTranslations(validate, translator)

	// Field errors are keyed by json name so they line up with the form
	// fields they refer to.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	validate.RegisterValidation("phoneph", func(fl validator.FieldLevel) bool {
		return phoneRx.MatchString(fl.Field().String())
	})
	registerMessage("phoneph", "{0} must be a valid mobile number (09xxxxxxxxx or +639xxxxxxxxx)")

	validate.RegisterValidation("gcashref", func(fl validator.FieldLevel) bool {
		return gcashRefRx.MatchString(fl.Field().String())
	})
	registerMessage("gcashref", "{0} must be 13 digits")
}

func registerMessage(tag string, msg string) {
	validate.RegisterTranslation(tag, translator,
		func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		},
	)
}

func Check(val any) error {
	if err := validate.Struct(val); err != nil {

		verrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}

		if len(verrors) < 1 {
			return nil
		}

		return errors.New(verrors[0].Translate(translator))
	}

	return nil
}

// CheckFields validates val and returns one translated message per invalid
// field, keyed by struct field name, plus the field names in declaration
// order so callers can focus the first invalid one.
func CheckFields(val any) (map[string]string, []string) {
	err := validate.Struct(val)
	if err == nil {
		return nil, nil
	}

	verrors, ok := err.(validator.ValidationErrors)
	if !ok || len(verrors) < 1 {
		return map[string]string{"": err.Error()}, []string{""}
	}

	fields := make(map[string]string, len(verrors))
	order := make([]string, 0, len(verrors))
	for _, ve := range verrors {
		name := ve.Field()
		if _, ok := fields[name]; !ok {
			order = append(order, name)
		}
		fields[name] = ve.Translate(translator)
	}

	return fields, order
}

func GenerateID() string {
	return uuid.NewString()
}

func CheckID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("ID is not in its proper form")
	}
	return nil
}
