package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shandysiswandi/gocharity/internal/pkg/strcase"
)

var rePhone = regexp.MustCompile(`^09\d{9}$`)

// maxPasswordBytes is the bcrypt input limit. The lower bound is a configurable
// account policy and is checked by the account usecase.
const maxPasswordBytes = 72

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// V10Validator implements Validator using go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// V10ValidationError maps a field name to its translated message. Field names
// come from the json or form tag, falling back to snake_case.
type V10ValidationError map[string]string

func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(vs)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

// Values returns the field error map.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// NewV10Validator constructs a V10Validator with English translations and custom rules.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(fieldName)

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	if err := registerCustom(validate, enTrans); err != nil {
		return nil, err
	}

	return &V10Validator{
		validate:   validate,
		translator: enTrans,
	}, nil
}

// Validate validates a struct and returns a V10ValidationError on failure.
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) {
		return err
	}

	errV10 := make(V10ValidationError, len(validateErrs))
	for _, fe := range validateErrs {
		errV10[fe.Field()] = fe.Translate(v.translator)
	}
	return errV10
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return strcase.ToLowerSnake(fld.Name)
}

// IsPhone reports whether s is a mobile number in the 09xxxxxxxxx form.
func IsPhone(s string) bool {
	return rePhone.MatchString(s)
}

// IsNationalCode reports whether s is a ten digit national code with a valid
// check digit.
func IsNationalCode(s string) bool {
	if len(s) != 10 {
		return false
	}

	same := true
	sum := 0
	for i := range 10 {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		if c != s[0] {
			same = false
		}
		if i < 9 {
			sum += int(c-'0') * (10 - i)
		}
	}
	if same {
		return false
	}

	check := int(s[9] - '0')
	r := sum % 11
	if r < 2 {
		return check == r
	}
	return check == 11-r
}

func isPersonName(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.Is(unicode.Mn, r):
		case r == ' ', r == '-', r == '\'', r == '\u200c':
		default:
			return false
		}
	}
	return true
}

func stringRule(fn func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && fn(s)
	}
}

func registerCustom(validate *validator.Validate, enTrans ut.Translator) error {
	rules := []struct {
		tag  string
		fn   validator.Func
		text string
	}{
		{"password", stringRule(func(s string) bool { return s != "" && len(s) <= maxPasswordBytes }), "{0} must be at most 72 bytes"},
		{"phone", stringRule(IsPhone), "{0} must be a mobile number like 09123456789"},
		{"personname", stringRule(isPersonName), "{0} can contain only letters and spaces"},
		{"nationalcode", stringRule(IsNationalCode), "{0} must be a valid 10 digit national code"},
	}

	for _, rule := range rules {
		if err := validate.RegisterValidation(rule.tag, rule.fn); err != nil {
			return err
		}

		text := rule.text
		err := validate.RegisterTranslation(rule.tag, enTrans,
			func(tr ut.Translator) error {
				return tr.Add(rule.tag, text, false)
			},
			func(tr ut.Translator, fe validator.FieldError) string {
				t, err := tr.T(fe.Tag(), fe.Field())
				if err != nil {
					slog.Warn("failed to translate validation error", "tag", fe.Tag(), "err", err)
					return fe.Error()
				}
				return t
			},
		)
		if err != nil {
			return err
		}
	}

	return nil
}
