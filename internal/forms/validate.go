package forms

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"sisera-crm/internal/domain"

	"github.com/go-playground/validator/v10"
)

// GeneralKey holds a message that belongs to the form as a whole.
const GeneralKey = "general"

// Messages shown after a submit attempt.
const (
	MsgRegistered   = "Gelukt! Uw gegevens zijn succesvol geregistreerd."
	MsgGeneralError = "Er is een fout opgetreden. Probeer het later opnieuw."
	MsgSaveError    = "Er is een fout opgetreden bij het opslaan van de klant."
)

var requiredMessages = map[string]string{
	"firstName":   "Voornaam is verplicht",
	"lastName":    "Achternaam is verplicht",
	"email":       "E-mail is verplicht",
	"phone":       "Telefoonnummer is verplicht",
	"address":     "Adres is verplicht",
	"birthDate":   "Geboortedatum is verplicht",
	"store":       "Winkel selectie is verplicht",
	"acceptTerms": "U moet akkoord gaan met de algemene voorwaarden",
}

var tagMessages = map[string]string{
	"looseemail": "E-mail adres is ongeldig",
	"isodate":    "Geboortedatum is ongeldig",
	"shop":       "Winkel selectie is ongeldig",
}

// emailPattern accepts anything@anything.anything.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// FieldErrors maps a form field (by its JSON name) to its message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return strings.Join(parts, "; ")
}

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the shared validator with the form rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		mustRegister(v, "looseemail", func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
		mustRegister(v, "isodate", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(time.DateOnly, fl.Field().String())
			return err == nil
		})
		mustRegister(v, "shop", func(fl validator.FieldLevel) bool {
			return domain.Shop(fl.Field().String()).Valid()
		})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Validate checks form and returns FieldErrors when any rule fails.
func Validate(form any) error {
	err := Validator().Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = message(field, fe.Tag())
	}
	return out
}

func message(field, tag string) string {
	// "a|b" rules report the whole alternation; the first rule names it.
	tag, _, _ = strings.Cut(tag, "|")
	switch tag {
	case "required", "notblank":
		if msg, ok := requiredMessages[field]; ok {
			return msg
		}
		return field + " is verplicht"
	}
	if msg, ok := tagMessages[tag]; ok {
		return msg
	}
	return field + " is ongeldig"
}
