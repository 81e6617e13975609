// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/danielhkuo/daily-poll/models"
	"github.com/danielhkuo/daily-poll/voting"
)

// ValidationError carries translated messages for each failing field
type ValidationError struct {
	Fields   []string
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Validator checks request structs and translates failures to English
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func NewValidator() *Validator {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	// Report JSON names rather than Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("polldate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(voting.DateLayout, fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := voting.ParseClock(fl.Field().String())
		return err == nil
	})
	registerMessage(validate, trans, "polldate", "{0} must be a date in YYYY-MM-DD format")
	registerMessage(validate, trans, "clock", "{0} must be a time in HH:MM format")

	return &Validator{validate: validate, trans: trans}
}

func registerMessage(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field())
			return msg
		},
	)
}

// Struct validates v and returns a *ValidationError on failure
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, fe.Field())
		out.Messages = append(out.Messages, fe.Translate(v.trans))
	}
	return out
}

// Normalizer is implemented by request types that clean their fields
// (trimming, case folding) before validation.
type Normalizer interface {
	Normalize()
}

// DecodeAndValidate parses a JSON body into v, normalizes it when it
// implements Normalizer, and validates it. On failure it writes a 400
// response and returns false.
func (v *Validator) DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := ParseJSONBody(r, dst); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}

	if n, ok := dst.(Normalizer); ok {
		n.Normalize()
	}

	if err := v.Struct(dst); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			ErrorBody(w, http.StatusBadRequest, models.ErrorResponse{Error: verr.Error(), Fields: verr.Fields})
			return false
		}
		ErrorResponse(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
