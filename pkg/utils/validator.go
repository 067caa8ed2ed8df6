package utils

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	validator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"fixengine/pkg/logs"
)

var (
	validate = validator.New()
	trans    ut.Translator
)

func init() {
	english := en.New()
	trans, _ = ut.New(english, english).GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(err)
	}
}

// UnmarshalAndValidate binds the JSON body of POST requests, or the query
// string otherwise, into data and validates it.
func UnmarshalAndValidate[T any](r *gin.Context, data *T) (err error) {
	if r.Request.Method == "POST" {
		err = r.ShouldBindBodyWith(data, binding.JSON)
	} else {
		err = r.ShouldBindQuery(data)
	}

	if err != nil {
		logs.Log.Error().Err(err).Msg("")
		return
	}

	if err = validate.Struct(*data); err != nil {
		logs.Log.Error().Err(err).Msg("")
		return
	}

	return
}

// Translate renders validation errors as English sentences. Other errors
// keep their own text.
func Translate(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Translate(trans))
	}
	return strings.Join(msgs, "; ")
}
