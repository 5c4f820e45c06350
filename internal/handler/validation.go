package handler

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/fairway-league/golfer/backend/internal/utils"
)

// registerGolfValidations 注册 golfdate (YYYY-MM-DD) 和 teetime (HH:MM) 两个标签及其中文提示
func registerGolfValidations(validate *validator.Validate, trans ut.Translator) error {
	tags := []struct {
		tag   string
		check func(string) error
		text  string
	}{
		{"golfdate", utils.ValidateGolfDate, "{0}必须是 YYYY-MM-DD 格式的日期"},
		{"teetime", utils.ValidateTeeTime, "{0}必须是 HH:MM 格式的时间"},
	}

	for _, t := range tags {
		check := t.check
		if err := validate.RegisterValidation(t.tag, func(fl validator.FieldLevel) bool {
			return check(fl.Field().String()) == nil
		}); err != nil {
			return err
		}

		text := t.text
		err := validate.RegisterTranslation(t.tag, trans,
			func(ut ut.Translator) error {
				return ut.Add(t.tag, text, true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				msg, _ := ut.T(fe.Tag(), fe.Field())
				return msg
			},
		)
		if err != nil {
			return err
		}
	}

	return nil
}
