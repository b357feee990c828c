package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	phoneCleanup = regexp.MustCompile(`[^\d+]`)
	phonePattern = regexp.MustCompile(`^(\+7|8)\d{10}$`)
	namePattern  = regexp.MustCompile(`^[а-яА-ЯёЁa-zA-Z\s-]+$`)

	registerOnce sync.Once
	registerErr  error
)

// ValidPhone accepts +7 (XXX) XXX-XX-XX and 8XXXXXXXXXX, ignoring formatting characters.
func ValidPhone(value string) bool {
	return phonePattern.MatchString(phoneCleanup.ReplaceAllString(value, ""))
}

// ValidName - минимум 2 символа, только буквы, пробелы и дефисы
func ValidName(value string) bool {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < 2 {
		return false
	}
	return namePattern.MatchString(value)
}

// ValidMessage - пустое сообщение допустимо, иначе минимум 10 символов
func ValidMessage(value string) bool {
	if value == "" {
		return true
	}
	return utf8.RuneCountInString(strings.TrimSpace(value)) >= 10
}

// RegisterBindings registers the custom tags used by request models on gin's validator engine.
func RegisterBindings() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}

		rules := map[string]func(string) bool{
			"phone":           ValidPhone,
			"person_name":     ValidName,
			"booking_message": ValidMessage,
		}
		for tag, rule := range rules {
			rule := rule
			err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				return rule(fl.Field().String())
			}, true)
			if err != nil {
				registerErr = fmt.Errorf("register %s validation: %w", tag, err)
				return
			}
		}
	})
	return registerErr
}

// FieldMessages переводит ошибки валидации в сообщения для пользователя.
func FieldMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fieldMessage(fe))
	}
	return messages
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Поле %s обязательно", fe.Field())
	case "phone":
		return "Неверный формат телефона. Используйте +7 (XXX) XXX-XX-XX"
	case "person_name":
		return "Имя должно содержать минимум 2 символа: только буквы, пробелы и дефисы"
	case "booking_message":
		return "Сообщение должно содержать минимум 10 символов"
	case "unique":
		return fmt.Sprintf("Поле %s не должно содержать повторов", fe.Field())
	case "oneof":
		return fmt.Sprintf("Поле %s должно быть одним из: %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("Поле %s не прошло проверку %s", fe.Field(), fe.Tag())
}
