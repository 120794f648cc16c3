// Package i18n holds the message catalog for the UI and API display labels.
// Catalog keys are the English texts, so an English printer needs no entries.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supported = []language.Tag{language.Russian, language.English}

var russian = map[string]string{
	"January":   "Январь",
	"February":  "Февраль",
	"March":     "Март",
	"April":     "Апрель",
	"May":       "Май",
	"June":      "Июнь",
	"July":      "Июль",
	"August":    "Август",
	"September": "Сентябрь",
	"October":   "Октябрь",
	"November":  "Ноябрь",
	"December":  "Декабрь",

	"Actual":       "Актуален",
	"Outdated":     "Устарел",
	"Draft":        "Черновик",
	"Under review": "На проверке",
	"Unknown":      "Неизвестно",

	"Empty period": "Пустой период",

	"Answers":         "Ответы",
	"View answer #%d": "Просмотр ответа #%d",
	"Add new answer":  "Добавить ответ",
	"Edit answer #%d": "Редактирование ответа #%d",

	"Answer #%d successfully created!": "Ответ #%d успешно создан!",
	"Answer successfully updated!":     "Ответ успешно обновлен!",
	"Answer successfully deleted!":     "Ответ успешно удален!",

	"Answer with this question already exists.": "Ответ с таким вопросом уже существует.",
	"Question is unique.":                       "Вопрос уникален.",
	"Please correct the errors below.":          "Пожалуйста, исправьте ошибки ниже.",

	"This field is required.":                      "Обязательное поле.",
	"Select a valid month.":                        "Выберите корректный месяц.",
	"Select a year between %d and %d.":             "Выберите год от %d до %d.",
	"Select a valid status.":                       "Выберите корректный статус.",
	"Select a valid category.":                     "Выберите корректную категорию.",
	"Select a valid period.":                       "Выберите корректный период.",
	"Enter a valid URL.":                           "Введите корректный URL.",
	"Enter a valid date.":                          "Введите корректную дату.",
	"Ensure this value has at most %d characters.": "Убедитесь, что значение содержит не более %d символов.",

	"Authentication credentials were not provided.": "Учетные данные не были предоставлены.",
	"Invalid token.":                                "Недопустимый токен.",
	"Token has expired.":                            "Срок действия токена истек.",
	"Not found.":                                    "Не найдено.",
	"Malformed request body.":                       "Некорректное тело запроса.",
	"Cannot delete: referenced by %d answer(s).":    "Невозможно удалить: используется в ответах (%d).",
	"Internal server error.":                        "Внутренняя ошибка сервера.",

	"The page you requested does not exist.":        "Запрошенная страница не существует.",
	"Server error":                                  "Ошибка сервера",
	"Something went wrong. Please try again later.": "Что-то пошло не так. Попробуйте позже.",

	"Question": "Вопрос",
	"Answer":   "Ответ",
	"Note":     "Заметка",
	"Category": "Категория",
	"Status":   "Статус",
	"Month":    "Месяц",
	"Year":     "Год",
	"Quarter":  "Квартал",
	"Source":   "Источник",
	"Tag":      "Тег",
	"tag":      "тег",
	"Created":  "Создан",
	"Updated":  "Обновлен",

	"Search...":      "Поиск...",
	"All":            "Все",
	"Filter":         "Фильтр",
	"Reset":          "Сбросить",
	"Nothing found.": "Ничего не найдено.",

	"Edit":               "Изменить",
	"Delete":             "Удалить",
	"Back":               "Назад",
	"Delete answer #%d?": "Удалить ответ #%d?",

	"Save and add next":         "Сохранить и добавить следующий",
	"Save and continue editing": "Сохранить и продолжить редактирование",
	"Save":                      "Сохранить",
	"Save changes":              "Сохранить изменения",

	"Enter question...":      "Введите вопрос...",
	"Enter answer...":        "Введите ответ...",
	"Enter optional note...": "Введите заметку (необязательно)...",

	"Log in":                                        "Войти",
	"Log out":                                       "Выйти",
	"Username":                                      "Имя пользователя",
	"Password":                                      "Пароль",
	"Please enter a correct username and password.": "Введите правильные имя пользователя и пароль.",
}

func init() {
	for key, msg := range russian {
		if err := message.SetString(language.Russian, key, msg); err != nil {
			panic(fmt.Sprintf("i18n: failed to register %q: %v", key, err))
		}
	}
}

// Parse resolves a configured language code ("ru", "en") to a supported tag.
func Parse(code string) (language.Tag, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und, fmt.Errorf("invalid language %q: %w", code, err)
	}
	matcher := language.NewMatcher(supported)
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return language.Und, fmt.Errorf("unsupported language %q", code)
	}
	return supported[index], nil
}

// NewPrinter returns a printer for tag backed by the catalog above.
func NewPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}
