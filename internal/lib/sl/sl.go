// Package sl содержит вспомогательные функции для работы с логгером slog:
// единообразные поля для ошибок, операций и ключей хранилища.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
// Для nil возвращает пустую строку, чтобы логирование не паниковало.
//
// Пример:
//
//	log.Error("failed to load profile", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Op возвращает атрибут с именем операции.
func Op(op string) slog.Attr {
	return slog.String("op", op)
}

// Key возвращает атрибут с ключом постоянного хранилища.
func Key(key string) slog.Attr {
	return slog.String("key", key)
}
