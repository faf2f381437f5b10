package errors

import "fmt"

var (
	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")
	ErrConflict   = fmt.Errorf("запись уже существует")

	// Хранилища
	ErrStorageUnavailable = fmt.Errorf("хранилище недоступно")
	ErrUnknownDriver      = fmt.Errorf("неизвестный драйвер хранилища")

	// Файлы
	ErrFileTooLarge     = fmt.Errorf("файл превышает допустимый размер")
	ErrFileTypeRejected = fmt.Errorf("недопустимый тип файла")
)

// Кастомные типы ошибок
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// HttpError - ошибка, которую контроллер отдает клиенту.
// Err и Context пишутся только в лог, Details уходит в тело ответа.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{
		Code:    code,
		Message: message,
		Err:     err,
		Context: context,
	}
}
