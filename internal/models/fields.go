package models

// Fields — нормализованный набор полей запроса независимо от его кодировки.
// Значения из форм приходят строками, из JSON — в типах encoding/json
// (string, float64, bool, nil).
type Fields map[string]any

// Has сообщает, передано ли поле.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// String возвращает строковое значение поля. Нестроковые значения дают false.
func (f Fields) String(key string) (string, bool) {
	s, ok := f[key].(string)
	return s, ok
}
