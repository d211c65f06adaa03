package services

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/magabrotheeeer/inventory-manager/internal/lib/apperr"
	"github.com/magabrotheeeer/inventory-manager/internal/models"
)

// Наибольшая длина строковых полей товара, как у колонок таблицы products.
const (
	maxNameLength     = 100
	maxCategoryLength = 50
)

// parsePatch приводит переданные поля к типам товара. Учитываются только
// присутствующие ключи; пустые name/description недопустимы.
func parsePatch(fields models.Fields) (models.ProductPatch, error) {
	var patch models.ProductPatch

	for _, key := range []string{"name", "description"} {
		if !fields.Has(key) {
			continue
		}
		v, ok := fields.String(key)
		if !ok || strings.TrimSpace(v) == "" {
			return patch, apperr.Invalid(key, "is required")
		}
		if key == "name" && utf8.RuneCountInString(v) > maxNameLength {
			return patch, apperr.Invalid(key, "is too long")
		}
		if key == "name" {
			patch.Name = &v
		} else {
			patch.Description = &v
		}
	}

	if fields.Has("price") {
		price, empty, err := toFloat(fields["price"])
		if err != nil {
			return patch, apperr.Invalid("price", "must be a number")
		}
		switch {
		case empty:
			patch.ClearPrice = true
		case price < 0:
			return patch, apperr.Invalid("price", "must not be negative")
		default:
			patch.Price = &price
		}
	}

	if fields.Has("category") {
		v, ok := fields.String("category")
		if !ok && fields["category"] != nil {
			return patch, apperr.Invalid("category", "must be a string")
		}
		if strings.TrimSpace(v) == "" {
			v = models.DefaultCategory
		}
		if utf8.RuneCountInString(v) > maxCategoryLength {
			return patch, apperr.Invalid("category", "is too long")
		}
		patch.Category = &v
	}

	if fields.Has("quantity") {
		q, err := toInt(fields["quantity"])
		if err != nil {
			return patch, apperr.Invalid("quantity", "must be an integer")
		}
		if q < 0 {
			return patch, apperr.Invalid("quantity", "must not be negative")
		}
		patch.Quantity = &q
	}

	if fields.Has("is_available") {
		b, err := toBool(fields["is_available"])
		if err != nil {
			return patch, apperr.Invalid("is_available", "must be a boolean")
		}
		patch.IsAvailable = &b
	}

	return patch, nil
}

// toFloat возвращает empty=true для nil и пустой строки.
func toFloat(v any) (f float64, empty bool, err error) {
	switch x := v.(type) {
	case nil:
		return 0, true, nil
	case float64:
		f = x
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, true, nil
		}
		f, err = strconv.ParseFloat(s, 64)
	default:
		return 0, false, strconv.ErrSyntax
	}
	if err != nil {
		return 0, false, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, strconv.ErrRange
	}
	return f, false, nil
}

// toInt принимает целые числа; nil и пустая строка дают 0.
func toInt(v any) (int, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case float64:
		if x != math.Trunc(x) || math.Abs(x) > math.MaxInt32 {
			return 0, strconv.ErrSyntax
		}
		return int(x), nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(s)
		if err == nil && (n > math.MaxInt32 || n < math.MinInt32) {
			return 0, strconv.ErrRange
		}
		return n, err
	default:
		return 0, strconv.ErrSyntax
	}
}

// toBool понимает bool из JSON и значения чекбоксов форм.
func toBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case float64:
		return x != 0, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "on", "yes":
			return true, nil
		case "off", "no", "":
			return false, nil
		}
		return strconv.ParseBool(strings.TrimSpace(x))
	default:
		return false, strconv.ErrSyntax
	}
}
