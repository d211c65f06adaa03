// Package payload приводит тело запроса к единому набору полей
// независимо от его кодировки.
package payload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/inventory-manager/internal/models"
)

// Encoding — кодировка, в которой пришло тело запроса.
type Encoding int

const (
	// EncodingJSON — application/json.
	EncodingJSON Encoding = iota
	// EncodingForm — application/x-www-form-urlencoded.
	EncodingForm
	// EncodingMultipart — multipart/form-data.
	EncodingMultipart
)

func (e Encoding) String() string {
	switch e {
	case EncodingJSON:
		return "json"
	case EncodingForm:
		return "form"
	case EncodingMultipart:
		return "multipart"
	}
	return "unknown"
}

// IsForm сообщает, пришёл ли запрос из HTML-формы.
func (e Encoding) IsForm() bool {
	return e == EncodingForm || e == EncodingMultipart
}

const (
	maxBodyBytes      = 1 << 20
	maxMultipartBytes = 8 << 20
)

// ErrUndecodable возвращается, когда тело не удалось разобрать ни в одной кодировке.
var ErrUndecodable = errors.New("request body is neither JSON nor form data")

// Decode разбирает тело запроса по заявленному Content-Type. Если тип не
// указан или неизвестен, тело пробуется как JSON, затем как форма.
func Decode(r *http.Request) (models.Fields, Encoding, error) {
	const op = "payload.Decode"
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		fields, err := decodeJSON(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			return nil, EncodingJSON, fmt.Errorf("%s: %w", op, err)
		}
		return fields, EncodingJSON, nil
	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return nil, EncodingForm, fmt.Errorf("%s: %w", op, err)
		}
		return fromValues(r.PostForm), EncodingForm, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMultipartBytes); err != nil {
			return nil, EncodingMultipart, fmt.Errorf("%s: %w", op, err)
		}
		return fromValues(r.MultipartForm.Value), EncodingMultipart, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, EncodingJSON, fmt.Errorf("%s: %w", op, err)
	}
	if fields, err := decodeJSON(bytes.NewReader(body)); err == nil {
		return fields, EncodingJSON, nil
	}
	values, err := url.ParseQuery(strings.TrimSpace(string(body)))
	if err == nil && len(values) > 0 {
		return fromValues(values), EncodingForm, nil
	}
	return nil, EncodingJSON, fmt.Errorf("%s: %w", op, ErrUndecodable)
}

// decodeJSON принимает только JSON-объект.
func decodeJSON(body io.Reader) (models.Fields, error) {
	var fields models.Fields
	if err := render.DecodeJSON(body, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("json body must be an object")
	}
	return fields, nil
}

func fromValues(values url.Values) models.Fields {
	fields := make(models.Fields, len(values))
	for key, v := range values {
		if len(v) > 0 {
			fields[key] = v[0]
		}
	}
	return fields
}

// NewUser собирает поля учётной записи. Нестроковые значения считаются пустыми,
// пароль не обрезается.
func NewUser(fields models.Fields) models.NewUser {
	get := func(key string) string {
		v, _ := fields.String(key)
		return strings.TrimSpace(v)
	}
	pw, _ := fields.String("password")
	return models.NewUser{
		Username: get("username"),
		Email:    get("email"),
		Password: pw,
		FullName: get("full_name"),
	}
}
