package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Payload is a decoded JSON object body keyed by field name. Keeping the raw
// values lets writes tell an omitted field apart from a zero value.
type Payload map[string]json.RawMessage

// ParseError reports a request body that is not valid JSON
type ParseError struct {
	Detail string
}

func (e *ParseError) Error() string { return e.Detail }

// ParsePayload decodes body into a Payload. Invalid JSON yields a *ParseError,
// a valid document that is not an object yields FieldErrors under
// non_field_errors.
func ParsePayload(body []byte) (Payload, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Payload{}, nil
	}

	var generic interface{}
	if err := json.Unmarshal(trimmed, &generic); err != nil {
		return nil, &ParseError{Detail: "JSON parse error - " + err.Error()}
	}

	obj, ok := generic.(map[string]interface{})
	if !ok {
		errs := FieldErrors{}
		errs.Add(NonFieldErrors, fmt.Sprintf("Invalid data. Expected a dictionary, but got %s.", jsonTypeName(generic)))
		return nil, errs
	}

	payload := make(Payload, len(obj))
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, &ParseError{Detail: "JSON parse error - " + err.Error()}
	}
	return payload, nil
}

// Has reports whether key was supplied, including an explicit null
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// IsNull reports whether key was supplied as JSON null
func (p Payload) IsNull(key string) bool {
	raw, ok := p[key]
	return ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Bind copies every supplied key of p into the struct pointed to by dst,
// matching keys against json tags. Values of the wrong JSON type are reported
// per field instead of aborting the whole bind. String fields are sanitized.
func Bind(p Payload, dst interface{}) FieldErrors {
	errs := FieldErrors{}

	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		panic("validation: Bind requires a pointer to a struct")
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name := jsonName(sf)
		if name == "" {
			continue
		}
		raw, ok := p[name]
		if !ok {
			continue
		}
		field := rv.Field(i)

		if p.IsNull(name) {
			if field.Kind() == reflect.Ptr {
				field.Set(reflect.Zero(field.Type()))
				continue
			}
			errs.Add(name, MsgNull)
			continue
		}

		if msg := decodeField(raw, field); msg != "" {
			errs.Add(name, msg)
			continue
		}

		if field.Kind() == reflect.String {
			field.SetString(SanitizeString(field.String()))
		}
	}

	return errs
}

func decodeField(raw json.RawMessage, field reflect.Value) string {
	target := reflect.New(field.Type())
	if err := json.Unmarshal(raw, target.Interface()); err != nil {
		return typeMessage(raw, field.Type())
	}
	field.Set(target.Elem())
	return ""
}

// typeMessage builds the message for a value that could not be decoded into t
func typeMessage(raw json.RawMessage, t reflect.Type) string {
	var generic interface{}
	_ = json.Unmarshal(raw, &generic)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Slice:
		items, ok := generic.([]interface{})
		if !ok {
			return fmt.Sprintf(`Expected a list of items but got type "%s".`, jsonTypeName(generic))
		}
		for _, item := range items {
			if _, isNum := item.(float64); !isNum {
				return fmt.Sprintf("Incorrect type. Expected pk value, received %s.", jsonTypeName(item))
			}
		}
		return MsgInvalidInteger
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return MsgInvalidInteger
	case reflect.String:
		return MsgInvalidString
	default:
		return "Invalid value."
	}
}

// jsonTypeName names a decoded JSON value the way the API reports types
func jsonTypeName(v interface{}) string {
	switch v.(type) {
	case map[string]interface{}:
		return "dict"
	case []interface{}:
		return "list"
	case string:
		return "str"
	case float64:
		return "int"
	case bool:
		return "bool"
	case nil:
		return "NoneType"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func jsonName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "-" || !sf.IsExported() {
		return ""
	}
	name := strings.SplitN(tag, ",", 2)[0]
	if name == "" {
		return sf.Name
	}
	return name
}
