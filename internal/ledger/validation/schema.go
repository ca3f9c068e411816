package validation

import (
	"errors"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/creator-copilot/ledger-backend/internal/ledger/domain"
)

// Kind selects how a raw value is coerced before its rule tag is checked.
type Kind int

const (
	KindText Kind = iota
	KindEnum
	KindURL
	KindUUID
	KindMoney
	KindDate
)

// Message keys used in Field.Messages besides validator tag names.
const (
	MsgRequired = "required"
	MsgType     = "type"
	MsgPositive = "positive"
	MsgScale    = "scale"
	MsgTooLarge = "too_large"
)

// Amounts are stored as numeric(12,2).
const moneyScale = 2

var maxMoney = decimal.RequireFromString("9999999999.99")

const fallbackMessage = "Invalid value"

// Field declares how one raw input is accepted.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	// Tag is a go-playground/validator rule applied to the trimmed string value.
	Tag      string
	Messages map[string]string
}

func (f Field) message(key string) string {
	if m, ok := f.Messages[key]; ok {
		return m
	}
	return fallbackMessage
}

// Values holds coerced field values. Absent optional fields have no entry.
// Text-like kinds hold string, KindMoney holds decimal.Decimal, KindDate holds civil.Date.
type Values map[string]any

// String returns the coerced string for name and whether it was present.
func (v Values) String(name string) (string, bool) {
	s, ok := v[name].(string)
	return s, ok
}

// Decimal returns the coerced amount for name.
func (v Values) Decimal(name string) (decimal.Decimal, bool) {
	d, ok := v[name].(decimal.Decimal)
	return d, ok
}

// Date returns the coerced calendar date for name.
func (v Values) Date(name string) (civil.Date, bool) {
	d, ok := v[name].(civil.Date)
	return d, ok
}

// OptionalString returns a pointer to the coerced string, nil when absent.
func (v Values) OptionalString(name string) *string {
	s, ok := v.String(name)
	if !ok {
		return nil
	}
	return &s
}

// Rule is a cross-field check run after every field coerced. It returns the field the failure
// belongs to and its message, or two empty strings.
type Rule func(Values) (field, message string)

// Schema is the declared acceptance contract for one entity.
type Schema struct {
	Entity string
	Fields []Field
	Rules  []Rule
}

var validate = validator.New()

// Validate coerces raw into Values. Any failure yields a *domain.ValidationError holding one
// message per offending field and no values.
func (s Schema) Validate(raw map[string]string) (Values, error) {
	out := make(Values, len(s.Fields))
	failed := make(map[string]string)

	for _, f := range s.Fields {
		v, msg := f.coerce(raw[f.Name])
		if msg != "" {
			failed[f.Name] = msg
			continue
		}
		if v != nil {
			out[f.Name] = v
		}
	}

	for _, rule := range s.Rules {
		field, msg := rule(out)
		if field == "" || msg == "" {
			continue
		}
		if _, already := failed[field]; !already {
			failed[field] = msg
		}
	}

	if len(failed) > 0 {
		return nil, &domain.ValidationError{Fields: failed}
	}
	return out, nil
}

// coerce returns the typed value (nil when an optional field is absent) or a failure message.
func (f Field) coerce(raw string) (any, string) {
	s := strings.TrimSpace(raw)
	if f.Kind == KindMoney {
		s = normalizeMoney(s)
	}
	if s == "" {
		if f.Required {
			return nil, f.message(MsgRequired)
		}
		return nil, ""
	}

	switch f.Kind {
	case KindMoney:
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, f.message(MsgType)
		}
		if !d.IsPositive() {
			return nil, f.message(MsgPositive)
		}
		if !d.Equal(d.Round(moneyScale)) {
			return nil, f.message(MsgScale)
		}
		if d.GreaterThan(maxMoney) {
			return nil, f.message(MsgTooLarge)
		}
		return d, ""
	case KindDate:
		d, err := civil.ParseDate(s)
		if err != nil || !d.IsValid() {
			return nil, f.message(MsgType)
		}
		return d, ""
	}

	if tag := f.ruleTag(); tag != "" {
		if err := validate.Var(s, tag); err != nil {
			return nil, f.message(failedTag(err))
		}
	}
	return s, ""
}

func (f Field) ruleTag() string {
	switch f.Kind {
	case KindURL:
		return joinTags("http_url", f.Tag)
	case KindUUID:
		return joinTags("uuid", f.Tag)
	}
	return f.Tag
}

func joinTags(base, extra string) string {
	if extra == "" {
		return base
	}
	return base + "," + extra
}

func failedTag(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Tag()
	}
	return MsgType
}

// normalizeMoney drops currency symbols and thousands separators. Inner whitespace is kept so
// "1 2 3" fails to parse instead of becoming 123.
func normalizeMoney(s string) string {
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	return strings.TrimSpace(s)
}

// oneOf renders an exact-match enum tag.
func oneOf[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return "oneof=" + strings.Join(parts, " ")
}
