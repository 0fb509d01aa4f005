package recommendation

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	fieldParentProductID  = "parent_product_id"
	fieldRelatedProductID = "related_product_id"
	fieldType             = "type"
	fieldPriority         = "priority"
)

var payloadKeys = []string{fieldParentProductID, fieldPriority, fieldRelatedProductID, fieldType}

// Fields is a validated recommendation payload.
type Fields struct {
	ParentProductID  int64
	RelatedProductID int64
	Type             string
	Priority         int `validate:"gte=1"`
}

// PayloadValidator checks raw create/update bodies. Create and update share the
// same rules; the target id of an update never comes from the body.
type PayloadValidator struct {
	validate *validator.Validate
}

func NewPayloadValidator(validate *validator.Validate) *PayloadValidator {
	if validate == nil {
		validate = validator.New()
	}

	return &PayloadValidator{validate: validate}
}

func (v *PayloadValidator) ParsePayload(raw []byte) (Fields, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return Fields{}, validationErrorf(ReasonMalformedPayload, "malformed payload: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Fields{}, validationErrorf(ReasonMalformedPayload, "malformed payload: unexpected data after object")
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return Fields{}, validationErrorf(ReasonMalformedPayload, "malformed payload: expected a JSON object")
	}

	if err := checkKeySet(obj); err != nil {
		return Fields{}, err
	}

	var (
		fields Fields
		err    error
	)

	if fields.ParentProductID, err = coerceInt(obj, fieldParentProductID); err != nil {
		return Fields{}, err
	}
	if fields.RelatedProductID, err = coerceInt(obj, fieldRelatedProductID); err != nil {
		return Fields{}, err
	}

	priority, err := coerceInt(obj, fieldPriority)
	if err != nil {
		return Fields{}, err
	}
	if priority > math.MaxInt32 || priority < math.MinInt32 {
		return Fields{}, validationErrorf(ReasonInvalidValue, "priority is out of range")
	}
	fields.Priority = int(priority)

	typ, ok := obj[fieldType].(string)
	if !ok {
		return Fields{}, validationErrorf(ReasonTypeMismatch, "type must be a string")
	}
	fields.Type = typ

	if err := v.validate.Struct(&fields); err != nil {
		return Fields{}, validationErrorf(ReasonInvalidValue, "priority must be greater than or equal to 1")
	}

	return fields, nil
}

func checkKeySet(obj map[string]any) error {
	var missing, unexpected []string

	for _, key := range payloadKeys {
		if _, ok := obj[key]; !ok {
			missing = append(missing, key)
		}
	}

	for key := range obj {
		if !isPayloadKey(key) {
			unexpected = append(unexpected, key)
		}
	}

	if len(missing) == 0 && len(unexpected) == 0 {
		return nil
	}

	sort.Strings(unexpected)

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing fields: "+strings.Join(missing, ", "))
	}
	if len(unexpected) > 0 {
		parts = append(parts, "unexpected fields: "+strings.Join(unexpected, ", "))
	}

	return validationErrorf(ReasonSchemaMismatch, "data is not valid: %s", strings.Join(parts, "; "))
}

func isPayloadKey(key string) bool {
	for _, k := range payloadKeys {
		if k == key {
			return true
		}
	}
	return false
}

// coerceInt accepts JSON integers, integral floats and base-10 integer strings.
func coerceInt(obj map[string]any, key string) (int64, error) {
	mismatch := validationErrorf(ReasonTypeMismatch, "%s must be an integer", key)

	switch v := obj[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold
		f, err := v.Float64()
		if err != nil || f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
			return 0, mismatch
		}
		return int64(f), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, mismatch
		}
		return n, nil
	default:
		return 0, mismatch
	}
}
