package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
)

// Body is a decoded, structurally valid content payload.
type Body interface {
	// TextBlocks lists the author-visible prose with a stable location path.
	TextBlocks() []TextBlock
	Metadata() Metadata
}

type TextBlock struct {
	Path string
	Text string
}

// checker is implemented by bodies with cross-field rules the tags cannot express.
type checker interface {
	Check() []string
}

// SchemaError lists every structural problem found in a payload.
type SchemaError struct {
	ContentType types.ContentType
	Problems    []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s content failed schema validation: %s", e.ContentType, strings.Join(e.Problems, "; "))
}

func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// New returns an empty body for ct.
func New(ct types.ContentType) (Body, error) {
	switch ct {
	case types.ContentTypeVideo:
		return &VideoScript{}, nil
	case types.ContentTypeReading:
		return &Reading{}, nil
	case types.ContentTypeQuiz, types.ContentTypePracticeQuiz:
		return &Quiz{}, nil
	case types.ContentTypeHOL:
		return &HandsOnLesson{}, nil
	case types.ContentTypeLab:
		return &Lab{}, nil
	case types.ContentTypeCoach:
		return &CoachDialogue{}, nil
	case types.ContentTypeDiscussion:
		return &Discussion{}, nil
	case types.ContentTypeAssignment:
		return &Assignment{}, nil
	case types.ContentTypeProject:
		return &Project{}, nil
	case types.ContentTypeRubric:
		return &Rubric{}, nil
	default:
		return nil, fmt.Errorf("unknown content type %q", ct)
	}
}

// Decode parses raw strictly: unknown fields, trailing data, missing required
// fields and out-of-range counts are all rejected. Nothing is coerced.
func Decode(ct types.ContentType, raw []byte) (Body, error) {
	body, err := New(ct)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(body); err != nil {
		return nil, &SchemaError{ContentType: ct, Problems: []string{"invalid json: " + err.Error()}}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &SchemaError{ContentType: ct, Problems: []string{"unexpected trailing data"}}
	}
	if problems := Validate(body); len(problems) > 0 {
		return nil, &SchemaError{ContentType: ct, Problems: problems}
	}
	return body, nil
}

// Validate runs tag and cross-field checks on an already decoded body.
func Validate(body Body) []string {
	var problems []string
	if err := structValidator().Struct(body); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				problems = append(problems, describe(fe))
			}
		} else {
			problems = append(problems, err.Error())
		}
	}
	if c, ok := body.(checker); ok {
		problems = append(problems, c.Check()...)
	}
	return problems
}

func describe(fe validator.FieldError) string {
	path := fe.Namespace()
	if i := strings.Index(path, "."); i >= 0 {
		path = path[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return path + " is required"
	case "min":
		return fmt.Sprintf("%s must have at least %s", path, fe.Param())
	case "max":
		return fmt.Sprintf("%s must have at most %s", path, fe.Param())
	case "len":
		return fmt.Sprintf("%s must have exactly %s", path, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", path, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", path, fe.Tag())
	}
}

// Marshal encodes a body for storage.
func Marshal(body Body) ([]byte, error) {
	return json.Marshal(body)
}

func joinTexts(blocks []TextBlock) []string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, b.Text)
	}
	return out
}
