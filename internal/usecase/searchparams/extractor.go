package searchparams

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/mo"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/hydrovibe/hydrosearch/internal/domain"
	"github.com/hydrovibe/hydrosearch/internal/domain/search/bbox"
	"github.com/hydrovibe/hydrosearch/internal/domain/search/query"
	logpkg "github.com/hydrovibe/hydrosearch/internal/logger"
)

// Reply field names.
const (
	FieldBBox  = "bbox"
	FieldStart = "start_datetime"
	FieldEnd   = "end_datetime"
)

// DateTimeLayout is the canonical date format exchanged with the model:
// millisecond precision and a zone designator, e.g. 2024-06-20T00:00:00.000Z.
const DateTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// dateLayouts accept a "Z", "+hh" or "+hhmm" zone after exactly three fractional digits.
var dateLayouts = []string{
	"2006-01-02T15:04:05.000Z07",
	"2006-01-02T15:04:05.000Z0700",
}

var (
	errNotArray  = errors.New("not an array")
	errNotString = errors.New("not a string")
)

// Extraction is the typed content of a parameter reply.
type Extraction struct {
	BoundingBox mo.Option[bbox.BoundingBox]
	Start       mo.Option[time.Time]
	End         mo.Option[time.Time]
	// FieldErrors lists fields that were present but malformed and are reported absent.
	FieldErrors []*domain.FieldError
}

// Extractor asks the model for the bounding box and date interval of a query.
type Extractor struct {
	logger   *zap.Logger
	recorder FieldFailureRecorder
}

// NewExtractor creates a parameter extractor. recorder can be nil.
func NewExtractor(logger *zap.Logger, recorder FieldFailureRecorder) *Extractor {
	return &Extractor{logger: logger, recorder: recorder}
}

// Extract runs one exchange with the JSON-shape prompt and parses the reply.
// Only a reply that is not a JSON object fails; malformed fields are logged and
// left absent.
func (e *Extractor) Extract(ctx context.Context, chat domain.ChatModel, q query.Query) (Extraction, error) {
	ctx = domain.ContextWithStage(ctx, domain.StageParameters)
	log := logpkg.FromContextOr(ctx, e.logger)

	reply, err := chat.Chat(ctx, ParametersPrompt(), q.Text())
	if err != nil {
		return Extraction{}, fmt.Errorf("extract parameters: %w", err)
	}

	log.Debug("parameters reply", zap.String("reply", reply))

	ex, err := ParseReply(reply)
	if err != nil {
		return Extraction{}, err
	}

	for _, fe := range ex.FieldErrors {
		log.Warn("ignoring malformed field",
			zap.String("field", fe.Field),
			zap.String("value", fe.Value),
			zap.Error(fe.Err),
		)
		if e.recorder != nil {
			e.recorder.RecordFieldFailure(fe.Field)
		}
	}

	return ex, nil
}

// ParseReply sanitizes a raw parameter reply and extracts its fields.
func ParseReply(reply string) (Extraction, error) {
	obj, err := parseObject(Sanitize(reply))
	if err != nil {
		return Extraction{}, err
	}

	var ex Extraction
	var fe *domain.FieldError

	if ex.BoundingBox, fe = extractBBox(obj); fe != nil {
		ex.FieldErrors = append(ex.FieldErrors, fe)
	}
	if ex.Start, fe = extractDateTime(obj, FieldStart); fe != nil {
		ex.FieldErrors = append(ex.FieldErrors, fe)
	}
	if ex.End, fe = extractDateTime(obj, FieldEnd); fe != nil {
		ex.FieldErrors = append(ex.FieldErrors, fe)
	}

	return ex, nil
}

// ParseDateTime parses a model date such as 2024-06-20T00:00:00.000Z into UTC.
// An offset shifts the instant: 00:00+02 becomes 22:00Z of the previous day.
func ParseDateTime(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, fmt.Errorf("expected yyyy-MM-ddTHH:mm:ss.SSSZ: %w", firstErr)
}

// parseObject accepts a JSON object, tolerating trailing commas.
func parseObject(text string) (gjson.Result, error) {
	if !gjson.Valid(text) {
		relaxed := StripTrailingCommas(text)
		if !gjson.Valid(relaxed) {
			return gjson.Result{}, fmt.Errorf("%w: reply is not valid JSON", domain.ErrMalformedModelResponse)
		}
		text = relaxed
	}

	obj := gjson.Parse(text)
	if !obj.IsObject() {
		return gjson.Result{}, fmt.Errorf("%w: reply is not a JSON object", domain.ErrMalformedModelResponse)
	}
	return obj, nil
}

func extractBBox(obj gjson.Result) (mo.Option[bbox.BoundingBox], *domain.FieldError) {
	none := mo.None[bbox.BoundingBox]()

	v := obj.Get(FieldBBox)
	if !v.Exists() || v.Type == gjson.Null {
		return none, nil
	}
	if !v.IsArray() {
		return none, domain.NewFieldError(FieldBBox, v.Raw, errNotArray)
	}

	elems := v.Array()
	coords := make([]string, 0, len(elems))
	for i, el := range elems {
		switch el.Type {
		case gjson.Number, gjson.True, gjson.False:
			// Raw keeps the model's own digits.
			coords = append(coords, el.Raw)
		case gjson.String:
			coords = append(coords, el.Str)
		default:
			return none, domain.NewFieldError(FieldBBox, v.Raw, fmt.Errorf("coordinate %d is not a scalar", i))
		}
	}

	box, err := bbox.New(coords)
	if err != nil {
		return none, domain.NewFieldError(FieldBBox, v.Raw, err)
	}
	return mo.Some(box), nil
}

func extractDateTime(obj gjson.Result, field string) (mo.Option[time.Time], *domain.FieldError) {
	none := mo.None[time.Time]()

	v := obj.Get(field)
	if !v.Exists() || v.Type == gjson.Null {
		return none, nil
	}
	if v.Type != gjson.String {
		return none, domain.NewFieldError(field, v.Raw, errNotString)
	}

	s := strings.TrimSpace(v.Str)
	if s == "" {
		return none, nil
	}

	t, err := ParseDateTime(s)
	if err != nil {
		return none, domain.NewFieldError(field, v.Str, err)
	}
	return mo.Some(t), nil
}
