package importer

import (
	"fmt"
	"strings"

	"github.com/fentz26/habiterm/internal/models"
)

// Normalize maps a raw record to a creation request. ok is false when the
// record has no usable text and must be dropped. The type defaults to todo
// and is not validated; the API rejects unknown types.
func Normalize(rec models.ImportRecord) (req models.NormalizedTaskRequest, ok bool) {
	text, ok := scalarString(rec["text"])
	if !ok {
		return models.NormalizedTaskRequest{}, false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.NormalizedTaskRequest{}, false
	}

	taskType := models.DefaultType
	if t, ok := scalarString(rec["type"]); ok && strings.TrimSpace(t) != "" {
		taskType = models.TaskType(t)
	}

	return models.NormalizedTaskRequest{Text: text, Type: taskType}, true
}

// scalarString renders strings, numbers and booleans. Nil, lists and
// mappings are not text.
func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case int, int64, uint64, float64, bool:
		return fmt.Sprint(x), true
	default:
		return "", false
	}
}
