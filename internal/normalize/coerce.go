package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Приведение нетипизированных значений. Карта полей приходит из трёх
// источников с разными числовыми типами: encoding/json отдаёт float64,
// BSON-декодер — int32/int64/float64, Merge — типы доменной модели.

// truthy — истинность значения: nil, false, 0, NaN и "" ложны,
// всё остальное (включая пустые массивы и объекты) истинно.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case float32:
		return t != 0 && !math.IsNaN(float64(t))
	case int:
		return t != 0
	case int32:
		return t != 0
	case int64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0 && !math.IsNaN(f)
	default:
		return true
	}
}

// coerceString приводит значение к строке; ложные значения схлопываются
// в пустую строку. TrimSpace остаётся на вызывающей стороне.
func coerceString(v any) string {
	if !truthy(v) {
		return ""
	}

	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case bool:
		// Ложь сюда не доходит.
		return "true"
	default:
		return fmt.Sprint(t)
	}
}

// coerceNumber приводит значение к float64 без округления; непарсибельное
// значение — NaN, пустая строка — 0.
func coerceNumber(v any) float64 {
	switch t := v.(type) {
	case nil:
		return math.NaN()
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// coerceFloor: отсутствие значения и пустая (после TrimSpace) строка
// схлопываются в null; любое другое значение, включая 0 и false,
// сохраняется как есть.
func coerceFloor(v any) any {
	if v == nil {
		return nil
	}

	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil
	}

	return v
}

// coerceImages: не-массив превращается в пустой список; массив усекается
// до MaxImages, элементы приводятся к строкам (nil-элемент — "").
func coerceImages(v any) []string {
	switch list := v.(type) {
	case []string:
		if len(list) > MaxImages {
			list = list[:MaxImages]
		}
		out := make([]string, len(list))
		copy(out, list)
		return out
	case []any:
		if len(list) > MaxImages {
			list = list[:MaxImages]
		}
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, stringifyImage(item))
		}
		return out
	default:
		return []string{}
	}
}

func stringifyImage(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func isFinitePositive(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0
}
