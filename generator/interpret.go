package generator

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Interpret 解析模型输出。不会 panic，也不返回 error：失败写入 Result.Err，
// 原始文本始终保留在 Result.Raw。
func Interpret(raw string, mode Mode) Result {
	if mode == ModeFreeform {
		return Result{Mode: ModeFreeform, Text: raw, Raw: raw}
	}
	res := Result{Mode: ModeStructured, Raw: raw}

	fragment, ok := jsonFragment(raw)
	if !ok {
		res.Err = &ParseError{Kind: NoJSONBoundaries}
		return res
	}
	// gjson is lenient about syntax, so validate with encoding/json first to get a cause.
	var probe any
	if err := json.Unmarshal([]byte(fragment), &probe); err != nil {
		res.Err = &ParseError{Kind: InvalidJSON, Cause: err}
		return res
	}

	list := field(gjson.Parse(fragment), "variations")
	if !list.IsArray() {
		res.Err = &ParseError{Kind: MissingVariations}
		return res
	}
	res.Variations = []Variation{}
	list.ForEach(func(_, item gjson.Result) bool {
		res.Variations = append(res.Variations, readVariation(item))
		return true
	})
	return res
}

// jsonFragment returns raw[first '{' : last '}'] inclusive.
func jsonFragment(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}

func readVariation(item gjson.Result) Variation {
	v := Variation{
		ID:           stringField(item, "id"),
		Headline:     stringField(item, "headline"),
		PrimaryText:  stringField(item, "primary_text"),
		ImageConcept: stringField(item, "image_concept"),
		ImagePrompt:  stringField(item, "dalle_prompt"),
	}
	scores := field(item, "scores")
	for _, f := range ScoreFields {
		var s Score
		if scores.IsObject() {
			s = coerceScore(field(scores, f.Key))
		}
		v.Scores.set(f.Key, s)
	}
	return v
}

func stringField(item gjson.Result, key string) string {
	if !item.IsObject() {
		return ""
	}
	r := field(item, key)
	if r.Type != gjson.String {
		return ""
	}
	return strings.TrimSpace(r.Str)
}

// field returns the last value stored under key, matching encoding/json when
// an object repeats a key. gjson.Get would return the first one.
func field(obj gjson.Result, key string) gjson.Result {
	var out gjson.Result
	if !obj.IsObject() {
		return out
	}
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			out = v
		}
		return true
	})
	return out
}

// coerceScore clamps anything integer-like into [0,10]; everything else is unknown.
func coerceScore(r gjson.Result) Score {
	var n float64
	switch r.Type {
	case gjson.Number:
		if i, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
			return Score{Value: clampScore(float64(i)), Known: true}
		}
		n = r.Num
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		// 超出 int64 范围时 ParseInt 返回边界值，照常截断到 [0,10]。
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return Score{}
		}
		n = float64(i)
	default:
		return Score{}
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Score{}
	}
	return Score{Value: clampScore(math.Trunc(n)), Known: true}
}

func clampScore(n float64) int {
	switch {
	case n < 0:
		return 0
	case n > 10:
		return 10
	}
	return int(n)
}
