package generator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpretProseWrappedJSON(t *testing.T) {
	raw := `Sure! {"variations":[{"id":"A","headline":"H","primary_text":"P","image_concept":"I","dalle_prompt":"D","scores":{"clarity":7,"brand_fit":11,"channel_fit":"x","scroll_stopping":3,"overall":9}}]} Hope that helps!`

	res := Interpret(raw, ModeStructured)
	require.Nil(t, res.Err)
	require.Len(t, res.Variations, 1)
	assert.Equal(t, raw, res.Raw)

	v := res.Variations[0]
	assert.Equal(t, "A", v.ID)
	assert.Equal(t, "H", v.Headline)
	assert.Equal(t, "P", v.PrimaryText)
	assert.Equal(t, "I", v.ImageConcept)
	assert.Equal(t, "D", v.ImagePrompt)
	assert.Equal(t, Score{Value: 7, Known: true}, v.Scores.Clarity)
	assert.Equal(t, Score{Value: 10, Known: true}, v.Scores.BrandFit)
	assert.Equal(t, Score{}, v.Scores.ChannelFit)
	assert.Equal(t, UnknownMarker, v.Scores.ChannelFit.String())
	assert.Equal(t, Score{Value: 3, Known: true}, v.Scores.ScrollStopping)
	assert.Equal(t, Score{Value: 9, Known: true}, v.Scores.Overall)
}

func TestInterpretNoBoundaries(t *testing.T) {
	for _, raw := range []string{"", "I cannot help with that.", "only an opening {", "closing } only", "} backwards {"} {
		res := Interpret(raw, ModeStructured)
		require.NotNil(t, res.Err, raw)
		assert.Equal(t, NoJSONBoundaries, res.Err.Kind)
		assert.Equal(t, raw, res.Raw)
		assert.Empty(t, res.Variations)
	}
}

func TestInterpretInvalidJSON(t *testing.T) {
	raw := "Here you go:\n{\"variations\": [{\"id\": \"A\"},]}\nthanks"

	res := Interpret(raw, ModeStructured)
	require.NotNil(t, res.Err)
	assert.Equal(t, InvalidJSON, res.Err.Kind)
	assert.Equal(t, raw, res.Raw)

	var syntaxErr *json.SyntaxError
	assert.ErrorAs(t, res.Err, &syntaxErr)
}

func TestInterpretMissingVariations(t *testing.T) {
	cases := map[string]string{
		"absent": `{"creatives": []}`,
		"null":   `{"variations": null}`,
		"object": `{"variations": {"id": "A"}}`,
		"string": `{"variations": "none"}`,
		"nested": `{"data": {"variations": []}}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			res := Interpret(raw, ModeStructured)
			require.NotNil(t, res.Err)
			assert.Equal(t, MissingVariations, res.Err.Kind)
			assert.Equal(t, raw, res.Raw)
		})
	}
}

func TestInterpretEmptyVariations(t *testing.T) {
	res := Interpret(`{"variations": []}`, ModeStructured)
	assert.Nil(t, res.Err)
	assert.True(t, res.OK())
	assert.True(t, res.Empty())
	assert.Len(t, res.Variations, 0)
}

func TestInterpretFieldDefaults(t *testing.T) {
	raw := `{"variations":[
		{"headline":"  Glow up  ","primary_text":42,"image_concept":null,"dalle_prompt":["x"]},
		"not an object",
		{"id":"C","scores":"high"}
	]}`

	res := Interpret(raw, ModeStructured)
	require.Nil(t, res.Err)
	require.Len(t, res.Variations, 3)

	first := res.Variations[0]
	assert.Equal(t, "", first.ID)
	assert.Equal(t, "Glow up", first.Headline)
	assert.Equal(t, "", first.PrimaryText)
	assert.Equal(t, "", first.ImageConcept)
	assert.Equal(t, "", first.ImagePrompt)
	assert.Equal(t, ScoreSet{}, first.Scores)

	assert.Equal(t, Variation{}, res.Variations[1])

	assert.Equal(t, "C", res.Variations[2].ID)
	for _, f := range ScoreFields {
		assert.False(t, res.Variations[2].Scores.Get(f.Key).Known, f.Key)
	}
}

func TestInterpretScoreCoercion(t *testing.T) {
	cases := []struct {
		name string
		json string
		want Score
	}{
		{"int", `7`, Score{Value: 7, Known: true}},
		{"zero", `0`, Score{Value: 0, Known: true}},
		{"above range", `11`, Score{Value: 10, Known: true}},
		{"huge", `1e30`, Score{Value: 10, Known: true}},
		{"negative", `-3`, Score{Value: 0, Known: true}},
		{"float truncates", `7.9`, Score{Value: 7, Known: true}},
		{"numeric string", `"8"`, Score{Value: 8, Known: true}},
		{"padded string", `" 6 "`, Score{Value: 6, Known: true}},
		{"string above range", `"15"`, Score{Value: 10, Known: true}},
		{"beyond int64", `99999999999999999999`, Score{Value: 10, Known: true}},
		{"string beyond int64", `"99999999999999999999"`, Score{Value: 10, Known: true}},
		{"negative string beyond int64", `"-99999999999999999999"`, Score{Value: 0, Known: true}},
		{"float string", `"8.5"`, Score{}},
		{"word", `"high"`, Score{}},
		{"bool", `true`, Score{}},
		{"null", `null`, Score{}},
		{"object", `{"v":1}`, Score{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := `{"variations":[{"scores":{"overall":` + tc.json + `}}]}`
			res := Interpret(raw, ModeStructured)
			require.Nil(t, res.Err)
			require.Len(t, res.Variations, 1)
			assert.Equal(t, tc.want, res.Variations[0].Scores.Overall)
			assert.Equal(t, Score{}, res.Variations[0].Scores.Clarity, "missing key stays unknown")
		})
	}
}

func TestInterpretRepeatedKeysLastWins(t *testing.T) {
	raw := `{"variations":[],"variations":[{"headline":"first","headline":"second","scores":{"overall":2,"overall":8}}]}`

	var decoded struct {
		Variations []map[string]any `json:"variations"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	require.Len(t, decoded.Variations, 1)

	res := Interpret(raw, ModeStructured)
	require.Nil(t, res.Err)
	require.Len(t, res.Variations, 1)
	assert.Equal(t, decoded.Variations[0]["headline"], res.Variations[0].Headline)
	assert.Equal(t, "second", res.Variations[0].Headline)
	assert.Equal(t, Score{Value: 8, Known: true}, res.Variations[0].Scores.Overall)
}

func TestInterpretFreeformPassthrough(t *testing.T) {
	raw := "HEADLINE:\n  Glow  \n\n{not json}"
	res := Interpret(raw, ModeFreeform)
	assert.Nil(t, res.Err)
	assert.Equal(t, ModeFreeform, res.Mode)
	assert.Equal(t, raw, res.Text)
	assert.Equal(t, raw, res.Raw)
	assert.Nil(t, res.Variations)
	assert.False(t, res.Empty())
}

func TestInterpretMockOutput(t *testing.T) {
	llm := MockLLM{Variations: 2}
	raw, err := llm.Complete(t.Context(), Prompt{ExpectJSON: true})
	require.NoError(t, err)

	res := Interpret(raw, ModeStructured)
	require.Nil(t, res.Err)
	require.Len(t, res.Variations, 2)
	assert.Equal(t, "A", res.Variations[0].ID)
	assert.Equal(t, "B", res.Variations[1].ID)
	for _, v := range res.Variations {
		for _, f := range ScoreFields {
			s := v.Scores.Get(f.Key)
			assert.True(t, s.Known)
			assert.GreaterOrEqual(t, s.Value, 5)
			assert.LessOrEqual(t, s.Value, 9)
		}
	}
}

func TestMockFollowsRequestedCount(t *testing.T) {
	llm := MockLLM{Variations: 2}
	req := mustRequest(t, "Serum", TonePlayful, ChannelFacebook, "", BrandPreset{}, 5)
	raw, err := llm.Complete(t.Context(), BuildPrompt(req, ModeStructured))
	require.NoError(t, err)

	res := Interpret(raw, ModeStructured)
	require.Nil(t, res.Err)
	require.Len(t, res.Variations, 5)
	assert.Equal(t, "E", res.Variations[4].ID)
}
