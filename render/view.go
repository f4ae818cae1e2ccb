package render

import (
	"ai_creative_builder/generator"
)

// ScoreView is one score row; Value is null when the score is unknown.
type ScoreView struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Value   *int   `json:"value"`
	Display string `json:"display"`
	Percent int    `json:"percent"`
}

type VariationView struct {
	ID           string      `json:"id"`
	Headline     string      `json:"headline"`
	PrimaryText  string      `json:"primary_text"`
	ImageConcept string      `json:"image_concept"`
	DallePrompt  string      `json:"dalle_prompt"`
	Scores       []ScoreView `json:"scores"`
}

type ParseErrorView struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// View is the JSON shape served to the web page and printed by `generate --json`.
type View struct {
	Mode       string          `json:"mode"`
	Model      string          `json:"model,omitempty"`
	OK         bool            `json:"ok"`
	Empty      bool            `json:"empty"`
	Text       string          `json:"text,omitempty"`
	HTML       string          `json:"html,omitempty"`
	Variations []VariationView `json:"variations"`
	Raw        string          `json:"raw"`
	Error      *ParseErrorView `json:"error,omitempty"`
}

// NewView flattens a result for JSON output.
func NewView(res generator.Result, model string) View {
	out := View{
		Mode:       res.Mode.String(),
		Model:      model,
		OK:         res.OK(),
		Empty:      res.Empty(),
		Text:       res.Text,
		Variations: []VariationView{},
		Raw:        res.Raw,
	}
	if res.Err != nil {
		out.Error = &ParseErrorView{Kind: res.Err.Kind.String(), Message: res.Err.Error()}
		return out
	}
	if res.Mode == generator.ModeFreeform {
		// goldmark 转换失败时前端退回显示纯文本。
		if html, err := MarkdownHTML(res.Text); err == nil {
			out.HTML = html
		}
		return out
	}
	for _, v := range res.Variations {
		vv := VariationView{
			ID:           DisplayID(v.ID),
			Headline:     v.Headline,
			PrimaryText:  v.PrimaryText,
			ImageConcept: v.ImageConcept,
			DallePrompt:  v.ImagePrompt,
		}
		for _, f := range generator.ScoreFields {
			sc := v.Scores.Get(f.Key)
			sv := ScoreView{Key: f.Key, Label: f.Label, Display: sc.String(), Percent: sc.Percent()}
			if sc.Known {
				val := sc.Value
				sv.Value = &val
			}
			vv.Scores = append(vv.Scores, sv)
		}
		out.Variations = append(out.Variations, vv)
	}
	return out
}
