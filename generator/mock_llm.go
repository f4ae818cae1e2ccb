package generator

import (
	"context"
	"fmt"

	"github.com/tidwall/sjson"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
// It answers structured prompts with as many canned creatives as the prompt
// asks for (Variations when the prompt does not say), wrapped in a line of
// prose the way real models often do.
type MockLLM struct {
	Variations int
}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	if !prompt.ExpectJSON {
		return "HEADLINE:\n**Made for the moment**\n\n" +
			"PRIMARY_TEXT:\nA placeholder creative from the local mock model. Set an API key to get real copy.\n\n" +
			"IMAGE_CONCEPT:\nThe product on a clean studio backdrop, lit from the side.\n", nil
	}
	n := prompt.Variations
	if n < 1 {
		n = m.Variations
	}
	if n < 1 {
		n = DefaultVariationCount
	}
	type field struct {
		path  string
		value any
	}
	doc := `{"variations":[]}`
	var err error
	for i := 0; i < n; i++ {
		base := fmt.Sprintf("variations.%d.", i)
		sets := []field{
			{"id", VariationID(i)},
			{"headline", fmt.Sprintf("Mock headline %s", VariationID(i))},
			{"primary_text", "A placeholder creative from the local mock model."},
			{"image_concept", "The product on a clean studio backdrop."},
			{"dalle_prompt", "studio product photo, soft side light, minimal background"},
		}
		for j, f := range ScoreFields {
			sets = append(sets, field{"scores." + f.Key, 5 + (i+j)%5})
		}
		for _, s := range sets {
			doc, err = sjson.Set(doc, base+s.path, s.value)
			if err != nil {
				return "", err
			}
		}
	}
	return "Here are your creatives:\n" + doc + "\nHope that helps!", nil
}
