package generator

import (
	"fmt"
	"strings"
)

// Prompt 表示发送给 LLM 的消息。
type Prompt struct {
	System string
	User   string
	// ExpectJSON lets providers switch on their native JSON output mode.
	ExpectJSON bool
	// Variations is the number of variations asked for; zero in freeform mode.
	Variations int
}

// NotApplicable replaces an empty extra context so the line is never dropped.
const NotApplicable = "N/A"

const (
	structuredSystem = "You are an expert performance marketing creative strategist. " +
		"You generate multiple ad creatives and score them."
	freeformSystem = "You are an expert performance marketing copywriter. " +
		"You write one ad creative in clearly labelled sections and nothing else."
	noVoice = "None. Use only the effective brand tone."
)

// BuildPrompt 根据模式生成提示词。相同输入总是得到逐字节相同的输出。
func BuildPrompt(req CreativeRequest, mode Mode) Prompt {
	if mode == ModeFreeform {
		return buildFreeformPrompt(req)
	}
	return buildStructuredPrompt(req)
}

func writeBrief(sb *strings.Builder, req CreativeRequest) {
	extra := req.ExtraContext
	if strings.TrimSpace(extra) == "" {
		extra = NotApplicable
	}
	voice := strings.TrimSpace(req.Preset.VoiceInstructions)
	if voice == "" {
		voice = noVoice
	}
	fmt.Fprintf(sb, "Product: %s\n", req.ProductName)
	fmt.Fprintf(sb, "Effective brand tone: %s\n", req.EffectiveTone())
	fmt.Fprintf(sb, "Channel: %s\n", req.Channel)
	fmt.Fprintf(sb, "Extra context: %s\n\n", extra)
	sb.WriteString("Brand preset voice guidelines:\n")
	sb.WriteString(voice)
	sb.WriteString("\n\n")
}

func buildFreeformPrompt(req CreativeRequest) Prompt {
	var sb strings.Builder
	sb.WriteString("Create one ad creative for this product.\n\n")
	writeBrief(&sb, req)
	sb.WriteString("Answer with exactly these three sections, in this order, each starting with its marker on its own line:\n\n")
	sb.WriteString("HEADLINE:\n<a short, punchy headline>\n\n")
	sb.WriteString("PRIMARY_TEXT:\n<1-3 sentences of body copy optimized for the channel>\n\n")
	sb.WriteString("IMAGE_CONCEPT:\n<a clear visual idea for a designer or an image model>\n\n")
	sb.WriteString("Use markdown inside the sections if it helps. Do not return JSON. Do not add other sections.\n")
	return Prompt{System: freeformSystem, User: sb.String()}
}

func buildStructuredPrompt(req CreativeRequest) Prompt {
	n := req.VariationCount
	if n < 1 {
		n = DefaultVariationCount
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Create %d distinct ad creative variations for this product.\n\n", n)
	writeBrief(&sb, req)
	sb.WriteString("For EACH variation, generate:\n")
	sb.WriteString("- A short, punchy HEADLINE\n")
	sb.WriteString("- 1-3 sentence PRIMARY_TEXT optimized for the channel\n")
	sb.WriteString("- An IMAGE_CONCEPT: a clear visual idea for a designer or an image model\n")
	sb.WriteString("- A DALLE_PROMPT: a text prompt suitable for DALL-E style image generation\n")
	sb.WriteString("- SCORES: integers from 1 to 10 for:\n")
	for _, f := range ScoreFields {
		fmt.Fprintf(&sb, "  - %s\n", f.Key)
	}
	fmt.Fprintf(&sb, "\nReturn ONLY valid JSON: a single object with a \"variations\" array of exactly %d elements, in this exact structure:\n\n", n)
	writeSchema(&sb, n)
	return Prompt{System: structuredSystem, User: sb.String(), ExpectJSON: true, Variations: n}
}

func writeSchema(sb *strings.Builder, n int) {
	sb.WriteString("{\n  \"variations\": [\n")
	sb.WriteString("    {\n")
	fmt.Fprintf(sb, "      \"id\": %q,\n", VariationID(0))
	sb.WriteString("      \"headline\": \"...\",\n")
	sb.WriteString("      \"primary_text\": \"...\",\n")
	sb.WriteString("      \"image_concept\": \"...\",\n")
	sb.WriteString("      \"dalle_prompt\": \"...\",\n")
	sb.WriteString("      \"scores\": {\n")
	for i, f := range ScoreFields {
		sep := ","
		if i == len(ScoreFields)-1 {
			sep = ""
		}
		fmt.Fprintf(sb, "        %q: 0%s\n", f.Key, sep)
	}
	sb.WriteString("      }\n    }")
	for i := 1; i < n; i++ {
		fmt.Fprintf(sb, ",\n    {\n      \"id\": %q,\n      ...\n    }", VariationID(i))
	}
	sb.WriteString("\n  ]\n}\n")
}

// VariationID labels the i-th variation: A..Z, then V27, V28, ...
func VariationID(i int) string {
	if i >= 0 && i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("V%d", i+1)
}
