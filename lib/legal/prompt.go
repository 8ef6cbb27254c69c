package legal

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a legal document analyzer that identifies the roles of people mentioned in Indonesian legal texts."

// Indonesian courtroom terminology mapped to the role enumeration, plus
// the defendant-default rule for texts that never identify a plaintiff.
const roleRules = `Role terminology, Indonesian to classification:
- "Tergugat" or "Terdakwa" means defendant
- "Penggugat" or "Pelapor" means plaintiff
- "Kuasa Hukum", "Pengacara", "Penasihat Hukum", "Hakim" or "Jaksa" means representative
- If a role cannot be determined, classify the person as "unknown"
- If no plaintiff is identifiable in the text, default the accused parties to "defendant"`

// buildPrompt formats the single-text instruction. The person names have
// already been detected by the NER stage; the model only assigns roles.
func buildPrompt(text string, personNames []string) string {
	quoted := make([]string, len(personNames))
	for i, name := range personNames {
		quoted[i] = fmt.Sprintf("%q", name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the following text and identify the roles of these people: %s.\n\n", strings.Join(quoted, ", "))
	b.WriteString("For each person, determine if they are a defendant, plaintiff, or representative (like a lawyer, judge, etc.).\n")
	b.WriteString(roleRules)
	fmt.Fprintf(&b, "\n\nText:\n```\n%s\n```\n\n", text)
	b.WriteString(`Return only a JSON object, no prose and no code fences, with this structure:
{
  "entities": [
    {
      "name": "<person name>",
      "role": "<defendant|plaintiff|representative|unknown>",
      "confidence": <float between 0 and 1>
    }
  ]
}`)
	return b.String()
}

// buildBatchPrompt formats the multi-text instruction. Unlike the single
// path, the model both detects and classifies people here, so each input
// is enumerated with a 1-based index for the response to key on.
func buildBatchPrompt(texts []string) string {
	var b strings.Builder
	b.WriteString("Analyze each of the following texts. For every text, find the people mentioned and identify their legal roles.\n\n")
	b.WriteString(roleRules)
	b.WriteString("\n\n")
	for i, text := range texts {
		fmt.Fprintf(&b, "Text %d:\n```\n%s\n```\n\n", i+1, text)
	}
	b.WriteString(`Return only a JSON object, no prose and no code fences, with this structure:
{
  "results": [
    {
      "text_index": <1-based index of the text>,
      "entities": [
        {
          "name": "<person name>",
          "role": "<defendant|plaintiff|representative|unknown>",
          "confidence": <float between 0 and 1>
        }
      ]
    }
  ]
}`)
	return b.String()
}
