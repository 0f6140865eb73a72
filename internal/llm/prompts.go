package llm

import _ "embed"

//go:embed prompts/insurance_v1.txt
var promptInsuranceV1 string

// PromptTemplate returns the extraction rulebook for the given version and
// whether the version was recognized. The rulebook is a versioned data
// asset; pipeline code never embeds instruction text inline.
func PromptTemplate(version string) (string, bool) {
	switch version {
	case "insurance_v1":
		return promptInsuranceV1, true
	default:
		return promptInsuranceV1, false
	}
}
