package domain

// GeneratedImage is what the image model returned: a hosted URL or inline base64.
type GeneratedImage struct {
	URL           string `json:"url,omitempty"`
	B64JSON       string `json:"b64_json,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// SEOAnalysis is the model's review of a page's metadata and copy.
type SEOAnalysis struct {
	Score                   int      `json:"score"`
	Issues                  []string `json:"issues"`
	Suggestions             []string `json:"suggestions"`
	ImprovedTitle           string   `json:"improved_title"`
	ImprovedMetaDescription string   `json:"improved_meta_description"`
}
