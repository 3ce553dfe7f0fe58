package scribe

// Wire types for the generateContent endpoint. Only the fields this
// client reads or writes are modelled.

type generateRequest struct {
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"`
	ResponseSchema   *schema `json:"responseSchema,omitempty"`
}

// schema is a subset of the OpenAPI schema object the API accepts.
type schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*schema `json:"properties,omitempty"`
	Items       *schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// analysisSchema constrains the model output so the reply parses
// directly into an Analysis.
func analysisSchema() *schema {
	return &schema{
		Type: "OBJECT",
		Properties: map[string]*schema{
			"title": {
				Type:        "STRING",
				Description: "The full title of the document. Infer it from the text if not explicitly stated.",
			},
			"author": {
				Type:        "STRING",
				Description: "The author of the document. Use 'Unknown' if no author can be found.",
			},
			"year": {
				Type:        "INTEGER",
				Description: "The year the document was written or published as a number. Provide a reasonable estimate if not specified (e.g., 350 for 350 AD, -300 for 300 BC).",
			},
			"description": {
				Type:        "STRING",
				Description: "A concise, one-paragraph summary of the document's esoteric content, themes, and purpose.",
			},
			"tags": {
				Type:        "ARRAY",
				Description: "Up to 5 relevant esoteric tags that categorize the text. Choose from: " + tagVocabulary + ". If none of these apply, you can create new, relevant tags.",
				Items:       &schema{Type: "STRING"},
			},
		},
		Required: []string{"title", "author", "year", "description", "tags"},
	}
}
