package ocr

// Request is the request body for the Mistral OCR API.
type Request struct {
	Model              string      `json:"model"`
	Document           DocumentURL `json:"document"`
	IncludeImageBase64 bool        `json:"include_image_base64"`
}

// DocumentURL wraps the document data URL.
type DocumentURL struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url"`
}

// Response is the OCR API response: one entry per document page.
type Response struct {
	Pages []Page `json:"pages"`
}

// Page is a single page of OCR output.
type Page struct {
	Index    int    `json:"index"`
	Markdown string `json:"markdown"`
}
