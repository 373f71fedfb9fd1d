package worker

// Request is one unit of work read from the input stream: a single JSON
// object per line. image_path is the only recognized field.
type Request struct {
	ImagePath string `json:"image_path"`
}

// Response is the single reply emitted for each request, in receipt order.
type Response struct {
	Success    bool     `json:"success"`
	Text       string   `json:"text,omitempty"`
	Paragraphs []string `json:"paragraphs,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// readySignal is emitted exactly once, before the first request is consumed.
type readySignal struct {
	Ready bool `json:"ready"`
}

func failure(message string) Response {
	return Response{Success: false, Error: message}
}

func success(text string, paragraphs []string) Response {
	return Response{Success: true, Text: text, Paragraphs: paragraphs}
}
