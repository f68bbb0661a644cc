package search

// Result is one matching OCR page.
type Result struct {
	Title   string  `json:"title" yaml:"title"`
	Author  string  `json:"author" yaml:"author"`
	Page    string  `json:"page" yaml:"page"`
	Content string  `json:"content" yaml:"content"`
	Score   float64 `json:"score" yaml:"score"`
	ISBN    string  `json:"isbn" yaml:"isbn"`
	URL     string  `json:"url" yaml:"url"`
}

// Response holds results ordered by descending score.
type Response struct {
	Data []Result `json:"data" yaml:"data"`
}

func emptyResponse() *Response {
	return &Response{Data: []Result{}}
}
