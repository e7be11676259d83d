package judge

// Submission представляет результат одного прогона кода
type Submission struct {
	Stdout        string `json:"stdout"`
	Stderr        string `json:"stderr"`
	CompileOutput string `json:"compile_output"`
	Message       string `json:"message,omitempty"`
}

// submitRequest представляет тело запроса к judge
type submitRequest struct {
	SourceCode string `json:"source_code"`
	LanguageID int    `json:"language_id"`
	Stdin      string `json:"stdin"`
}

// CaseResult представляет проверку решения на одном тест-кейсе
type CaseResult struct {
	Input    string
	Expected string
	Output   string
	Pass     bool
}
