package judge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"interview-coach/internal/config"
	"interview-coach/internal/metrics"

	"github.com/rs/zerolog"
)

// Идентификаторы языков Judge0 CE
var languageIDs = map[string]int{
	"python":     71,
	"javascript": 63,
	"java":       62,
	"cpp":        54,
}

const defaultLanguageID = 71 // python

// LanguageID возвращает идентификатор языка для judge
func LanguageID(language string) int {
	if id, ok := languageIDs[strings.ToLower(language)]; ok {
		return id
	}
	return defaultLanguageID
}

// Client представляет клиент внешнего судьи кода
type Client struct {
	apiKey  string
	host    string
	baseURL string
	client  *http.Client
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// New создает новый клиент judge
func New(cfg config.JudgeConfig, m *metrics.Metrics, logger zerolog.Logger) *Client {
	if m == nil {
		m = metrics.NewMetrics()
	}
	return &Client{
		apiKey:  cfg.APIKey,
		host:    cfg.Host,
		baseURL: fmt.Sprintf("https://%s", cfg.Host),
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		metrics: m,
		log:     logger,
	}
}

// Submit отправляет код на исполнение с ожиданием результата
func (c *Client) Submit(sourceCode, language, stdin string) (*Submission, error) {
	submission, err := c.submit(sourceCode, language, stdin)
	c.metrics.IncrementJudgeCall(err == nil)
	return submission, err
}

func (c *Client) submit(sourceCode, language, stdin string) (*Submission, error) {
	request := submitRequest{
		SourceCode: sourceCode,
		LanguageID: LanguageID(language),
		Stdin:      stdin,
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	url := c.baseURL + "/submissions?base64_encoded=false&wait=true"
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-rapidapi-host", c.host)
	req.Header.Set("x-rapidapi-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.log.Error().Int("status", resp.StatusCode).Msg("judge вернул ошибку")
		return nil, fmt.Errorf("HTTP ошибка %d: %s", resp.StatusCode, string(body))
	}

	var submission Submission
	err = json.Unmarshal(body, &submission)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга ответа: %w", err)
	}

	return &submission, nil
}

// RunTestCases прогоняет решение по всем тест-кейсам задачи.
// Проверка — точное совпадение stdout с ожидаемой строкой после trim
func (c *Client) RunTestCases(sourceCode, language string, testCases []config.TestCase) ([]CaseResult, error) {
	results := make([]CaseResult, 0, len(testCases))

	for _, tc := range testCases {
		submission, err := c.Submit(sourceCode, language, tc.Input)
		if err != nil {
			return nil, err
		}
		results = append(results, Grade(tc, submission))
	}

	return results, nil
}

// Grade сравнивает вывод решения с ожидаемым значением
func Grade(tc config.TestCase, submission *Submission) CaseResult {
	output := strings.TrimSpace(submission.Stdout)
	pass := submission.Stdout != "" && output == strings.TrimSpace(tc.Expected)

	// При отсутствии stdout показываем кандидату stderr или вывод компилятора
	if output == "" {
		if submission.Stderr != "" {
			output = submission.Stderr
		} else {
			output = submission.CompileOutput
		}
	}

	return CaseResult{
		Input:    tc.Input,
		Expected: tc.Expected,
		Output:   output,
		Pass:     pass,
	}
}
