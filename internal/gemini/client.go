package gemini

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"interview-coach/internal/config"
	"interview-coach/internal/prompts"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// Client представляет клиент внешнего генератора вопросов и фидбека
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// New создает новый клиент Gemini
func New(cfg config.GeminiConfig, logger zerolog.Logger) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: logger,
	}
}

// GenerateContent делает запрос к API и возвращает текст первого кандидата
func (c *Client) GenerateContent(prompt string) (string, error) {
	request := GenerateRequest{
		Contents: []Content{
			{Parts: []Part{{Text: prompt}}},
		},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Error().Int("status", resp.StatusCode).Msg("генератор вернул ошибку")
		return "", fmt.Errorf("HTTP ошибка %d: %s", resp.StatusCode, string(body))
	}

	var generateResp GenerateResponse
	err = json.Unmarshal(body, &generateResp)
	if err != nil {
		return "", fmt.Errorf("ошибка парсинга ответа: %w", err)
	}

	if generateResp.Error != nil {
		return "", fmt.Errorf("Gemini API ошибка: %s", generateResp.Error.Message)
	}

	if len(generateResp.Candidates) == 0 || len(generateResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("пустой ответ от Gemini")
	}

	return generateResp.Candidates[0].Content.Parts[0].Text, nil
}

// GenerateQuestions генерирует вопросы интервью по названию позиции
func (c *Client) GenerateQuestions(jobTitle string, isTechnical bool, count int) (string, error) {
	return c.GenerateContent(prompts.BuildQuestionsPrompt(jobTitle, isTechnical, count))
}

// GenerateMockQuestions генерирует вопросы mock-интервью по резюме и вакансии
func (c *Client) GenerateMockQuestions(resumeText, jobDescription string, isTechnical bool) (string, error) {
	return c.GenerateContent(prompts.BuildMockQuestionsPrompt(resumeText, jobDescription, isTechnical))
}

// EvaluateAnswer оценивает один ответ ("Score: X/10" + свободный текст)
func (c *Client) EvaluateAnswer(question, answer, jobContext string) (string, error) {
	return c.GenerateContent(prompts.BuildEvaluationPrompt(question, answer, jobContext))
}

// GenerateComprehensiveFeedback запрашивает итоговый фидбек в формате JSON.
// Markdown-обертка вокруг JSON удаляется, сам JSON здесь не валидируется:
// обработку некорректного ответа выполняет scoring
func (c *Client) GenerateComprehensiveFeedback(answers []prompts.AnswerRecord, jobContext string, isTechnical bool) (string, error) {
	text, err := c.GenerateContent(prompts.BuildComprehensiveFeedbackPrompt(answers, jobContext, isTechnical))
	if err != nil {
		return "", err
	}
	return CleanJSONResponse(text), nil
}

// CleanJSONResponse удаляет markdown форматирование из ответа
func CleanJSONResponse(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```", "")
	return strings.TrimSpace(response)
}
