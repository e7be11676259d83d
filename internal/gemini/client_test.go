package gemini

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"interview-coach/internal/config"
	"interview-coach/internal/prompts"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(config.GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-2.5-flash",
		Timeout: 5 * time.Second,
	}, zerolog.Nop())
	client.baseURL = server.URL
	return client, server
}

func candidateResponse(text string) GenerateResponse {
	return GenerateResponse{
		Candidates: []Candidate{
			{Content: Content{Parts: []Part{{Text: text}}}},
		},
	}
}

func TestGenerateContent(t *testing.T) {
	var gotPath, gotKey string
	var gotRequest GenerateRequest

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
		require.NoError(t, json.NewEncoder(w).Encode(candidateResponse("1. Tell me about yourself.")))
	})

	text, err := client.GenerateContent("generate questions")
	require.NoError(t, err)
	require.Equal(t, "1. Tell me about yourself.", text)
	require.Equal(t, "/gemini-2.5-flash:generateContent", gotPath)
	require.Equal(t, "test-key", gotKey)
	require.Equal(t, "generate questions", gotRequest.Contents[0].Parts[0].Text)
}

func TestGenerateContentHTTPError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := client.GenerateContent("prompt")
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}

func TestGenerateContentAPIErrorEnvelope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		resp := GenerateResponse{Error: &APIError{Code: 400, Message: "API key not valid"}}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	_, err := client.GenerateContent("prompt")
	require.Error(t, err)
	require.Contains(t, err.Error(), "API key not valid")
}

func TestGenerateContentEmptyCandidates(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(GenerateResponse{}))
	})

	_, err := client.GenerateContent("prompt")
	require.Error(t, err)
}

func TestGenerateQuestionsUsesPrompt(t *testing.T) {
	var gotRequest GenerateRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
		require.NoError(t, json.NewEncoder(w).Encode(candidateResponse("1. q")))
	})

	_, err := client.GenerateQuestions("Backend Engineer", true, 10)
	require.NoError(t, err)

	prompt := gotRequest.Contents[0].Parts[0].Text
	require.Contains(t, prompt, "Backend Engineer")
	require.Contains(t, prompt, "exactly 10")
	require.Contains(t, prompt, "behavioral")
}

func TestGenerateComprehensiveFeedbackCleansFences(t *testing.T) {
	payload := `{"overallConfidence": 80, "answerRelevancy": 75, "communicationSkills": 85, "technicalSkills": null, "detailedFeedback": "Good."}`
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(candidateResponse("```json\n"+payload+"\n```")))
	})

	answers := []prompts.AnswerRecord{{Question: "q", Response: "a", Confidence: 70}}
	text, err := client.GenerateComprehensiveFeedback(answers, "Backend Engineer", false)
	require.NoError(t, err)
	require.Equal(t, payload, text)
	require.True(t, json.Valid([]byte(text)))
}

func TestCleanJSONResponse(t *testing.T) {
	require.Equal(t, `{"a":1}`, CleanJSONResponse("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, CleanJSONResponse("```\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, CleanJSONResponse(`{"a":1}`))
}
