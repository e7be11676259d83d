package judge

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"interview-coach/internal/config"
	"interview-coach/internal/metrics"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(config.JudgeConfig{
		APIKey:  "test-key",
		Host:    "judge0-ce.p.rapidapi.com",
		Timeout: 5 * time.Second,
	}, nil, zerolog.Nop())
	client.baseURL = server.URL
	return client
}

func TestLanguageID(t *testing.T) {
	require.Equal(t, 71, LanguageID("python"))
	require.Equal(t, 63, LanguageID("javascript"))
	require.Equal(t, 62, LanguageID("Java"))
	require.Equal(t, 54, LanguageID("cpp"))
	// Неизвестный язык — python по умолчанию
	require.Equal(t, 71, LanguageID("brainfuck"))
}

func TestSubmit(t *testing.T) {
	var gotRequest submitRequest
	var gotHost, gotKey, gotQuery string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotHost = r.Header.Get("x-rapidapi-host")
		gotKey = r.Header.Get("x-rapidapi-key")
		gotQuery = r.URL.RawQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		w.WriteHeader(http.StatusCreated)
		require.NoError(t, json.NewEncoder(w).Encode(Submission{Stdout: "42\n"}))
	})

	submission, err := client.Submit("print(42)", "python", "input")
	require.NoError(t, err)
	require.Equal(t, "42\n", submission.Stdout)
	require.Equal(t, "judge0-ce.p.rapidapi.com", gotHost)
	require.Equal(t, "test-key", gotKey)
	require.Equal(t, "base64_encoded=false&wait=true", gotQuery)
	require.Equal(t, 71, gotRequest.LanguageID)
	require.Equal(t, "print(42)", gotRequest.SourceCode)
	require.Equal(t, "input", gotRequest.Stdin)
}

func TestSubmitHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusUnauthorized)
	})

	_, err := client.Submit("code", "python", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "401")
}

func TestSubmitCountsJudgeCalls(t *testing.T) {
	var status int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusCreated {
			http.Error(w, "rate limited", status)
			return
		}
		w.WriteHeader(status)
		require.NoError(t, json.NewEncoder(w).Encode(Submission{Stdout: "ok"}))
	})
	m := metrics.NewMetrics()
	client.metrics = m

	status = http.StatusCreated
	_, err := client.Submit("code", "python", "")
	require.NoError(t, err)

	status = http.StatusTooManyRequests
	_, err = client.Submit("code", "python", "")
	require.Error(t, err)

	snapshot := m.GetSnapshot()
	require.Equal(t, int64(2), snapshot.JudgeCalls)
	require.Equal(t, int64(1), snapshot.JudgeSuccess)
}

func TestGradeExactTrimmedMatch(t *testing.T) {
	tc := config.TestCase{Input: "2 7", Expected: "9"}

	result := Grade(tc, &Submission{Stdout: "9\n"})
	require.True(t, result.Pass)
	require.Equal(t, "9", result.Output)

	result = Grade(tc, &Submission{Stdout: "10\n"})
	require.False(t, result.Pass)
}

func TestGradeEmptyStdoutNeverPasses(t *testing.T) {
	// Пустой вывод не проходит даже при пустой ожидаемой строке
	tc := config.TestCase{Input: "", Expected: ""}
	result := Grade(tc, &Submission{Stdout: ""})
	require.False(t, result.Pass)
}

func TestGradeSurfacesErrors(t *testing.T) {
	tc := config.TestCase{Input: "x", Expected: "1"}

	result := Grade(tc, &Submission{Stderr: "NameError: name 'x' is not defined"})
	require.False(t, result.Pass)
	require.Contains(t, result.Output, "NameError")

	result = Grade(tc, &Submission{CompileOutput: "error: expected ';'"})
	require.False(t, result.Pass)
	require.Contains(t, result.Output, "expected ';'")
}

func TestRunTestCases(t *testing.T) {
	var stdins []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		stdins = append(stdins, req.Stdin)

		// Правильный ответ только для первого кейса
		stdout := "wrong"
		if req.Stdin == "case1" {
			stdout = "ok"
		}
		require.NoError(t, json.NewEncoder(w).Encode(Submission{Stdout: stdout}))
	})

	cases := []config.TestCase{
		{Input: "case1", Expected: "ok"},
		{Input: "case2", Expected: "ok"},
	}

	results, err := client.RunTestCases("code", "python", cases)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.True(t, results[0].Pass)
	require.False(t, results[1].Pass)
	require.Equal(t, []string{"case1", "case2"}, stdins)
}
