package transcribe

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func waitForTranscript(t *testing.T, done <-chan string) string {
	t.Helper()
	select {
	case transcript := <-done:
		return transcript
	case <-time.After(2 * time.Second):
		t.Fatal("завершение записи не пришло")
		return ""
	}
}

func TestChannelAccumulatesFinalChunks(t *testing.T) {
	script := []Result{
		{Text: "my name", IsFinal: false},
		{Text: "my name is", IsFinal: true},
		{Text: "Alex", IsFinal: true},
	}
	c := NewChannel(NewFake(script, 0), zerolog.Nop())

	done := make(chan string, 1)
	c.SetRecordingCompleteCallback(func(final string) {
		done <- final
	})

	require.True(t, c.Start())
	require.Equal(t, "my name is Alex", waitForTranscript(t, done))
	require.False(t, c.IsRecording())
}

func TestChannelEmptyTranscriptIsValidCompletion(t *testing.T) {
	// Кандидат промолчал: финальных кусков нет
	c := NewChannel(NewFake(nil, 0), zerolog.Nop())

	done := make(chan string, 1)
	c.SetRecordingCompleteCallback(func(final string) {
		done <- final
	})

	require.True(t, c.Start())
	require.Equal(t, "", waitForTranscript(t, done))
}

func TestChannelSingleCompletionPerRecording(t *testing.T) {
	script := []Result{{Text: "hello", IsFinal: true}}
	c := NewChannel(NewFake(script, 0), zerolog.Nop())

	var mu sync.Mutex
	completions := 0
	done := make(chan string, 2)
	c.SetRecordingCompleteCallback(func(final string) {
		mu.Lock()
		completions++
		mu.Unlock()
		done <- final
	})

	require.True(t, c.Start())
	waitForTranscript(t, done)
	c.Stop()
	c.Stop()

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, completions)
}

func TestChannelStartWhileRecording(t *testing.T) {
	script := []Result{{Text: "a", IsFinal: true}}
	c := NewChannel(NewFake(script, 50*time.Millisecond), zerolog.Nop())

	require.True(t, c.Start())
	require.False(t, c.Start())
}

func TestChannelStartWithoutRecognizer(t *testing.T) {
	c := NewChannel(nil, zerolog.Nop())
	require.False(t, c.Start())
	// Stop без записи — no-op
	c.Stop()
}

func TestChannelStartEngineError(t *testing.T) {
	c := NewChannel(NewFakeWithError(fmt.Errorf("микрофон недоступен")), zerolog.Nop())
	require.False(t, c.Start())
	require.False(t, c.IsRecording())
}

func TestChannelRunningTextUpdates(t *testing.T) {
	script := []Result{
		{Text: "I worked", IsFinal: false},
		{Text: "I worked on", IsFinal: true},
		{Text: "a team", IsFinal: false},
	}
	c := NewChannel(NewFake(script, 0), zerolog.Nop())

	var mu sync.Mutex
	var updates []string
	c.SetTranscriptCallback(func(running string, isFinal bool) {
		mu.Lock()
		updates = append(updates, running)
		mu.Unlock()
	})

	done := make(chan string, 1)
	c.SetRecordingCompleteCallback(func(final string) {
		done <- final
	})

	require.True(t, c.Start())
	waitForTranscript(t, done)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, updates, 3)
	require.Equal(t, "I worked", updates[0])
	require.Equal(t, "I worked on", updates[1])
	require.Equal(t, "I worked on a team", updates[2])
}

func TestChannelClearsPreviousTranscript(t *testing.T) {
	script := []Result{{Text: "first answer", IsFinal: true}}
	recognizer := NewFake(script, 0)
	c := NewChannel(recognizer, zerolog.Nop())

	done := make(chan string, 1)
	c.SetRecordingCompleteCallback(func(final string) {
		done <- final
	})

	require.True(t, c.Start())
	require.Equal(t, "first answer", waitForTranscript(t, done))

	// Вторая запись начинается с чистого транскрипта
	require.True(t, c.Start())
	require.Equal(t, "first answer", waitForTranscript(t, done))
}

func TestReaderRecognizer(t *testing.T) {
	input := strings.NewReader("line one\nline two\n\nignored\n")
	c := NewChannel(NewReader(input), zerolog.Nop())

	done := make(chan string, 1)
	c.SetRecordingCompleteCallback(func(final string) {
		done <- final
	})

	require.True(t, c.Start())
	require.Equal(t, "line one line two", waitForTranscript(t, done))
}
