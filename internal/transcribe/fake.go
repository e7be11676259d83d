package transcribe

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// FakeRecognizer проигрывает заранее заданный сценарий распознавания.
// Используется в тестах и демо-режиме без реального микрофона
type FakeRecognizer struct {
	script   []Result
	delay    time.Duration
	startErr error

	mu      sync.Mutex
	stopped chan struct{}
}

// NewFake создает движок со сценарием событий
func NewFake(script []Result, delay time.Duration) *FakeRecognizer {
	return &FakeRecognizer{script: script, delay: delay}
}

// NewFakeWithError создает движок, который не стартует
func NewFakeWithError(err error) *FakeRecognizer {
	return &FakeRecognizer{startErr: err}
}

func (f *FakeRecognizer) Start() (<-chan Result, error) {
	if f.startErr != nil {
		return nil, fmt.Errorf("fake recognizer: %w", f.startErr)
	}

	f.mu.Lock()
	f.stopped = make(chan struct{})
	stopped := f.stopped
	f.mu.Unlock()

	results := make(chan Result, len(f.script))
	go func() {
		defer close(results)
		for _, res := range f.script {
			if f.delay > 0 {
				time.Sleep(f.delay)
			}
			select {
			case <-stopped:
				return
			case results <- res:
			}
		}
	}()
	return results, nil
}

func (f *FakeRecognizer) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopped != nil {
		select {
		case <-f.stopped:
		default:
			close(f.stopped)
		}
	}
}

// ReaderRecognizer читает "речь" построчно из io.Reader: каждая строка —
// финальный кусок, пустая строка завершает запись. Движок останавливается
// сам, канал транскрипции это допускает
type ReaderRecognizer struct {
	scanner *bufio.Scanner
}

func NewReader(r io.Reader) *ReaderRecognizer {
	return &ReaderRecognizer{scanner: bufio.NewScanner(r)}
}

func (r *ReaderRecognizer) Start() (<-chan Result, error) {
	results := make(chan Result)
	go func() {
		defer close(results)
		for r.scanner.Scan() {
			line := strings.TrimSpace(r.scanner.Text())
			if line == "" {
				return
			}
			results <- Result{Text: line, IsFinal: true}
		}
	}()
	return results, nil
}

func (r *ReaderRecognizer) Stop() {}
