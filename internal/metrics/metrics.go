package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu                sync.RWMutex
	SessionsStarted   int64
	SessionsCompleted int64
	AnswersRecorded   int64
	FramesAnalyzed    int64
	EvaluatorCalls    int64
	EvaluatorSuccess  int64
	JudgeCalls        int64
	JudgeSuccess      int64
	LastUpdateTime    time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		LastUpdateTime: time.Now(),
	}
}

func (m *Metrics) IncrementSessionsStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsStarted++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementSessionsCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsCompleted++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementAnswersRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnswersRecorded++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementFramesAnalyzed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FramesAnalyzed++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementEvaluatorCall(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EvaluatorCalls++
	if success {
		m.EvaluatorSuccess++
	}
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementJudgeCall(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.JudgeCalls++
	if success {
		m.JudgeSuccess++
	}
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) GetSnapshot() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Metrics{
		SessionsStarted:   m.SessionsStarted,
		SessionsCompleted: m.SessionsCompleted,
		AnswersRecorded:   m.AnswersRecorded,
		FramesAnalyzed:    m.FramesAnalyzed,
		EvaluatorCalls:    m.EvaluatorCalls,
		EvaluatorSuccess:  m.EvaluatorSuccess,
		JudgeCalls:        m.JudgeCalls,
		JudgeSuccess:      m.JudgeSuccess,
		LastUpdateTime:    m.LastUpdateTime,
	}
}
