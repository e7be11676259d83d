package transcribe

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// UpdateFunc вызывается на каждом промежуточном или финальном событии.
// runningText — лучший на данный момент текст для живого отображения,
// он не является итоговым ответом
type UpdateFunc func(runningText string, isFinal bool)

// CompleteFunc вызывается ровно один раз по завершении записи
// с накопленным итоговым транскриптом (возможно пустым)
type CompleteFunc func(finalTranscript string)

// Channel превращает живую речь в текст: накапливает финальные куски
// распознавания и отдает итоговый транскрипт по завершении записи
type Channel struct {
	mu         sync.Mutex
	recognizer Recognizer
	recording  bool
	full       strings.Builder
	onUpdate   UpdateFunc
	onComplete CompleteFunc
	log        zerolog.Logger
}

// NewChannel создает канал транскрипции поверх движка распознавания.
// recognizer может быть nil — тогда запись недоступна
func NewChannel(recognizer Recognizer, logger zerolog.Logger) *Channel {
	return &Channel{
		recognizer: recognizer,
		log:        logger,
	}
}

// SetTranscriptCallback регистрирует обработчик промежуточных обновлений
func (c *Channel) SetTranscriptCallback(fn UpdateFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUpdate = fn
}

// SetRecordingCompleteCallback регистрирует обработчик завершения записи
func (c *Channel) SetRecordingCompleteCallback(fn CompleteFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onComplete = fn
}

// IsRecording сообщает, идет ли запись
func (c *Channel) IsRecording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recording
}

// Start начинает запись. Возвращает false, если запись уже идет
// или захват речи недоступен. Предыдущий частичный транскрипт очищается
func (c *Channel) Start() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.recording || c.recognizer == nil {
		return false
	}

	results, err := c.recognizer.Start()
	if err != nil {
		c.log.Error().Err(err).Msg("ошибка запуска распознавания речи")
		return false
	}

	c.full.Reset()
	c.recording = true

	go c.consume(results)
	return true
}

// Stop завершает запись. Вызов без активной записи — no-op.
// Итоговый транскрипт придет через callback, когда движок
// закроет поток событий
func (c *Channel) Stop() {
	c.mu.Lock()
	recording := c.recording
	c.mu.Unlock()

	if recording {
		c.recognizer.Stop()
	}
}

// consume читает события движка до закрытия потока
// и публикует ровно одно завершение записи
func (c *Channel) consume(results <-chan Result) {
	for res := range results {
		c.mu.Lock()
		if res.IsFinal && res.Text != "" {
			c.full.WriteString(res.Text)
			c.full.WriteString(" ")
		}
		running := strings.TrimSpace(c.full.String())
		if !res.IsFinal && res.Text != "" {
			if running != "" {
				running += " "
			}
			running += res.Text
		}
		update := c.onUpdate
		c.mu.Unlock()

		if update != nil {
			update(running, res.IsFinal)
		}
	}

	c.mu.Lock()
	c.recording = false
	final := strings.TrimSpace(c.full.String())
	complete := c.onComplete
	c.mu.Unlock()

	// Пустой транскрипт — валидное завершение: кандидат мог промолчать
	if complete != nil {
		complete(final)
	}
}
