package questions

import (
	"fmt"
	"regexp"
	"strings"
)

// numberPrefix соответствует нумерации вида "7. " в выводе генератора
var numberPrefix = regexp.MustCompile(`^\d+[.)]\s*`)

// ParseList разбирает вывод генератора: по вопросу на строку,
// нумерация опциональна, пустые строки игнорируются, не больше limit
func ParseList(text string, limit int) []string {
	var parsed []string
	for _, line := range strings.Split(text, "\n") {
		q := strings.TrimSpace(line)
		if q == "" {
			continue
		}
		q = numberPrefix.ReplaceAllString(q, "")
		if q == "" {
			continue
		}
		parsed = append(parsed, q)
		if len(parsed) == limit {
			break
		}
	}
	return parsed
}

// Bank представляет упорядоченный список вопросов интервью.
// Заполняется один раз при старте сессии и не меняется до ее конца
type Bank struct {
	items           []string
	behavioralCount int
}

// NewBank создает банк вопросов. Для технической роли behavioralCount
// отделяет поведенческие вопросы от задач на программирование
func NewBank(items []string, behavioralCount int) (*Bank, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("банк вопросов пуст")
	}
	if behavioralCount < 0 || behavioralCount > len(items) {
		return nil, fmt.Errorf("behavioralCount (%d) вне диапазона [0, %d]", behavioralCount, len(items))
	}

	copied := make([]string, len(items))
	copy(copied, items)

	return &Bank{items: copied, behavioralCount: behavioralCount}, nil
}

func (b *Bank) Len() int {
	return len(b.items)
}

// At возвращает вопрос по индексу
func (b *Bank) At(i int) string {
	return b.items[i]
}

// All возвращает копию всех вопросов
func (b *Bank) All() []string {
	copied := make([]string, len(b.items))
	copy(copied, b.items)
	return copied
}

// Behavioral возвращает поведенческую часть банка
func (b *Bank) Behavioral() []string {
	return b.All()[:b.behavioralCount]
}

// Coding возвращает часть банка с задачами на программирование
func (b *Bank) Coding() []string {
	return b.All()[b.behavioralCount:]
}
