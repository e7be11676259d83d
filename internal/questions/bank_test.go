package questions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseListNumbered(t *testing.T) {
	text := "1. Tell me about yourself.\n2) Describe a conflict you resolved.\n\n3. Why this company?"

	parsed := ParseList(text, 10)
	require.Equal(t, []string{
		"Tell me about yourself.",
		"Describe a conflict you resolved.",
		"Why this company?",
	}, parsed)
}

func TestParseListUnnumbered(t *testing.T) {
	text := "What are your strengths?\nWhere do you see yourself in five years?"

	parsed := ParseList(text, 10)
	require.Len(t, parsed, 2)
	require.Equal(t, "What are your strengths?", parsed[0])
}

func TestParseListLimit(t *testing.T) {
	text := "1. a\n2. b\n3. c\n4. d"

	parsed := ParseList(text, 2)
	require.Equal(t, []string{"a", "b"}, parsed)
}

func TestParseListEmptyAndWhitespace(t *testing.T) {
	require.Empty(t, ParseList("", 10))
	require.Empty(t, ParseList("\n  \n\t\n", 10))
	// Строка из одной нумерации без текста отбрасывается
	require.Empty(t, ParseList("1.\n2.", 10))
}

func TestNewBankValidation(t *testing.T) {
	_, err := NewBank(nil, 0)
	require.Error(t, err)

	_, err = NewBank([]string{"q1"}, 2)
	require.Error(t, err)

	_, err = NewBank([]string{"q1"}, -1)
	require.Error(t, err)
}

func TestBankSplit(t *testing.T) {
	items := []string{"b1", "b2", "c1", "c2", "c3"}
	bank, err := NewBank(items, 2)
	require.NoError(t, err)

	require.Equal(t, 5, bank.Len())
	require.Equal(t, "b1", bank.At(0))
	require.Equal(t, []string{"b1", "b2"}, bank.Behavioral())
	require.Equal(t, []string{"c1", "c2", "c3"}, bank.Coding())
}

func TestBankImmutable(t *testing.T) {
	items := []string{"q1", "q2"}
	bank, err := NewBank(items, 0)
	require.NoError(t, err)

	// Ни исходный слайс, ни выдача All не влияют на содержимое банка
	items[0] = "changed"
	all := bank.All()
	all[1] = "changed"

	require.Equal(t, "q1", bank.At(0))
	require.Equal(t, "q2", bank.At(1))
}
