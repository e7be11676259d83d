package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := Connect(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSaveAndLoadAttempt(t *testing.T) {
	repo := testRepository(t)

	score := 82.5
	dsaScore := 80
	attempt := &Attempt{
		SessionID:          "abc-123",
		Mode:               "practice",
		Technical:          true,
		HireabilityScore:   &score,
		HireabilityVerdict: "Highly Hireable",
		DSAScore:           &dsaScore,
		DSALevel:           "Excellent",
		ProblemsSolved:     4,
	}

	require.NoError(t, repo.Save(attempt))
	require.NotZero(t, attempt.ID)

	loaded, err := repo.BySession("abc-123")
	require.NoError(t, err)
	require.Equal(t, "practice", loaded.Mode)
	require.True(t, loaded.Technical)
	require.NotNil(t, loaded.HireabilityScore)
	require.Equal(t, 82.5, *loaded.HireabilityScore)
	require.Equal(t, 80, *loaded.DSAScore)
	require.Equal(t, 4, loaded.ProblemsSolved)
}

func TestSaveAttemptWithoutScores(t *testing.T) {
	repo := testRepository(t)

	// Фидбек не распарсился: балл невычислим, но попытка сохраняется
	require.NoError(t, repo.Save(&Attempt{
		SessionID: "no-scores",
		Mode:      "mock",
	}))

	loaded, err := repo.BySession("no-scores")
	require.NoError(t, err)
	require.Nil(t, loaded.HireabilityScore)
	require.Nil(t, loaded.DSAScore)
}

func TestRecentOrdering(t *testing.T) {
	repo := testRepository(t)

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Save(&Attempt{
			SessionID: id,
			Mode:      "practice",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	recent, err := repo.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "third", recent[0].SessionID)
	require.Equal(t, "second", recent[1].SessionID)
}

func TestDuplicateSessionRejected(t *testing.T) {
	repo := testRepository(t)

	require.NoError(t, repo.Save(&Attempt{SessionID: "dup", Mode: "practice"}))
	require.Error(t, repo.Save(&Attempt{SessionID: "dup", Mode: "practice"}))
}
