//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/coursetrans/coursetrans/internal/model"
	"github.com/coursetrans/coursetrans/internal/repository/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRepositories_Integration exercises keys, translations, associations
// and jobs against a real PostgreSQL instance.
func TestRepositories_Integration(t *testing.T) {
	// Setup real PostgreSQL using testcontainers
	pool := common.SetupTestDB(t)

	keyRepo := NewKeyRepository(pool)
	transRepo := NewTranslationRepository(pool)
	assocRepo := NewAssociationRepository(pool)
	jobRepo := NewJobRepository(pool)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var keyID int64

	t.Run("SaveKeyWithTranslation and GetByComponentAndKey", func(t *testing.T) {
		var err error
		keyID, err = keyRepo.SaveKeyWithTranslation(ctx, SaveKeyParams{
			Component:   "mod_page",
			Key:         "4f2c91",
			SourceText:  "Course overview",
			Lang:        "de",
			Translation: "Kursübersicht",
			CourseID:    42,
		})
		require.NoError(t, err)
		require.NotZero(t, keyID)

		key, err := keyRepo.GetByComponentAndKey(ctx, "mod_page", "4f2c91")
		require.NoError(t, err)
		assert.Equal(t, keyID, key.ID)
		assert.Equal(t, "Course overview", key.SourceText)
	})

	t.Run("re-capture refreshes source text but keeps identity", func(t *testing.T) {
		again, err := keyRepo.SaveKeyWithTranslation(ctx, SaveKeyParams{
			Component:  "mod_page",
			Key:        "4f2c91",
			SourceText: "Course overview (updated)",
		})
		require.NoError(t, err)
		assert.Equal(t, keyID, again)

		key, err := keyRepo.GetByComponentAndKey(ctx, "mod_page", "4f2c91")
		require.NoError(t, err)
		assert.Equal(t, "Course overview (updated)", key.SourceText)
	})

	t.Run("translation upsert is idempotent per (key, lang)", func(t *testing.T) {
		require.NoError(t, transRepo.Upsert(ctx, keyID, "de", "Kursübersicht", false))
		require.NoError(t, transRepo.Upsert(ctx, keyID, "de", "Kursübersicht", true))

		translation, err := transRepo.GetByKeyAndLanguage(ctx, "mod_page", "4f2c91", "de")
		require.NoError(t, err)
		assert.Equal(t, "Kursübersicht", translation.Text)
		assert.True(t, translation.Reviewed)
	})

	t.Run("association pagination by cursor", func(t *testing.T) {
		// Associate two more keys with the course
		for _, k := range []struct{ key, text string }{
			{"a1b2c3", "Add a new discussion topic"},
			{"d4e5f6", "Submit assignment"},
		} {
			id, err := keyRepo.SaveKeyWithTranslation(ctx, SaveKeyParams{
				Component:  "mod_forum",
				Key:        k.key,
				SourceText: k.text,
				CourseID:   42,
			})
			require.NoError(t, err)
			require.NotZero(t, id)
		}

		count, err := assocRepo.CountByCourse(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		page1, err := assocRepo.NextPage(ctx, 42, 0, 2)
		require.NoError(t, err)
		require.Len(t, page1, 2)

		cursor := page1[len(page1)-1].AssociationID
		page2, err := assocRepo.NextPage(ctx, 42, cursor, 2)
		require.NoError(t, err)
		require.Len(t, page2, 1)
		assert.Greater(t, page2[0].AssociationID, cursor)
	})

	t.Run("job lifecycle", func(t *testing.T) {
		opts, err := model.EncodeOptions(&model.JobOptions{
			SourceLang:  "en",
			TargetLangs: []string{"de"},
			BatchSize:   2,
		})
		require.NoError(t, err)

		job := &model.CourseJob{
			CourseID:  42,
			UserID:    1,
			Status:    model.JobStatusPending,
			Total:     3,
			BatchSize: 2,
			Options:   opts,
		}
		require.NoError(t, jobRepo.Create(ctx, job))
		require.NotZero(t, job.ID)

		job.Status = model.JobStatusComplete
		job.Processed = 3
		job.LastID = 99
		require.NoError(t, jobRepo.Update(ctx, job))

		loaded, err := jobRepo.Get(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusComplete, loaded.Status)
		assert.Equal(t, 3, loaded.Processed)
		assert.Equal(t, int64(99), loaded.LastID)
	})

	t.Run("bundle", func(t *testing.T) {
		bundle, err := transRepo.Bundle(ctx, "de")
		require.NoError(t, err)
		assert.Equal(t, "Kursübersicht", bundle["mod_page:4f2c91"])
	})
}
