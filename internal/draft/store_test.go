// File: internal/draft/store_test.go
package draft_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/icherkasov/reportgen/api/schemas"
	"github.com/icherkasov/reportgen/internal/draft"
)

func newTestStore(t *testing.T) *draft.Store {
	t.Helper()
	s, err := draft.NewStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	model := schemas.ExampleModel()

	saved, err := s.Save(model)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	_, err = uuid.Parse(saved.ID)
	assert.NoError(t, err, "draft ID should be a UUID")

	loaded, err := s.Load(saved.ID)
	require.NoError(t, err)

	model.Normalize()
	if diff := cmp.Diff(model, loaded.Model); diff != "" {
		t.Errorf("loaded model differs from saved (-want +got):\n%s", diff)
	}
}

func TestRoundTripKeepsEmptyTables(t *testing.T) {
	s := newTestStore(t)

	// A module with no cases and a report with no defects must survive the
	// round trip as empty tables, not nils, so the form re-renders them.
	model := schemas.ExampleModel()
	model.Modules = []schemas.Module{{Title: "Пустой модуль"}}
	model.Defects = nil

	saved, err := s.Save(model)
	require.NoError(t, err)

	loaded, err := s.Load(saved.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Model.Modules, 1)
	assert.NotNil(t, loaded.Model.Modules[0].Cases)
	assert.Empty(t, loaded.Model.Modules[0].Cases)
	assert.NotNil(t, loaded.Model.Defects)
	assert.Empty(t, loaded.Model.Defects)
}

func TestLoadMissingDraft(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Load(uuid.NewString())
	assert.ErrorIs(t, err, draft.ErrNotFound)
}

func TestLoadRejectsNonUUID(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Load("../../etc/passwd")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, draft.ErrNotFound)
}

func TestLoadMalformedFile(t *testing.T) {
	s := newTestStore(t)
	id := uuid.NewString()
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), id+".json"), []byte("{not json"), 0o644))

	_, err := s.Load(id)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, draft.ErrNotFound)
}

func TestListNewestFirstAndSkipsBroken(t *testing.T) {
	s := newTestStore(t)

	first, err := s.Save(schemas.ExampleModel())
	require.NoError(t, err)
	second, err := s.Save(schemas.ExampleModel())
	require.NoError(t, err)

	// A corrupt file must not break the listing.
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), uuid.NewString()+".json"), []byte("garbage"), 0o644))

	infos, err := s.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.ElementsMatch(t,
		[]string{first.ID, second.ID},
		[]string{infos[0].ID, infos[1].ID})
	assert.False(t, infos[0].SavedAt.Before(infos[1].SavedAt), "listing should be newest first")
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	saved, err := s.Save(schemas.ExampleModel())
	require.NoError(t, err)

	require.NoError(t, s.Delete(saved.ID))
	_, err = s.Load(saved.ID)
	assert.ErrorIs(t, err, draft.ErrNotFound)
	assert.ErrorIs(t, s.Delete(saved.ID), draft.ErrNotFound)
}
