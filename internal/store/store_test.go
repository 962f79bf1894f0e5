package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mucm/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	root := t.TempDir()
	return New(filepath.Join(root, "src"), filepath.Join(root, "render"), nil)
}

func buildUseCase(t *testing.T, id, category string) *types.UseCase {
	t.Helper()
	uc, err := types.NewUseCase(id, "User Login", category, "Allows users to sign in", types.PriorityHigh)
	require.NoError(t, err)
	require.NoError(t, uc.AddView("business", "normal"))

	s, err := types.NewScenario(id+"-S01", "Happy Path", "The normal flow", "main")
	require.NoError(t, err)
	s.AddStep("user", "", "enters credentials", "")
	s.AddStep("system", "user", "validates credentials", "session created")
	s.Preconditions = append(s.Preconditions, types.NewCondition("account exists"))
	uc.AddScenario(s)

	uc.Preconditions = append(uc.Preconditions, types.NewCondition("service is reachable"))
	cond, err := types.NewLinkedCondition("registration done", types.TargetUseCase, "UC-REG-001", "depends_on")
	require.NoError(t, err)
	uc.Postconditions = append(uc.Postconditions, cond)

	ref, err := types.NewUseCaseReference("UC-REG-001", "depends_on", "needs an account")
	require.NoError(t, err)
	uc.References = append(uc.References, ref)

	bag := uc.FieldsFor("business")
	bag.Set("user_story", types.StringValue("As a user, I want to log in"))
	bag.Set("roi_estimate", types.NumberValue(2.5))
	bag.Set("approved", types.BoolValue(true))
	bag.Set("stakeholders", types.ListValue([]string{"sales", "support"}))

	uc.Extra.Set("jira_key", types.StringValue("AUTH-42"))
	return uc
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	st := newTestStore(t)
	uc := buildUseCase(t, "UC-AUT-001", "authentication")

	require.NoError(t, st.SaveSourceOnly(uc))

	loaded, err := st.LoadByID("UC-AUT-001")
	require.NoError(t, err)

	assert.Equal(t, uc.ID, loaded.ID)
	assert.Equal(t, uc.Title, loaded.Title)
	assert.Equal(t, uc.Priority, loaded.Priority)
	assert.Equal(t, uc.Views, loaded.Views)
	assert.Equal(t, uc.Metadata.Version, loaded.Metadata.Version)
	assert.True(t, uc.Metadata.UpdatedAt.Equal(loaded.Metadata.UpdatedAt))

	require.Len(t, loaded.Scenarios, 1)
	assert.Equal(t, uc.Scenarios[0].Steps, loaded.Scenarios[0].Steps)
	assert.Equal(t, uc.Scenarios[0].Status, loaded.Scenarios[0].Status)
	assert.Equal(t, uc.Preconditions, loaded.Preconditions)
	assert.Equal(t, uc.Postconditions, loaded.Postconditions)
	assert.Equal(t, uc.References, loaded.References)

	assert.True(t, uc.FieldsFor("business").Equal(loaded.FieldsFor("business")),
		"methodology bag did not round-trip")
	v, ok := loaded.Extra.Get("jira_key")
	require.True(t, ok)
	assert.Equal(t, "AUTH-42", v.AsString())
}

func TestSerialiseIsDeterministic(t *testing.T) {
	st := newTestStore(t)
	uc := buildUseCase(t, "UC-AUT-001", "authentication")
	require.NoError(t, st.SaveSourceOnly(uc))

	first, err := EncodeUseCase(uc)
	require.NoError(t, err)

	loaded, err := st.LoadByID("UC-AUT-001")
	require.NoError(t, err)
	second, err := EncodeUseCase(loaded)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestUnknownTopLevelKeysRoundTrip(t *testing.T) {
	st := newTestStore(t)
	uc := buildUseCase(t, "UC-AUT-001", "authentication")
	require.NoError(t, st.SaveSourceOnly(uc))

	path := filepath.Join(st.SourceDir(), "authentication", "UC-AUT-001.toml")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Top-level keys must precede the first table, so prepend.
	data = append([]byte("custom_note = \"kept verbatim\"\n"), data...)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := st.LoadByID("UC-AUT-001")
	require.NoError(t, err)
	v, ok := loaded.Extra.Get("custom_note")
	require.True(t, ok)
	assert.Equal(t, "kept verbatim", v.AsString())

	encoded, err := EncodeUseCase(loaded)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), "custom_note = 'kept verbatim'")
}

func TestLoadAllSkipsUnparseable(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.SaveSourceOnly(buildUseCase(t, "UC-AUT-001", "authentication")))
	require.NoError(t, st.SaveSourceOnly(buildUseCase(t, "UC-PAY-001", "payments")))

	bad := filepath.Join(st.SourceDir(), "payments", "UC-PAY-002.toml")
	require.NoError(t, os.WriteFile(bad, []byte("id = [broken"), 0o644))

	ucs, diags, err := st.LoadAll()
	require.NoError(t, err)
	assert.Len(t, ucs, 2)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].File, "UC-PAY-002.toml")

	// Sorted by id.
	assert.Equal(t, "UC-AUT-001", ucs[0].ID)
	assert.Equal(t, "UC-PAY-001", ucs[1].ID)
}

func TestLoadByIDNotFound(t *testing.T) {
	st := newTestStore(t)
	_, err := st.LoadByID("UC-XXX-999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveLeavesMetadataToCaller(t *testing.T) {
	st := newTestStore(t)
	uc := buildUseCase(t, "UC-AUT-001", "authentication")
	before := uc.Metadata

	require.NoError(t, st.SaveSourceOnly(uc))
	assert.Equal(t, before.Version, uc.Metadata.Version)
	assert.True(t, before.UpdatedAt.Equal(uc.Metadata.UpdatedAt))

	loaded, err := st.LoadByID("UC-AUT-001")
	require.NoError(t, err)
	assert.Equal(t, before.Version, loaded.Metadata.Version)
}

func TestDeleteRemovesSourceAndMarkdown(t *testing.T) {
	st := newTestStore(t)
	uc := buildUseCase(t, "UC-AUT-001", "authentication")
	require.NoError(t, st.SaveSourceOnly(uc))
	require.NoError(t, st.SaveMarkdownOnly("authentication", "UC-AUT-001-business-normal.md", "# User Login"))
	require.NoError(t, st.SaveMarkdownOnly("authentication", "UC-AUT-002-business-normal.md", "# Other"))

	require.NoError(t, st.Delete("UC-AUT-001"))

	_, err := st.LoadByID("UC-AUT-001")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = os.Stat(filepath.Join(st.MarkdownDir("authentication"), "UC-AUT-001-business-normal.md"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(st.MarkdownDir("authentication"), "UC-AUT-002-business-normal.md"))
	assert.NoError(t, err)
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.SaveSourceOnly(buildUseCase(t, "UC-AUT-001", "authentication")))

	entries, err := os.ReadDir(filepath.Join(st.SourceDir(), "authentication"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "UC-AUT-001.toml", entries[0].Name())
}

func TestActorStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	as := NewActorStore(dir, nil)

	actor, err := types.NewActor("customer", "Retail Customer", "persona", "🙂")
	require.NoError(t, err)
	actor.Fields.Set("role", types.StringValue("shopper"))
	require.NoError(t, as.Save(actor))

	loaded, err := as.Load("customer")
	require.NoError(t, err)
	assert.Equal(t, actor.Name, loaded.Name)
	assert.Equal(t, actor.Kind, loaded.Kind)
	assert.True(t, actor.Fields.Equal(loaded.Fields))

	all, err := as.LoadAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, as.Delete("customer"))
	_, err = as.Load("customer")
	assert.ErrorIs(t, err, types.ErrActorNotFound)
}
