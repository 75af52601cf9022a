package store

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/dmitrijs2005/keepers/internal/catalog"
	"github.com/dmitrijs2005/keepers/internal/logging"
	"github.com/dmitrijs2005/keepers/internal/migration"
	"github.com/dmitrijs2005/keepers/internal/models"
	"github.com/dmitrijs2005/keepers/internal/repositories/records"
	"github.com/dmitrijs2005/keepers/internal/storage"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpDoc = []cmp.Option{
	cmp.AllowUnexported(models.ActiveSelection{}),
	cmpopts.EquateEmpty(),
}

type event struct {
	name  string
	props map[string]any
}

type recorder struct {
	mu     sync.Mutex
	events []event
}

func (r *recorder) Capture(_ context.Context, name string, props map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{name: name, props: props})
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, e.name)
	}
	return out
}

func setupRepo(t *testing.T) records.Repository {
	t.Helper()
	repos, err := storage.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos.Records
}

func newStore(t *testing.T, opts ...Option) (*Store, records.Repository) {
	t.Helper()
	repo := setupRepo(t)
	s := New(repo, catalog.Default(), opts...)
	require.NoError(t, s.Initialize(context.Background()))
	return s, repo
}

func reload(t *testing.T, repo records.Repository) *Store {
	t.Helper()
	s := New(repo, catalog.Default())
	require.NoError(t, s.Initialize(context.Background()))
	return s
}

func assertCompletionInvariant(t *testing.T, doc models.Document) {
	t.Helper()
	for _, c := range doc.Collections {
		for _, it := range c.Items {
			assert.Equal(t, models.IsComplete(it.Owned, it.Required), it.Completed,
				"collection %s item %s", c.ID, it.ItemID)
		}
	}
}

func assertActiveInvariant(t *testing.T, doc models.Document) {
	t.Helper()
	a := doc.Settings.Active
	if a.IsAll() {
		return
	}
	assert.NotEmpty(t, a.IDs())
	assert.Less(t, a.Count(doc.CollectionIDs()), len(doc.Collections), "explicit subset covers every collection")
}

func TestOperationsBeforeInitialize(t *testing.T) {
	s := New(setupRepo(t), catalog.Default())
	ctx := context.Background()

	assert.False(t, s.Ready())
	require.ErrorIs(t, s.AdjustQuantity(ctx, "workbenches", "scrap-metal", 1), ErrNotInitialized)
	_, err := s.CreateCollection(ctx, "x")
	require.ErrorIs(t, err, ErrNotInitialized)
	_, err = s.Export()
	require.ErrorIs(t, err, ErrNotInitialized)
	require.ErrorIs(t, s.Reset(ctx), ErrNotInitialized)
	assert.Empty(t, s.Snapshot().Collections)
}

func TestInitialize_FreshInstall(t *testing.T) {
	s, repo := newStore(t)
	cat := catalog.Default()

	doc := s.Snapshot()
	assert.Equal(t, cat.IDs(), doc.CollectionIDs())
	assert.False(t, s.IsActive(migration.DemotedCollectionID))
	for _, id := range cat.IDs() {
		if id != migration.DemotedCollectionID {
			assert.True(t, s.IsActive(id), id)
		}
	}
	assert.False(t, doc.Settings.Active.IsAll())
	assert.Len(t, s.ActiveCollections(), len(cat.IDs())-1)

	raw, err := repo.Get(context.Background(), storage.DocumentKey)
	require.NoError(t, err)
	stored, err := models.DecodeStored(raw)
	require.NoError(t, err)
	if diff := cmp.Diff(doc, stored, cmpDoc...); diff != "" {
		t.Fatalf("stored state differs (-live +stored):\n%s", diff)
	}
}

func TestInitialize_VersionOneAllActive(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	v1 := catalog.Default().DefaultDocument()
	raw, err := models.EncodeStored(v1)
	require.NoError(t, err)
	require.NoError(t, repo.Set(ctx, storage.DocumentKey, raw))

	s := New(repo, catalog.Default())
	require.NoError(t, s.Initialize(ctx))

	want := []string{}
	for _, id := range catalog.Default().IDs() {
		if id != migration.DemotedCollectionID {
			want = append(want, id)
		}
	}
	assert.Equal(t, want, s.Settings().Active.IDs())
}

func TestInitialize_UnreadableDataFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)
	require.NoError(t, repo.Set(ctx, storage.VersionKey, []byte("2")))
	require.NoError(t, repo.Set(ctx, storage.DocumentKey, []byte(`{"collections":"nope"}`)))

	var buf bytes.Buffer
	s := New(repo, catalog.Default(), WithLogger(logging.New(&buf, slog.LevelDebug)))
	require.NoError(t, s.Initialize(ctx))

	assert.Equal(t, catalog.Default().IDs(), s.Snapshot().CollectionIDs())
	assert.True(t, s.Settings().Active.IsAll())
	assert.Contains(t, buf.String(), "stored data is unreadable")
}

type failingMigrator struct{ err error }

func (f failingMigrator) Run(context.Context) (migration.Result, error) {
	return migration.Result{}, f.err
}

func TestInitialize_MigratorError(t *testing.T) {
	boom := errors.New("boom")
	s := New(setupRepo(t), catalog.Default(), WithMigrator(failingMigrator{err: boom}))
	require.ErrorIs(t, s.Initialize(context.Background()), boom)
	assert.False(t, s.Ready())
}

func TestQuantities(t *testing.T) {
	rec := &recorder{}
	s, _ := newStore(t, WithTelemetry(rec))
	ctx := context.Background()

	// expedition-1 / rubber-scraps requires 30
	require.NoError(t, s.AdjustQuantity(ctx, "expedition-1", "rubber-scraps", 10))
	require.NoError(t, s.AdjustQuantity(ctx, "expedition-1", "rubber-scraps", -25))
	c, _ := s.Collection("expedition-1")
	assert.Equal(t, 0, c.Items[0].Owned, "clamped at zero")

	require.NoError(t, s.SetQuantity(ctx, "expedition-1", "rubber-scraps", 30))
	c, _ = s.Collection("expedition-1")
	assert.True(t, c.Items[0].Completed)

	require.NoError(t, s.AdjustQuantity(ctx, "expedition-1", "rubber-scraps", -1))
	c, _ = s.Collection("expedition-1")
	assert.False(t, c.Items[0].Completed)

	require.NoError(t, s.SetQuantity(ctx, "expedition-1", "rubber-scraps", -4))
	c, _ = s.Collection("expedition-1")
	assert.Equal(t, 0, c.Items[0].Owned)

	assertCompletionInvariant(t, s.Snapshot())
	assert.Equal(t, []string{"item completed"}, rec.names())

	require.ErrorIs(t, s.AdjustQuantity(ctx, "nope", "rubber-scraps", 1), ErrCollectionNotFound)
	require.ErrorIs(t, s.SetQuantity(ctx, "expedition-1", "nope", 1), ErrItemNotFound)
}

func TestCompleteItem(t *testing.T) {
	rec := &recorder{}
	s, _ := newStore(t, WithTelemetry(rec))
	ctx := context.Background()

	require.NoError(t, s.CompleteItem(ctx, "expedition-1", "copper-wire"))
	c, _ := s.Collection("expedition-1")
	it := c.Items[c.ItemIndex("copper-wire")]
	assert.Equal(t, 12, it.Owned)
	assert.True(t, it.Completed)
	assert.Equal(t, []string{"item completed"}, rec.names())

	require.NoError(t, s.CompleteItem(ctx, "expedition-1", "copper-wire"))
	assert.Equal(t, []string{"item completed"}, rec.names(), "already complete")

	id, err := s.CreateCollection(ctx, "Wishlist")
	require.NoError(t, err)
	require.NoError(t, s.AddItem(ctx, id, "gear", 0))
	require.NoError(t, s.CompleteItem(ctx, id, "gear"))
	c, _ = s.Collection(id)
	assert.Equal(t, models.Item{ItemID: "gear", Owned: 0, Required: 0, Completed: true}, c.Items[0])

	require.ErrorIs(t, s.CompleteItem(ctx, id, "missing"), ErrItemNotFound)
}

func TestCreateCollection_TestKeeplist(t *testing.T) {
	rec := &recorder{}
	s, _ := newStore(t, WithTelemetry(rec))
	ctx := context.Background()

	id, err := s.CreateCollection(ctx, "Test Keeplist")
	require.NoError(t, err)
	assert.Equal(t, "test-keeplist", id)

	before := s.Snapshot()
	_, err = s.CreateCollection(ctx, "Test Keeplist")
	require.ErrorIs(t, err, ErrCollectionExists)
	_, err = s.CreateCollection(ctx, "  test   KEEPLIST!! ")
	require.ErrorIs(t, err, ErrCollectionExists)

	if diff := cmp.Diff(before, s.Snapshot(), cmpDoc...); diff != "" {
		t.Fatalf("state changed on rejected create:\n%s", diff)
	}

	c, ok := s.Collection("test-keeplist")
	require.True(t, ok)
	assert.Equal(t, "Test Keeplist", c.Name)
	assert.False(t, c.IsSystem)
	assert.True(t, s.IsActive("test-keeplist"))
	assert.Equal(t, []string{"collection created"}, rec.names())
}

func TestCreateCollection_Validation(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	_, err := s.CreateCollection(ctx, "  !!! ")
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = s.CreateCollection(ctx, "Workbenches")
	require.ErrorIs(t, err, ErrCollectionExists, "collides with a system id")
}

func TestCreateCollection_KeepsAllSentinel(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetActive(ctx, migration.DemotedCollectionID, true))
	require.True(t, s.Settings().Active.IsAll())

	_, err := s.CreateCollection(ctx, "Mine")
	require.NoError(t, err)
	assert.True(t, s.Settings().Active.IsAll())
}

func TestRenameAndDeleteCollection(t *testing.T) {
	rec := &recorder{}
	s, _ := newStore(t, WithTelemetry(rec))
	ctx := context.Background()

	id, err := s.CreateCollection(ctx, "Farm Run")
	require.NoError(t, err)

	require.NoError(t, s.RenameCollection(ctx, id, "  Farming  "))
	c, _ := s.Collection(id)
	assert.Equal(t, "Farming", c.Name)
	assert.Equal(t, "farm-run", c.ID)

	require.ErrorIs(t, s.RenameCollection(ctx, id, "---"), ErrInvalidName)
	require.ErrorIs(t, s.RenameCollection(ctx, "quests", "Mine"), ErrSystemCollection)
	require.ErrorIs(t, s.RenameCollection(ctx, "ghost", "Mine"), ErrCollectionNotFound)
	require.ErrorIs(t, s.DeleteCollection(ctx, "quests"), ErrSystemCollection)

	require.NoError(t, s.DeleteCollection(ctx, id))
	_, ok := s.Collection(id)
	assert.False(t, ok)
	assert.NotContains(t, s.Settings().Active.IDs(), id)
	assertActiveInvariant(t, s.Snapshot())

	require.ErrorIs(t, s.DeleteCollection(ctx, id), ErrCollectionNotFound)
	assert.Equal(t, []string{"collection created", "collection deleted"}, rec.names())
}

func TestDeleteCollection_CollapsesToAll(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	// every system collection active plus the inactive user collection
	require.NoError(t, s.SetActive(ctx, migration.DemotedCollectionID, true))
	id, err := s.CreateCollection(ctx, "Temp")
	require.NoError(t, err)
	require.NoError(t, s.SetActive(ctx, id, false))
	require.False(t, s.Settings().Active.IsAll())

	require.NoError(t, s.DeleteCollection(ctx, id))
	assert.True(t, s.Settings().Active.IsAll())
}

func TestUserCollectionItems(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	id, err := s.CreateCollection(ctx, "Mine")
	require.NoError(t, err)

	require.NoError(t, s.AddItem(ctx, id, "gear", 3))
	require.ErrorIs(t, s.AddItem(ctx, id, "gear", 1), ErrItemExists)
	require.ErrorIs(t, s.AddItem(ctx, id, " ", 1), ErrInvalidItem)
	require.ErrorIs(t, s.AddItem(ctx, "workbenches", "gear", 1), ErrSystemCollection)

	require.NoError(t, s.SetQuantity(ctx, id, "gear", 2))
	require.NoError(t, s.SetRequired(ctx, id, "gear", 2))
	c, _ := s.Collection(id)
	assert.True(t, c.Items[0].Completed)

	require.NoError(t, s.SetRequired(ctx, id, "gear", 5))
	c, _ = s.Collection(id)
	assert.False(t, c.Items[0].Completed)

	require.ErrorIs(t, s.SetRequired(ctx, "workbenches", "scrap-metal", 1), ErrSystemCollection)
	require.ErrorIs(t, s.SetRequired(ctx, id, "nope", 1), ErrItemNotFound)

	require.NoError(t, s.RemoveItem(ctx, id, "gear"))
	require.ErrorIs(t, s.RemoveItem(ctx, id, "gear"), ErrItemNotFound)
	require.ErrorIs(t, s.RemoveItem(ctx, "quests", "gear"), ErrSystemCollection)

	c, _ = s.Collection(id)
	assert.Empty(t, c.Items)
	assertCompletionInvariant(t, s.Snapshot())
}

func TestActiveSelection(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	ids := catalog.Default().IDs()

	require.NoError(t, s.ToggleActive(ctx, migration.DemotedCollectionID))
	assert.True(t, s.Settings().Active.IsAll(), "activating the last inactive collection collapses to all")

	require.NoError(t, s.ToggleActive(ctx, "quests"))
	assert.False(t, s.IsActive("quests"))
	assertActiveInvariant(t, s.Snapshot())

	// deactivate everything but one
	for _, id := range ids {
		if id != "workbenches" {
			require.NoError(t, s.SetActive(ctx, id, false))
		}
	}
	assert.Equal(t, []string{"workbenches"}, s.Settings().Active.IDs())

	before := s.Snapshot()
	require.ErrorIs(t, s.SetActive(ctx, "workbenches", false), ErrLastActive)
	require.ErrorIs(t, s.ToggleActive(ctx, "workbenches"), ErrLastActive)
	if diff := cmp.Diff(before, s.Snapshot(), cmpDoc...); diff != "" {
		t.Fatalf("state changed on rejected toggle:\n%s", diff)
	}

	require.NoError(t, s.SetActive(ctx, "quests", false), "already inactive is a no-op")
	require.ErrorIs(t, s.SetActive(ctx, "ghost", true), ErrCollectionNotFound)

	for _, id := range ids {
		require.NoError(t, s.SetActive(ctx, id, true))
	}
	assert.True(t, s.Settings().Active.IsAll())
}

func TestFlags(t *testing.T) {
	s, repo := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetShowCompleted(ctx, true))
	require.NoError(t, s.SetAnimationsEnabled(ctx, false))

	got := reload(t, repo).Settings()
	assert.True(t, got.ShowCompleted)
	assert.False(t, got.AnimationsEnabled)
}

func TestPersistenceAcrossReload(t *testing.T) {
	s, repo := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetQuantity(ctx, "workbenches", "scrap-metal", 3))
	id, err := s.CreateCollection(ctx, "Mine")
	require.NoError(t, err)
	require.NoError(t, s.AddItem(ctx, id, "gear", 2))
	require.NoError(t, s.SetActive(ctx, "quests", false))

	again := reload(t, repo)
	if diff := cmp.Diff(s.Snapshot(), again.Snapshot(), cmpDoc...); diff != "" {
		t.Fatalf("reloaded state differs (-before +after):\n%s", diff)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetQuantity(ctx, "workbenches", "scrap-metal", 3))
	require.NoError(t, s.CompleteItem(ctx, "quests", "cloth-rags"))
	id, err := s.CreateCollection(ctx, "Mine")
	require.NoError(t, err)
	require.NoError(t, s.AddItem(ctx, id, "gear", 0))
	require.NoError(t, s.SetShowCompleted(ctx, true))

	want := s.Snapshot()
	data, err := s.Export()
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"collections\": [")

	other, _ := newStore(t)
	require.NoError(t, other.Import(ctx, data))
	if diff := cmp.Diff(want, other.Snapshot(), cmpDoc...); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestImport_Rejects(t *testing.T) {
	rec := &recorder{}
	s, _ := newStore(t, WithTelemetry(rec))
	ctx := context.Background()
	before := s.Snapshot()

	for name, data := range map[string]string{
		"not json":             `{oops`,
		"no collections":       `{"settings":{}}`,
		"collections object":   `{"collections":{}}`,
		"duplicate collection": `{"collections":[{"id":"a","items":[]},{"id":"a","items":[]}]}`,
		"duplicate item":       `{"collections":[{"id":"a","items":[{"itemId":"x"},{"itemId":"x"}]}]}`,
		"empty id":             `{"collections":[{"id":"","items":[]}]}`,
	} {
		err := s.Import(ctx, []byte(data))
		require.ErrorIs(t, err, ErrInvalidDocument, name)
	}

	if diff := cmp.Diff(before, s.Snapshot(), cmpDoc...); diff != "" {
		t.Fatalf("state changed on rejected import:\n%s", diff)
	}
	assert.Empty(t, rec.names())
}

func TestImport_ReplacesWholesale(t *testing.T) {
	rec := &recorder{}
	s, repo := newStore(t, WithTelemetry(rec))
	ctx := context.Background()

	data := `{"collections":[{"id":"only","name":"Only","isSystem":false,"items":[{"itemId":"x","qtyOwned":1,"qtyRequired":2,"isCompleted":false}]}]}`
	require.NoError(t, s.Import(ctx, []byte(data)))

	doc := s.Snapshot()
	assert.Equal(t, []string{"only"}, doc.CollectionIDs())
	assert.Equal(t, models.DefaultSettings(), doc.Settings)
	assert.Equal(t, []string{"data imported"}, rec.names())

	raw, err := repo.Get(ctx, storage.DocumentKey)
	require.NoError(t, err)
	stored, err := models.DecodeStored(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, stored.CollectionIDs())
}

func TestImport_NormalizesSelection(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	data := `{"collections":[{"id":"a","items":[]},{"id":"b","items":[]}],"settings":{"activeCollectionIds":["a","b","gone"]}}`
	require.NoError(t, s.Import(ctx, []byte(data)))
	assert.True(t, s.Settings().Active.IsAll())
}

func TestReset(t *testing.T) {
	rec := &recorder{}
	s, repo := newStore(t, WithTelemetry(rec))
	ctx := context.Background()
	cat := catalog.Default()

	require.NoError(t, s.SetQuantity(ctx, "workbenches", "scrap-metal", 7))
	require.NoError(t, s.CompleteItem(ctx, "quests", "cloth-rags"))
	id, err := s.CreateCollection(ctx, "Mine")
	require.NoError(t, err)
	require.NoError(t, s.AddItem(ctx, id, "gear", 4))
	require.NoError(t, s.SetQuantity(ctx, id, "gear", 2))
	require.NoError(t, s.SetShowCompleted(ctx, true))
	mine, _ := s.Collection(id)

	require.NoError(t, s.Reset(ctx))

	doc := s.Snapshot()
	for _, sys := range cat.Collections() {
		got, ok := s.Collection(sys.ID)
		require.True(t, ok)
		if diff := cmp.Diff(sys, got, cmpDoc...); diff != "" {
			t.Fatalf("system collection %s not reset:\n%s", sys.ID, diff)
		}
	}
	got, ok := s.Collection(id)
	require.True(t, ok)
	assert.Equal(t, mine, got)
	assert.Equal(t, models.DefaultSettings(), doc.Settings)
	assert.Contains(t, rec.names(), "data reset")

	again := reload(t, repo)
	if diff := cmp.Diff(doc, again.Snapshot(), cmpDoc...); diff != "" {
		t.Fatalf("reset not persisted:\n%s", diff)
	}
}

func TestReset_AfterImportWithCatalogID(t *testing.T) {
	s, repo := newStore(t)
	ctx := context.Background()

	data := `{"collections":[
		{"id":"workbenches","name":"My Benches","isSystem":false,"items":[{"itemId":"gear","qtyOwned":1,"qtyRequired":2,"isCompleted":false}]},
		{"id":"mine","name":"Mine","isSystem":false,"items":[]}
	]}`
	require.NoError(t, s.Import(ctx, []byte(data)))
	require.NoError(t, s.Reset(ctx))

	doc := s.Snapshot()
	require.NoError(t, doc.Validate())
	assert.Equal(t, append(catalog.Default().IDs(), "mine"), doc.CollectionIDs())

	bench, ok := s.Collection("workbenches")
	require.True(t, ok)
	assert.True(t, bench.IsSystem)

	again := reload(t, repo)
	if diff := cmp.Diff(doc, again.Snapshot(), cmpDoc...); diff != "" {
		t.Fatalf("reset not persisted:\n%s", diff)
	}
}

func TestWipe(t *testing.T) {
	s, repo := newStore(t)
	ctx := context.Background()

	_, err := s.CreateCollection(ctx, "Mine")
	require.NoError(t, err)
	require.NoError(t, s.SetQuantity(ctx, "workbenches", "scrap-metal", 3))

	require.NoError(t, s.Wipe(ctx))

	assert.Equal(t, catalog.Default().IDs(), s.Snapshot().CollectionIDs())
	assert.False(t, s.IsActive(migration.DemotedCollectionID))

	v, err := repo.Get(ctx, storage.VersionKey)
	require.NoError(t, err)
	assert.Equal(t, "2", string(v))
}

type flakyRepo struct {
	records.Repository
	failSet bool
}

func (f *flakyRepo) Set(ctx context.Context, key string, v []byte) error {
	if f.failSet && key == storage.DocumentKey {
		return errors.New("disk full")
	}
	return f.Repository.Set(ctx, key, v)
}

func TestPersistFailureIsLoggedNotReturned(t *testing.T) {
	repo := &flakyRepo{Repository: setupRepo(t)}
	var buf bytes.Buffer
	s := New(repo, catalog.Default(), WithLogger(logging.New(&buf, slog.LevelDebug)))
	ctx := context.Background()
	require.NoError(t, s.Initialize(ctx))

	repo.failSet = true
	require.NoError(t, s.SetQuantity(ctx, "workbenches", "scrap-metal", 2))

	c, _ := s.Collection("workbenches")
	assert.Equal(t, 2, c.Items[c.ItemIndex("scrap-metal")].Owned)
	assert.Contains(t, buf.String(), "failed to persist state")
}

func TestConcurrentMutations(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.AdjustQuantity(ctx, "expedition-1", "rubber-scraps", 1)
		}()
	}
	wg.Wait()

	c, _ := s.Collection("expedition-1")
	assert.Equal(t, 20, c.Items[c.ItemIndex("rubber-scraps")].Owned)
}
