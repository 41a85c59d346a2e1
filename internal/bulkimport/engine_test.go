package bulkimport

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trama-erp/trama-erp/internal/platform/httpx"
	"github.com/trama-erp/trama-erp/internal/shared"
)

// fakeTarget stores folded keys, mirroring the chave_natural() indexes
// the real repositories compare against.
type fakeTarget struct {
	mu       sync.Mutex
	existing map[string]bool
	inserted []map[string]any
	probed   []string
	delay    time.Duration
}

func newFakeTarget(existing ...string) *fakeTarget {
	t := &fakeTarget{existing: map[string]bool{}}
	for _, k := range existing {
		t.existing[shared.Fold(k)] = true
	}
	return t
}

func (t *fakeTarget) Name() string       { return "cores" }
func (t *fakeTarget) Label() string      { return "Cor" }
func (t *fakeTarget) NaturalKey() string { return "nome" }

func (t *fakeTarget) Fields() []Field {
	return []Field{
		{Name: "nome", Kind: KindString, Required: true},
		{Name: "legado", Kind: KindString},
		{Name: "ativo", Kind: KindBool},
	}
}

func (t *fakeTarget) Exists(ctx context.Context, key string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.probed = append(t.probed, key)
	return t.existing[key], nil
}

func (t *fakeTarget) Insert(ctx context.Context, row map[string]any) error {
	if t.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(t.delay):
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inserted = append(t.inserted, row)
	return nil
}

func testEngine(opts Options) *Engine {
	return NewEngine(slog.New(slog.NewTextHandler(io.Discard, nil)), nil, opts)
}

var colorMapping = []Mapping{
	{CSVColumn: "Nome", DBField: "nome", Required: true},
	{CSVColumn: "Legado", DBField: "legado"},
	{CSVColumn: "Ativo", DBField: "ativo"},
}

func TestRunSkipsDuplicatesAndEmptyRequired(t *testing.T) {
	target := newFakeTarget()
	engine := testEngine(Options{})

	rows := []map[string]string{
		{"Nome": "Azul"},
		{"Nome": "Azul"},
		{"Nome": ""},
	}
	res, err := engine.Run(context.Background(), target, rows, colorMapping)
	require.NoError(t, err)

	require.True(t, res.Success)
	require.Equal(t, 1, res.Imported)
	require.Equal(t, []string{"Linha 3: Cor 'Azul' já existe"}, res.Duplicates)
	require.Equal(t, []string{"Linha 4: Campo obrigatório 'nome' está vazio"}, res.Errors)
	require.Len(t, target.inserted, 1)
}

func TestRunDuplicateCheckIgnoresCaseAndAccents(t *testing.T) {
	target := newFakeTarget()
	engine := testEngine(Options{})

	rows := []map[string]string{
		{"Nome": "Pêssego"},
		{"Nome": "pessego"},
		{"Nome": "PÊSSEGO"},
	}
	res, err := engine.Run(context.Background(), target, rows, colorMapping)
	require.NoError(t, err)

	require.Equal(t, 1, res.Imported)
	require.Len(t, res.Duplicates, 2)
}

func TestRunQueriesStorageWithFoldedKey(t *testing.T) {
	target := newFakeTarget("Pêssego")
	engine := testEngine(Options{})

	rows := []map[string]string{{"Nome": "Pessego"}}
	res, err := engine.Run(context.Background(), target, rows, colorMapping)
	require.NoError(t, err)

	// The storage probe must carry the same folded form the in-run
	// dedupe uses, so an accent variant of a stored record is caught.
	require.Equal(t, []string{"pessego"}, target.probed)
	require.Equal(t, 0, res.Imported)
	require.Equal(t, []string{"Linha 2: Cor 'Pessego' já existe"}, res.Duplicates)
	require.Empty(t, target.inserted)
}

func TestRunPausesBetweenProcessedBatches(t *testing.T) {
	target := newFakeTarget("Azul")
	engine := testEngine(Options{BatchSize: 4, BatchPause: 40 * time.Millisecond})

	rows := make([]map[string]string, 10)
	for i := range rows {
		rows[i] = map[string]string{"Nome": "Azul"}
	}
	started := time.Now()
	res, err := engine.Run(context.Background(), target, rows, colorMapping)
	elapsed := time.Since(started)
	require.NoError(t, err)

	// All rows are duplicates, yet they still count toward the batch
	// boundaries at rows 4 and 8.
	require.Equal(t, 0, res.Imported)
	require.Len(t, res.Duplicates, 10)
	require.GreaterOrEqual(t, elapsed, 80*time.Millisecond)
}

func TestRunDetectsStoredDuplicates(t *testing.T) {
	target := newFakeTarget("Verde")
	engine := testEngine(Options{})

	rows := []map[string]string{{"Nome": "verde"}, {"Nome": "Roxo"}}
	res, err := engine.Run(context.Background(), target, rows, colorMapping)
	require.NoError(t, err)

	require.Equal(t, 1, res.Imported)
	require.Equal(t, []string{"Linha 2: Cor 'verde' já existe"}, res.Duplicates)
}

func TestRunCoercesBooleans(t *testing.T) {
	target := newFakeTarget()
	engine := testEngine(Options{})

	rows := []map[string]string{
		{"Nome": "Azul", "Ativo": "sim"},
		{"Nome": "Verde", "Ativo": "nao"},
		{"Nome": "Roxo", "Ativo": "1"},
	}
	res, err := engine.Run(context.Background(), target, rows, colorMapping)
	require.NoError(t, err)
	require.Equal(t, 3, res.Imported)

	require.Equal(t, true, target.inserted[0]["ativo"])
	require.Equal(t, false, target.inserted[1]["ativo"])
	require.Equal(t, true, target.inserted[2]["ativo"])
}

func TestRunEmptyOptionalCellIsNil(t *testing.T) {
	target := newFakeTarget()
	engine := testEngine(Options{})

	rows := []map[string]string{{"Nome": "Azul", "Legado": "  "}}
	res, err := engine.Run(context.Background(), target, rows, colorMapping)
	require.NoError(t, err)
	require.Equal(t, 1, res.Imported)
	require.Nil(t, target.inserted[0]["legado"])
}

func TestRunHonorsMappingLevelRequired(t *testing.T) {
	target := newFakeTarget()
	engine := testEngine(Options{})

	mappings := []Mapping{
		{CSVColumn: "Nome", DBField: "nome", Required: true},
		{CSVColumn: "Legado", DBField: "legado", Required: true},
	}
	rows := []map[string]string{{"Nome": "Azul"}}
	res, err := engine.Run(context.Background(), target, rows, mappings)
	require.NoError(t, err)

	require.Equal(t, 0, res.Imported)
	require.Equal(t, []string{"Linha 2: Campo obrigatório 'legado' está vazio"}, res.Errors)
}

func TestRunStopsAtRunDeadline(t *testing.T) {
	target := newFakeTarget()
	target.delay = 30 * time.Millisecond
	engine := testEngine(Options{RunTimeout: 50 * time.Millisecond, RowTimeout: time.Second})

	rows := make([]map[string]string, 50)
	for i := range rows {
		rows[i] = map[string]string{"Nome": "Cor" + string(rune('A'+i))}
	}
	res, err := engine.Run(context.Background(), target, rows, colorMapping)
	require.ErrorIs(t, err, httpx.ErrTimeout)

	require.Less(t, res.Imported, len(rows))
	require.Contains(t, res.Message, "tempo limite")
}

func TestCoerceFloatAcceptsComma(t *testing.T) {
	v, err := coerce(Field{Name: "preco", Kind: KindFloat}, "12,50")
	require.NoError(t, err)
	require.Equal(t, 12.5, v)

	v, err = coerce(Field{Name: "preco", Kind: KindFloat}, "9.99")
	require.NoError(t, err)
	require.Equal(t, 9.99, v)

	_, err = coerce(Field{Name: "preco", Kind: KindFloat}, "abc")
	require.Error(t, err)
}

func TestCoerceDateLayouts(t *testing.T) {
	v, err := coerce(Field{Name: "data", Kind: KindDate}, "2026-03-01")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), v)

	v, err = coerce(Field{Name: "data", Kind: KindDate}, "01/03/2026")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), v)
}
