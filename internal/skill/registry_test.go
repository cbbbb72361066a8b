package skill

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminalabs/concierge/internal/testutil"
)

// fakeSkill is a configurable skill for registry tests.
type fakeSkill struct {
	name    string
	handles bool
	data    map[string]any
	err     error
	panics  bool
}

func (f *fakeSkill) Name() string            { return f.name }
func (f *fakeSkill) Description() string     { return "fake skill " + f.name }
func (f *fakeSkill) CanHandle(string) bool   { return f.handles }
func (f *fakeSkill) Execute(context.Context, string) (map[string]any, error) {
	if f.panics {
		panic("kaboom")
	}
	return f.data, f.err
}

func TestRegistry_Dispatch_RegistrationOrder(t *testing.T) {
	r := NewRegistry(testutil.DiscardLogger())
	r.Register(&fakeSkill{name: "first", handles: true, data: map[string]any{"n": 1}})
	r.Register(&fakeSkill{name: "skipped", handles: false})
	r.Register(&fakeSkill{name: "second", handles: true, data: map[string]any{"n": 2}})

	results := r.Dispatch(context.Background(), "msg")

	require.Len(t, results, 2)
	assert.Equal(t, "first", results[0].Skill)
	assert.Equal(t, "second", results[1].Skill)
	assert.True(t, results[0].Success)
	assert.True(t, results[1].Success)
}

func TestRegistry_Dispatch_NoMatches(t *testing.T) {
	r := NewRegistry(testutil.DiscardLogger())
	r.Register(&fakeSkill{name: "idle", handles: false})

	results := r.Dispatch(context.Background(), "msg")
	assert.Empty(t, results)
}

func TestRegistry_Dispatch_FailureIsolation(t *testing.T) {
	r := NewRegistry(testutil.DiscardLogger())
	r.Register(&fakeSkill{name: "broken", handles: true, err: errors.New("boom")})
	r.Register(&fakeSkill{name: "healthy", handles: true, data: map[string]any{"ok": true}})

	results := r.Dispatch(context.Background(), "msg")

	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.Equal(t, "boom", results[0].Error)
	assert.True(t, results[1].Success, "a failing skill must not affect the next one")
}

func TestRegistry_Dispatch_PanicRecovery(t *testing.T) {
	r := NewRegistry(testutil.DiscardLogger())
	r.Register(&fakeSkill{name: "panicky", handles: true, panics: true})
	r.Register(&fakeSkill{name: "healthy", handles: true, data: map[string]any{}})

	results := r.Dispatch(context.Background(), "msg")

	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "kaboom")
	assert.True(t, results[1].Success)
}

func TestRegistry_Describe(t *testing.T) {
	r := NewRegistry(testutil.DiscardLogger())
	r.Register(NewMathSkill())
	r.Register(NewWeatherSkill(nil))

	infos := r.Describe()

	require.Len(t, infos, 2)
	assert.Equal(t, "calculator", infos[0].Name)
	assert.Equal(t, "weather", infos[1].Name)
	assert.NotEmpty(t, infos[0].Description)
}
