package hooks

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/playerhooks/internal/hookctx"
	"github.com/jask/playerhooks/internal/player"
	"github.com/jask/playerhooks/internal/registry"
)

func setupHooks(t *testing.T) (*Hooks, *player.Player, *player.GuildQueue) {
	t.Helper()
	p := player.New()
	q := p.Nodes().Create(player.Guild{ID: "g1", Name: "Lounge"}, player.WithVolume(50))
	h := New(nil)
	h.Bind(p)
	return h, p, q
}

func TestGetQueueWithoutPlayer(t *testing.T) {
	t.Parallel()

	h := New(nil)
	_, ok := h.GetPlayer()
	require.False(t, ok)
	q, ok := h.GetQueue(player.GuildID("g1"))
	require.False(t, ok)
	require.Nil(t, q)
}

func TestGetQueueFallsBackToFirstInstance(t *testing.T) {
	t.Parallel()

	p := player.New()
	want := p.Nodes().Create(player.Guild{ID: "g1"})
	reg := registry.New[player.Instance](nil)
	reg.Register("main", p)
	h := New(reg)

	got, ok := h.GetQueue(player.GuildID("g1"))
	require.True(t, ok)
	require.Same(t, want, got)
}

func TestUseVolumeMissingNode(t *testing.T) {
	t.Parallel()

	h, _, _ := setupHooks(t)
	vol, err := h.UseVolume(context.Background(), player.GuildID("missingNode"))
	require.NoError(t, err)
	require.False(t, vol.Resolved())

	v, ok := vol.Get()
	require.False(t, ok)
	require.Zero(t, v)

	applied, resolved := vol.Set(Literal(80))
	require.False(t, applied)
	require.False(t, resolved)
	applied, resolved = vol.Set(Transform(func(v int) int { return v + 10 }))
	require.False(t, applied)
	require.False(t, resolved)
}

func TestUseVolumeLiteralAndTransform(t *testing.T) {
	t.Parallel()

	h, _, q := setupHooks(t)
	vol, err := h.UseVolume(context.Background(), player.GuildID("g1"))
	require.NoError(t, err)

	v, ok := vol.Get()
	require.True(t, ok)
	require.Equal(t, 50, v)

	applied, resolved := vol.Set(Literal(80))
	require.True(t, resolved)
	require.True(t, applied)
	require.Equal(t, 80, q.Volume())

	applied, resolved = vol.Set(Transform(func(v int) int { return v + 10 }))
	require.True(t, resolved)
	require.True(t, applied)
	require.Equal(t, 90, q.Volume())

	v, _ = vol.Get()
	require.Equal(t, 90, v)
}

func TestTransformSeesVolumeAtCallTime(t *testing.T) {
	t.Parallel()

	h, _, q := setupHooks(t)
	vol, err := h.UseVolume(context.Background(), q)
	require.NoError(t, err)

	require.True(t, q.SetVolume(20))
	var seen int
	vol.Set(Transform(func(v int) int { seen = v; return v * 2 }))
	require.Equal(t, 20, seen)
	require.Equal(t, 40, q.Volume())
}

func TestSetReportsRejectedVolume(t *testing.T) {
	t.Parallel()

	h, _, q := setupHooks(t)
	vol, err := h.UseVolume(context.Background(), q)
	require.NoError(t, err)

	applied, resolved := vol.Set(Literal(player.MaxVolume + 1))
	require.True(t, resolved)
	require.False(t, applied)
	require.Equal(t, 50, q.Volume())
}

func TestUseVolumeDefaultsToContextGuild(t *testing.T) {
	t.Parallel()

	h, _, q := setupHooks(t)
	err := hookctx.Provide(context.Background(), hookctx.HooksCtx{Guild: q.Guild()}, func(ctx context.Context) error {
		vol, err := h.UseVolume(ctx, nil)
		if err != nil {
			return err
		}
		v, ok := vol.Get()
		require.True(t, ok)
		require.Equal(t, 50, v)
		return nil
	})
	require.NoError(t, err)
}

func TestUseVolumeWithoutContext(t *testing.T) {
	t.Parallel()

	h, _, _ := setupHooks(t)
	_, err := h.UseVolume(context.Background(), nil)
	require.ErrorIs(t, err, hookctx.ErrMissingContext)
}

func TestDispatchGoesStaleAfterDelete(t *testing.T) {
	t.Parallel()

	h, p, q := setupHooks(t)
	vol, err := h.UseVolume(context.Background(), player.GuildID("g1"))
	require.NoError(t, err)

	require.True(t, p.Nodes().Delete(q))
	p.Nodes().Create(player.Guild{ID: "g1"}, player.WithVolume(10))

	v, ok := vol.Get()
	require.True(t, ok)
	require.Equal(t, 50, v)
	applied, resolved := vol.Set(Literal(60))
	require.True(t, resolved)
	require.False(t, applied)
}

func TestRebindingChangesResolution(t *testing.T) {
	t.Parallel()

	h, _, _ := setupHooks(t)
	other := player.New()
	oq := other.Nodes().Create(player.Guild{ID: "g1"}, player.WithVolume(5))
	h.Bind(other)

	got, ok := h.GetQueue(player.GuildID("g1"))
	require.True(t, ok)
	require.Same(t, oq, got)
}

func TestCreateHookMatchesDirectResolver(t *testing.T) {
	t.Parallel()

	h, _, q := setupHooks(t)
	calls := 0
	useQueue := CreateHook(h, func(c DeclarationContext) func() (player.Queue, bool) {
		calls++
		return func() (player.Queue, bool) { return c.GetQueue(player.GuildID("g1")) }
	})
	require.Equal(t, 1, calls)

	got, ok := useQueue()
	want, wantOK := h.GetQueue(player.GuildID("g1"))
	require.Equal(t, wantOK, ok)
	require.Same(t, want, got)
	require.Same(t, q, got)

	missing := CreateHook(h, func(c DeclarationContext) func() (player.Queue, bool) {
		return func() (player.Queue, bool) { return c.GetQueue(player.GuildID("x")) }
	})
	_, ok = missing()
	_, direct := h.GetQueue(player.GuildID("x"))
	require.Equal(t, direct, ok)
	require.Equal(t, 1, calls)
}

func TestCreateHookExposesRegistry(t *testing.T) {
	t.Parallel()

	h, p, _ := setupHooks(t)
	keys := CreateHook(h, func(c DeclarationContext) []string {
		inst, ok := c.GetPlayer()
		require.True(t, ok)
		require.Same(t, p, inst)
		return c.Instances.Keys()
	})
	require.Equal(t, []string{registry.PreferredKey}, keys)
}

func TestCreateHookPropagatesPanic(t *testing.T) {
	t.Parallel()

	h := New(nil)
	require.Panics(t, func() {
		CreateHook(h, func(DeclarationContext) int { panic("decl failed") })
	})
}

func TestShiftClampsLargeDeltas(t *testing.T) {
	t.Parallel()
	h, _, q := setupHooks(t)
	vol, err := h.UseVolume(context.Background(), q)
	require.NoError(t, err)

	applied, _ := vol.Set(Shift(math.MaxInt, player.MaxVolume))
	require.True(t, applied)
	require.Equal(t, player.MaxVolume, q.Volume())

	applied, _ = vol.Set(Shift(math.MinInt, player.MaxVolume))
	require.True(t, applied)
	require.Zero(t, q.Volume())

	applied, _ = vol.Set(Shift(15, player.MaxVolume))
	require.True(t, applied)
	require.Equal(t, 15, q.Volume())
}

func TestLockGuildSerializesTransforms(t *testing.T) {
	t.Parallel()
	h, _, q := setupHooks(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := h.LockGuild(q.Guild())
			defer unlock()
			vol, err := h.UseVolume(context.Background(), player.GuildID("g1"))
			if err != nil {
				return
			}
			vol.Set(Transform(func(v int) int { return v + 1 }))
		}()
	}
	wg.Wait()
	require.Equal(t, 100, q.Volume())
}
