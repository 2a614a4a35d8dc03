package economy

import (
	"context"
	"testing"
	"time"

	"github.com/MikeJollie2707/michaelbot/michaelbot/catalog"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTravelToNether(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.portals[testUser] = map[string]int{catalog.PortalNether: 5}

	res, err := e.Travel(context.Background(), testUser, models.Nether)
	require.NoError(t, err)

	assert.Equal(t, models.Overworld, res.From)
	assert.Equal(t, models.Nether, res.To)
	assert.False(t, res.PortalExpired)
	assert.Equal(t, models.Nether, store.users[testUser].World)
	assert.Equal(t, 4, store.portals[testUser][catalog.PortalNether])
	require.NotNil(t, store.users[testUser].LastWorldMove)
	assert.Equal(t, e.now(), *store.users[testUser].LastWorldMove)
}

func TestTravelSameWorld(t *testing.T) {
	e, _ := newTestEngine(&scriptRNG{})

	_, err := e.Travel(context.Background(), testUser, models.Overworld)
	require.Error(t, err)
	assert.Equal(t, errs.Validation, errs.KindOf(err))
}

func TestTravelNoRouteNetherToSpace(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.users[testUser].World = models.Nether

	_, err := e.Travel(context.Background(), testUser, models.Space)
	require.Error(t, err)
	assert.Equal(t, errs.Precondition, errs.KindOf(err))
}

func TestTravelCooldown(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	moved := e.now().Add(-2 * time.Hour)
	store.users[testUser].LastWorldMove = &moved
	store.portals[testUser] = map[string]int{catalog.PortalNether: 5}

	_, err := e.Travel(context.Background(), testUser, models.Nether)
	require.Error(t, err)
	assert.Equal(t, errs.Precondition, errs.KindOf(err))
	assert.Equal(t, models.Overworld, store.users[testUser].World)
}

func TestTravelNoPortal(t *testing.T) {
	e, _ := newTestEngine(&scriptRNG{})

	_, err := e.Travel(context.Background(), testUser, models.Nether)
	require.Error(t, err)
	assert.Equal(t, errs.Precondition, errs.KindOf(err))
}

func TestTravelNetherShattersFragileTools(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.portals[testUser] = map[string]int{catalog.PortalNether: 5}
	store.equipment[testUser] = map[string]*models.ActiveTool{
		"fragile_pickaxe": {UserID: testUser, ItemID: "fragile_pickaxe", EqType: models.ToolPickaxe, RemainDurability: 100},
		"iron_sword":      {UserID: testUser, ItemID: "iron_sword", EqType: models.ToolSword, RemainDurability: 200},
	}

	res, err := e.Travel(context.Background(), testUser, models.Nether)
	require.NoError(t, err)

	assert.Equal(t, []string{"fragile_pickaxe"}, res.DestroyedTools)
	assert.Nil(t, store.equipment[testUser]["fragile_pickaxe"])
	assert.NotNil(t, store.equipment[testUser]["iron_sword"])
}

func TestTravelPortalLastUseExpires(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.portals[testUser] = map[string]int{catalog.PortalNether: 1}

	res, err := e.Travel(context.Background(), testUser, models.Nether)
	require.NoError(t, err)

	assert.True(t, res.PortalExpired)
	assert.Empty(t, store.portals[testUser])
}

func TestTravelToSpaceNeedsSupplies(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.portals[testUser] = map[string]int{catalog.PortalEnd: 2}

	// No eye at all.
	_, err := e.Travel(context.Background(), testUser, models.Space)
	require.Error(t, err)
	assert.Equal(t, errs.Precondition, errs.KindOf(err))

	// One eye but no way home.
	store.inventory[testUser] = map[string]int{catalog.ItemMysteriousEye: 1}
	_, err = e.Travel(context.Background(), testUser, models.Space)
	require.Error(t, err)
	assert.Equal(t, errs.Precondition, errs.KindOf(err))

	// One eye plus a blaze works and spends the eye.
	store.inventory[testUser][catalog.ItemBlaze] = 1
	res, err := e.Travel(context.Background(), testUser, models.Space)
	require.NoError(t, err)
	assert.Equal(t, models.Space, res.To)
	assert.Zero(t, store.inventory[testUser][catalog.ItemMysteriousEye])
	assert.Equal(t, 1, store.inventory[testUser][catalog.ItemBlaze])
	assert.Equal(t, 1, store.portals[testUser][catalog.PortalEnd])
}

func TestTravelToSpaceWithSpareEye(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.portals[testUser] = map[string]int{catalog.PortalEnd: 2}
	store.inventory[testUser] = map[string]int{catalog.ItemMysteriousEye: 2}

	res, err := e.Travel(context.Background(), testUser, models.Space)
	require.NoError(t, err)

	assert.Equal(t, models.Space, res.To)
	assert.Equal(t, 1, store.inventory[testUser][catalog.ItemMysteriousEye])
}
